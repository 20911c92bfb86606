package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTeamMembership(t *testing.T) {
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	team := Team{Members: []TeamMember{
		{User: admin, Role: RoleAdmin},
		{User: member, Role: RoleMember},
	}}

	if !team.IsMember(admin) || !team.IsMember(member) {
		t.Fatal("existing members not recognized")
	}
	if team.IsMember(primitive.NewObjectID()) {
		t.Fatal("stranger recognized as member")
	}

	if !team.IsAdmin(admin) {
		t.Fatal("admin not recognized")
	}
	if team.IsAdmin(member) {
		t.Fatal("plain member recognized as admin")
	}
	if team.IsAdmin(primitive.NewObjectID()) {
		t.Fatal("stranger recognized as admin")
	}
}

func TestEnsureCreatorMember(t *testing.T) {
	creator := primitive.NewObjectID()

	team := Team{CreatedBy: creator}
	team.EnsureCreatorMember()
	if len(team.Members) != 1 || team.Members[0].User != creator || team.Members[0].Role != RoleAdmin {
		t.Fatalf("expected creator seeded as admin, got %+v", team.Members)
	}

	// Idempotent when the creator is already listed, whatever the role.
	team.Members[0].Role = RoleMember
	team.EnsureCreatorMember()
	if len(team.Members) != 1 {
		t.Fatalf("creator duplicated: %+v", team.Members)
	}
}

func TestRemoveMember(t *testing.T) {
	admin := primitive.NewObjectID()
	member := primitive.NewObjectID()
	team := Team{Members: []TeamMember{
		{User: admin, Role: RoleAdmin},
		{User: member, Role: RoleMember},
	}}

	if team.RemoveMember(primitive.NewObjectID()) {
		t.Fatal("removing a stranger reported success")
	}
	if len(team.Members) != 2 {
		t.Fatal("member list changed on failed removal")
	}

	if !team.RemoveMember(member) {
		t.Fatal("removing an existing member failed")
	}
	if len(team.Members) != 1 || team.Members[0].User != admin {
		t.Fatalf("unexpected members after removal: %+v", team.Members)
	}
}

func TestMemberRoleValidity(t *testing.T) {
	if !RoleMember.IsValid() || !RoleAdmin.IsValid() {
		t.Error("known role reported invalid")
	}
	if MemberRole("owner").IsValid() || MemberRole("").IsValid() {
		t.Error("invalid role accepted")
	}
}
