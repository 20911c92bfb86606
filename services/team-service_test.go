package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskflow/models"
)

func newTeamService(teams *stubTeamStore, users *stubUserStore, notifications *stubNotificationStore) *TeamService {
	return NewTeamService(teams, users, newTestNotifier(notifications))
}

func TestCreateTeamSeedsCreatorAsAdmin(t *testing.T) {
	creator := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	users := newStubUserStore(creator)
	teams := newStubTeamStore()
	svc := newTeamService(teams, users, &stubNotificationStore{})

	view, err := svc.Create(context.Background(), creator.ID, "Platform", "Infra work")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(view.Members) != 1 {
		t.Fatalf("expected exactly one member, got %d", len(view.Members))
	}
	if view.Members[0].User.ID != creator.ID || view.Members[0].Role != models.RoleAdmin {
		t.Fatalf("expected creator as admin member, got %+v", view.Members[0])
	}
	if view.CreatedBy.ID != creator.ID {
		t.Fatalf("expected createdBy %s, got %s", creator.ID.Hex(), view.CreatedBy.ID.Hex())
	}

	cached, _ := users.FindByID(context.Background(), creator.ID)
	if len(cached.Teams) != 1 || cached.Teams[0] != view.ID {
		t.Fatal("expected team id added to the creator's team cache")
	}
}

func TestCreateTeamRequiresName(t *testing.T) {
	creator := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	svc := newTeamService(newStubTeamStore(), newStubUserStore(creator), &stubNotificationStore{})

	if _, err := svc.Create(context.Background(), creator.ID, "", "no name"); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestAddMemberFlow(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	invitee := models.User{ID: newID(t), Name: "Bojan", Email: "bojan@example.com"}
	users := newStubUserStore(admin, invitee)
	teams := newStubTeamStore()
	notifications := &stubNotificationStore{}
	svc := newTeamService(teams, users, notifications)

	created, err := svc.Create(context.Background(), admin.ID, "Platform", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A non-member cannot add anyone.
	if _, err := svc.AddMember(context.Background(), invitee.ID, created.ID, admin.Email, models.RoleMember); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin actor, got %v", err)
	}

	view, err := svc.AddMember(context.Background(), admin.ID, created.ID, invitee.Email, models.RoleMember)
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if len(view.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(view.Members))
	}
	if view.Members[1].User.ID != invitee.ID || view.Members[1].Role != models.RoleMember {
		t.Fatalf("unexpected second member %+v", view.Members[1])
	}

	invites := notifications.byType(models.NotifTeamInvite)
	if len(invites) != 1 {
		t.Fatalf("expected exactly one team invite notification, got %d", len(invites))
	}
	if invites[0].UserID != invitee.ID.Hex() {
		t.Fatalf("invite went to %s, wanted %s", invites[0].UserID, invitee.ID.Hex())
	}

	cached, _ := users.FindByID(context.Background(), invitee.ID)
	if len(cached.Teams) != 1 || cached.Teams[0] != created.ID {
		t.Fatal("expected team id added to the invitee's team cache")
	}
}

func TestAddMemberAlreadyPresent(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	member := models.User{ID: newID(t), Name: "Bojan", Email: "bojan@example.com"}
	users := newStubUserStore(admin, member)
	team := models.Team{
		ID:   newID(t),
		Name: "Platform",
		Members: []models.TeamMember{
			{User: admin.ID, Role: models.RoleAdmin},
			{User: member.ID, Role: models.RoleMember},
		},
		CreatedBy: admin.ID,
		CreatedAt: time.Now(),
	}
	teams := newStubTeamStore(team)
	svc := newTeamService(teams, users, &stubNotificationStore{})

	if _, err := svc.AddMember(context.Background(), admin.ID, team.ID, member.Email, models.RoleMember); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}

	stored, _ := teams.FindByID(context.Background(), team.ID)
	if len(stored.Members) != 2 {
		t.Fatalf("membership was duplicated: %d entries", len(stored.Members))
	}
}

func TestAddMemberUnknownEmail(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	team := models.Team{
		ID:        newID(t),
		Name:      "Platform",
		Members:   []models.TeamMember{{User: admin.ID, Role: models.RoleAdmin}},
		CreatedBy: admin.ID,
	}
	svc := newTeamService(newStubTeamStore(team), newStubUserStore(admin), &stubNotificationStore{})

	if _, err := svc.AddMember(context.Background(), admin.ID, team.ID, "ghost@example.com", models.RoleMember); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddMemberDefaultsRole(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	invitee := models.User{ID: newID(t), Name: "Bojan", Email: "bojan@example.com"}
	team := models.Team{
		ID:        newID(t),
		Name:      "Platform",
		Members:   []models.TeamMember{{User: admin.ID, Role: models.RoleAdmin}},
		CreatedBy: admin.ID,
	}
	svc := newTeamService(newStubTeamStore(team), newStubUserStore(admin, invitee), &stubNotificationStore{})

	view, err := svc.AddMember(context.Background(), admin.ID, team.ID, invitee.Email, "")
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if view.Members[1].Role != models.RoleMember {
		t.Fatalf("expected default role %q, got %q", models.RoleMember, view.Members[1].Role)
	}
}

func TestRemoveMemberFlow(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	member := models.User{ID: newID(t), Name: "Bojan", Email: "bojan@example.com"}
	team := models.Team{
		ID:   newID(t),
		Name: "Platform",
		Members: []models.TeamMember{
			{User: admin.ID, Role: models.RoleAdmin},
			{User: member.ID, Role: models.RoleMember},
		},
		CreatedBy: admin.ID,
	}
	teams := newStubTeamStore(team)
	notifications := &stubNotificationStore{}
	svc := newTeamService(teams, newStubUserStore(admin, member), notifications)

	if _, err := svc.RemoveMember(context.Background(), member.ID, team.ID, admin.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin actor, got %v", err)
	}

	view, err := svc.RemoveMember(context.Background(), admin.ID, team.ID, member.ID)
	if err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if len(view.Members) != 1 || view.Members[0].User.ID != admin.ID {
		t.Fatalf("expected only the admin to remain, got %+v", view.Members)
	}

	removals := notifications.byType(models.NotifTeamRemove)
	if len(removals) != 1 || removals[0].UserID != member.ID.Hex() {
		t.Fatalf("expected one removal notification for %s, got %+v", member.ID.Hex(), removals)
	}
}

func TestRemoveMemberNotInTeam(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	team := models.Team{
		ID:        newID(t),
		Name:      "Platform",
		Members:   []models.TeamMember{{User: admin.ID, Role: models.RoleAdmin}},
		CreatedBy: admin.ID,
	}
	svc := newTeamService(newStubTeamStore(team), newStubUserStore(admin), &stubNotificationStore{})

	if _, err := svc.RemoveMember(context.Background(), admin.ID, team.ID, newID(t)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateTeamRequiresAdmin(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	member := models.User{ID: newID(t), Name: "Bojan", Email: "bojan@example.com"}
	team := models.Team{
		ID:   newID(t),
		Name: "Platform",
		Members: []models.TeamMember{
			{User: admin.ID, Role: models.RoleAdmin},
			{User: member.ID, Role: models.RoleMember},
		},
		CreatedBy: admin.ID,
	}
	teams := newStubTeamStore(team)
	svc := newTeamService(teams, newStubUserStore(admin, member), &stubNotificationStore{})

	name := "Renamed"
	if _, err := svc.Update(context.Background(), member.ID, team.ID, UpdateTeamInput{Name: &name}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain member, got %v", err)
	}

	view, err := svc.Update(context.Background(), admin.ID, team.ID, UpdateTeamInput{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.Name != "Renamed" || view.Description != team.Description {
		t.Fatalf("unexpected view after update: %+v", view)
	}
}

func TestDeleteTeamRequiresAdmin(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	outsider := models.User{ID: newID(t), Name: "Vera", Email: "vera@example.com"}
	team := models.Team{
		ID:        newID(t),
		Name:      "Platform",
		Members:   []models.TeamMember{{User: admin.ID, Role: models.RoleAdmin}},
		CreatedBy: admin.ID,
	}
	teams := newStubTeamStore(team)
	svc := newTeamService(teams, newStubUserStore(admin, outsider), &stubNotificationStore{})

	if err := svc.Delete(context.Background(), outsider.ID, team.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := teams.FindByID(context.Background(), team.ID); err != nil {
		t.Fatal("team deleted despite denied request")
	}

	if err := svc.Delete(context.Background(), admin.ID, team.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := teams.FindByID(context.Background(), team.ID); err == nil {
		t.Fatal("team still present after delete")
	}
}

func TestGetTeamMembersOnly(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	outsider := models.User{ID: newID(t), Name: "Vera", Email: "vera@example.com"}
	team := models.Team{
		ID:        newID(t),
		Name:      "Platform",
		Members:   []models.TeamMember{{User: admin.ID, Role: models.RoleAdmin}},
		CreatedBy: admin.ID,
	}
	svc := newTeamService(newStubTeamStore(team), newStubUserStore(admin, outsider), &stubNotificationStore{})

	if _, err := svc.Get(context.Background(), outsider.ID, team.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for outsider, got %v", err)
	}
	if _, err := svc.Get(context.Background(), admin.ID, team.ID); err != nil {
		t.Fatalf("Get as member: %v", err)
	}
}

func TestListBackfillsTeamCache(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	viewer := models.User{ID: newID(t), Name: "Vera", Email: "vera@example.com"}
	team := models.Team{
		ID:        newID(t),
		Name:      "Platform",
		Members:   []models.TeamMember{{User: admin.ID, Role: models.RoleAdmin}},
		CreatedBy: admin.ID,
	}
	users := newStubUserStore(admin, viewer)
	svc := newTeamService(newStubTeamStore(team), users, &stubNotificationStore{})

	views, err := svc.List(context.Background(), viewer.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 team, got %d", len(views))
	}

	cached, _ := users.FindByID(context.Background(), viewer.ID)
	if len(cached.Teams) != 1 || cached.Teams[0] != team.ID {
		t.Fatal("expected the viewer's empty team cache to be backfilled")
	}
}

func TestAddMemberRejectsInvalidRole(t *testing.T) {
	admin := models.User{ID: newID(t), Name: "Ana", Email: "ana@example.com"}
	invitee := models.User{ID: newID(t), Name: "Bojan", Email: "bojan@example.com"}
	team := models.Team{
		ID:        newID(t),
		Name:      "Platform",
		Members:   []models.TeamMember{{User: admin.ID, Role: models.RoleAdmin}},
		CreatedBy: admin.ID,
	}
	teams := newStubTeamStore(team)
	notifications := &stubNotificationStore{}
	svc := newTeamService(teams, newStubUserStore(admin, invitee), notifications)

	if _, err := svc.AddMember(context.Background(), admin.ID, team.ID, invitee.Email, "owner"); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for invalid role, got %v", err)
	}

	stored, _ := teams.FindByID(context.Background(), team.ID)
	if len(stored.Members) != 1 {
		t.Fatalf("member added despite invalid role: %+v", stored.Members)
	}
	if len(notifications.created) != 0 {
		t.Fatalf("rejected add must not notify, got %d notifications", len(notifications.created))
	}
}
