package services

import (
	"context"
	"errors"
	"time"

	"taskflow/logging"
	"taskflow/models"
	"taskflow/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TeamService struct {
	teams    TeamStore
	users    UserStore
	notifier *Notifier
}

func NewTeamService(teams TeamStore, users UserStore, notifier *Notifier) *TeamService {
	return &TeamService{teams: teams, users: users, notifier: notifier}
}

type UpdateTeamInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// List returns all teams with members and creator resolved. Listing is
// deliberately unscoped while Get is membership gated: the list is for
// discovery, the detail view is member-only.
// As a side effect, an actor with an empty team-id cache gets it backfilled
// from the listing. The cache is denormalized display state, not a source of
// truth.
func (s *TeamService) List(ctx context.Context, actor primitive.ObjectID) ([]models.TeamView, error) {
	teams, err := s.teams.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, actor)
	if err == nil && len(user.Teams) == 0 && len(teams) > 0 {
		ids := make([]primitive.ObjectID, 0, len(teams))
		for _, t := range teams {
			ids = append(ids, t.ID)
		}
		if err := s.users.SetTeams(ctx, actor, ids); err != nil {
			logging.Logger.Warnf("Event ID: TEAM_CACHE_BACKFILL_FAILED, Description: Failed to backfill team cache for user %s: %v", actor.Hex(), err)
		}
	}

	return s.resolveViews(ctx, teams)
}

func (s *TeamService) Get(ctx context.Context, actor, teamID primitive.ObjectID) (models.TeamView, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return models.TeamView{}, err
	}

	if !team.IsMember(actor) && team.CreatedBy != actor {
		return models.TeamView{}, E(ErrForbidden, "Not authorized to access this team")
	}

	return s.resolveView(ctx, team)
}

// Create forces the actor as creator and seeds the member list with the
// creator in the admin role, whatever the payload carried.
func (s *TeamService) Create(ctx context.Context, actor primitive.ObjectID, name, description string) (models.TeamView, error) {
	if name == "" {
		return models.TeamView{}, E(ErrBadRequest, "Please provide a team name")
	}

	team := models.Team{
		Name:        name,
		Description: description,
		Members:     []models.TeamMember{{User: actor, Role: models.RoleAdmin}},
		CreatedBy:   actor,
		CreatedAt:   time.Now(),
	}
	team.EnsureCreatorMember()

	id, err := s.teams.Insert(ctx, team)
	if err != nil {
		return models.TeamView{}, err
	}
	team.ID = id

	if err := s.users.AddTeam(ctx, actor, id); err != nil {
		logging.Logger.Warnf("Event ID: TEAM_CACHE_UPDATE_FAILED, Description: Failed to add team %s to user %s cache: %v", id.Hex(), actor.Hex(), err)
	}

	return s.resolveView(ctx, team)
}

func (s *TeamService) Update(ctx context.Context, actor, teamID primitive.ObjectID, input UpdateTeamInput) (models.TeamView, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return models.TeamView{}, err
	}

	if !team.IsAdmin(actor) {
		return models.TeamView{}, E(ErrForbidden, "Not authorized to update this team")
	}

	if input.Name != nil {
		team.Name = *input.Name
	}
	if input.Description != nil {
		team.Description = *input.Description
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return models.TeamView{}, err
	}

	return s.resolveView(ctx, team)
}

func (s *TeamService) Delete(ctx context.Context, actor, teamID primitive.ObjectID) error {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return err
	}

	if !team.IsAdmin(actor) {
		return E(ErrForbidden, "Not authorized to delete this team")
	}

	return s.teams.Delete(ctx, teamID)
}

// AddMember adds the user with the given email. Requires an admin actor;
// fails when the email is unknown or the user is already a member. The new
// member is notified after the write commits.
func (s *TeamService) AddMember(ctx context.Context, actor, teamID primitive.ObjectID, email string, role models.MemberRole) (models.TeamView, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return models.TeamView{}, err
	}

	if !team.IsAdmin(actor) {
		return models.TeamView{}, E(ErrForbidden, "Not authorized to add members")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.TeamView{}, E(ErrNotFound, "User not found")
		}
		return models.TeamView{}, err
	}

	if team.IsMember(user.ID) {
		return models.TeamView{}, ErrAlreadyMember
	}

	if role == "" {
		role = models.RoleMember
	}
	if !role.IsValid() {
		return models.TeamView{}, E(ErrBadRequest, "Invalid member role")
	}
	team.Members = append(team.Members, models.TeamMember{User: user.ID, Role: role})

	if err := s.teams.Update(ctx, team); err != nil {
		return models.TeamView{}, err
	}

	if err := s.users.AddTeam(ctx, user.ID, team.ID); err != nil {
		logging.Logger.Warnf("Event ID: TEAM_CACHE_UPDATE_FAILED, Description: Failed to add team %s to user %s cache: %v", team.ID.Hex(), user.ID.Hex(), err)
	}

	s.notifier.Dispatch(ctx, teamInviteNotification(user.ID.Hex(), team, role))

	return s.resolveView(ctx, team)
}

// RemoveMember removes the given user. Requires an admin actor; fails when
// the user is not currently a member.
func (s *TeamService) RemoveMember(ctx context.Context, actor, teamID, userID primitive.ObjectID) (models.TeamView, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return models.TeamView{}, err
	}

	if !team.IsAdmin(actor) {
		return models.TeamView{}, E(ErrForbidden, "Not authorized to remove members")
	}

	if !team.RemoveMember(userID) {
		return models.TeamView{}, E(ErrNotFound, "Member not found in team")
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return models.TeamView{}, err
	}

	s.notifier.Dispatch(ctx, teamRemoveNotification(userID.Hex(), team))

	return s.resolveView(ctx, team)
}

func (s *TeamService) findTeam(ctx context.Context, teamID primitive.ObjectID) (models.Team, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Team{}, E(ErrNotFound, "Team not found")
		}
		return models.Team{}, err
	}
	return team, nil
}

func (s *TeamService) resolveView(ctx context.Context, team models.Team) (models.TeamView, error) {
	views, err := s.resolveViews(ctx, []models.Team{team})
	if err != nil {
		return models.TeamView{}, err
	}
	return views[0], nil
}

func (s *TeamService) resolveViews(ctx context.Context, teams []models.Team) ([]models.TeamView, error) {
	var userIDs []primitive.ObjectID
	for _, t := range teams {
		userIDs = append(userIDs, t.CreatedBy)
		for _, m := range t.Members {
			userIDs = append(userIDs, m.User)
		}
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]models.TeamView, 0, len(teams))
	for _, t := range teams {
		view := models.TeamView{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Members:     make([]models.MemberView, 0, len(t.Members)),
			CreatedBy:   users[t.CreatedBy].Summary(),
			CreatedAt:   t.CreatedAt,
		}
		for _, m := range t.Members {
			view.Members = append(view.Members, models.MemberView{
				User: users[m.User].Summary(),
				Role: m.Role,
			})
		}
		views = append(views, view)
	}
	return views, nil
}
