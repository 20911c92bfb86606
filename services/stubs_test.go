package services

import (
	"context"
	"errors"
	"testing"

	"taskflow/models"
	"taskflow/repositories"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newID(t *testing.T) primitive.ObjectID {
	t.Helper()
	return primitive.NewObjectID()
}

type stubUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newStubUserStore(users ...models.User) *stubUserStore {
	s := &stubUserStore{users: make(map[primitive.ObjectID]models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *stubUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	found := make(map[primitive.ObjectID]models.User)
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			found[id] = u
		}
	}
	return found, nil
}

func (s *stubUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	for _, u := range s.users {
		users = append(users, u)
	}
	return users, nil
}

func (s *stubUserStore) Insert(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	user.ID = primitive.NewObjectID()
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *stubUserStore) Update(ctx context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserStore) SetTeams(ctx context.Context, userID primitive.ObjectID, teams []primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Teams = teams
	s.users[userID] = u
	return nil
}

func (s *stubUserStore) AddTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	u, ok := s.users[userID]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Teams = append(u.Teams, teamID)
	s.users[userID] = u
	return nil
}

type stubTaskStore struct {
	tasks map[primitive.ObjectID]models.Task
}

func newStubTaskStore(tasks ...models.Task) *stubTaskStore {
	s := &stubTaskStore{tasks: make(map[primitive.ObjectID]models.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *stubTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	if t, ok := s.tasks[id]; ok {
		return t, nil
	}
	return models.Task{}, repositories.ErrNotFound
}

func (s *stubTaskStore) FindForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	var tasks []models.Task
	for _, t := range s.tasks {
		if t.CreatedBy == userID || t.IsAssignee(userID) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

func (s *stubTaskStore) Insert(ctx context.Context, task models.Task) (primitive.ObjectID, error) {
	task.ID = primitive.NewObjectID()
	s.tasks[task.ID] = task
	return task.ID, nil
}

func (s *stubTaskStore) Update(ctx context.Context, task models.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *stubTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.tasks[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

type stubTeamStore struct {
	teams map[primitive.ObjectID]models.Team
}

func newStubTeamStore(teams ...models.Team) *stubTeamStore {
	s := &stubTeamStore{teams: make(map[primitive.ObjectID]models.Team)}
	for _, t := range teams {
		s.teams[t.ID] = t
	}
	return s
}

func (s *stubTeamStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	if t, ok := s.teams[id]; ok {
		return t, nil
	}
	return models.Team{}, repositories.ErrNotFound
}

func (s *stubTeamStore) FindAll(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	for _, t := range s.teams {
		teams = append(teams, t)
	}
	return teams, nil
}

func (s *stubTeamStore) Insert(ctx context.Context, team models.Team) (primitive.ObjectID, error) {
	team.ID = primitive.NewObjectID()
	s.teams[team.ID] = team
	return team.ID, nil
}

func (s *stubTeamStore) Update(ctx context.Context, team models.Team) error {
	if _, ok := s.teams[team.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.teams[team.ID] = team
	return nil
}

func (s *stubTeamStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := s.teams[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.teams, id)
	return nil
}

// stubNotificationStore records appends; failErr forces Create to fail for
// isolation tests.
type stubNotificationStore struct {
	created []models.Notification
	failErr error
}

func (s *stubNotificationStore) Create(ctx context.Context, n *models.Notification) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.created = append(s.created, *n)
	return nil
}

func (s *stubNotificationStore) FindByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	for _, n := range s.created {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	return notifications, nil
}

func (s *stubNotificationStore) MarkRead(ctx context.Context, userID, notificationID string) (models.Notification, error) {
	for i, n := range s.created {
		if n.UserID == userID && n.ID == notificationID {
			s.created[i].IsRead = true
			return s.created[i], nil
		}
	}
	return models.Notification{}, repositories.ErrNotFound
}

func (s *stubNotificationStore) Delete(ctx context.Context, userID, notificationID string) error {
	for i, n := range s.created {
		if n.UserID == userID && n.ID == notificationID {
			s.created = append(s.created[:i], s.created[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (s *stubNotificationStore) byType(typ models.NotificationType) []models.Notification {
	var matched []models.Notification
	for _, n := range s.created {
		if n.Type == typ {
			matched = append(matched, n)
		}
	}
	return matched
}

func newTestNotifier(store *stubNotificationStore) *Notifier {
	return NewNotifier(store, gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-cb"}))
}

var errStoreDown = errors.New("store down")
