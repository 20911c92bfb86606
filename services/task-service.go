package services

import (
	"context"
	"errors"
	"time"

	"taskflow/models"
	"taskflow/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskService struct {
	tasks    TaskStore
	users    UserStore
	teams    TeamStore
	notifier *Notifier
}

func NewTaskService(tasks TaskStore, users UserStore, teams TeamStore, notifier *Notifier) *TaskService {
	return &TaskService{tasks: tasks, users: users, teams: teams, notifier: notifier}
}

type CreateTaskInput struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	Deadline    time.Time           `json:"deadline"`
	AssignedTo  *primitive.ObjectID `json:"assignedTo,omitempty"`
	Team        *primitive.ObjectID `json:"team,omitempty"`
}

// UpdateTaskInput carries only the fields present in the request; nil means
// leave unchanged. The clear flags unset the assignee or team reference,
// since a JSON null on the pointer fields is indistinguishable from an
// absent field; a clear flag wins over a new value in the same request.
type UpdateTaskInput struct {
	Title         *string              `json:"title,omitempty"`
	Description   *string              `json:"description,omitempty"`
	Status        *models.TaskStatus   `json:"status,omitempty"`
	Priority      *models.TaskPriority `json:"priority,omitempty"`
	Deadline      *time.Time           `json:"deadline,omitempty"`
	AssignedTo    *primitive.ObjectID  `json:"assignedTo,omitempty"`
	Team          *primitive.ObjectID  `json:"team,omitempty"`
	ClearAssignee bool                 `json:"clearAssignee,omitempty"`
	ClearTeam     bool                 `json:"clearTeam,omitempty"`
}

// ListForUser returns tasks where the actor is creator or assignee, newest
// first, with creator/assignee/team references resolved.
func (s *TaskService) ListForUser(ctx context.Context, actor primitive.ObjectID) ([]models.TaskView, error) {
	tasks, err := s.tasks.FindForUser(ctx, actor)
	if err != nil {
		return nil, err
	}
	return s.resolveViews(ctx, tasks, false)
}

// Get returns a single task with comment authors resolved as well.
func (s *TaskService) Get(ctx context.Context, taskID primitive.ObjectID) (models.TaskView, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.TaskView{}, E(ErrNotFound, "Task not found")
		}
		return models.TaskView{}, err
	}

	views, err := s.resolveViews(ctx, []models.Task{task}, true)
	if err != nil {
		return models.TaskView{}, err
	}
	return views[0], nil
}

func (s *TaskService) Create(ctx context.Context, actor primitive.ObjectID, input CreateTaskInput) (models.Task, error) {
	if input.Title == "" {
		return models.Task{}, E(ErrBadRequest, "Please provide a task title")
	}

	if input.Status == "" {
		input.Status = models.StatusTodo
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Status.IsValid() {
		return models.Task{}, E(ErrBadRequest, "Invalid task status")
	}
	if !input.Priority.IsValid() {
		return models.Task{}, E(ErrBadRequest, "Invalid task priority")
	}

	task := models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Deadline:    input.Deadline,
		CreatedBy:   actor,
		AssignedTo:  input.AssignedTo,
		Team:        input.Team,
		Comments:    []models.Comment{},
		CreatedAt:   time.Now(),
	}

	id, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return models.Task{}, err
	}
	task.ID = id

	if task.AssignedTo != nil {
		s.notifier.Dispatch(ctx, taskAssignedNotification(task.AssignedTo.Hex(), task))
	}

	return task, nil
}

// Update applies the supplied fields. Only the creator may update; a status
// change with an assignee present notifies the assignee after the write.
func (s *TaskService) Update(ctx context.Context, actor, taskID primitive.ObjectID, input UpdateTaskInput) (models.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Task{}, E(ErrNotFound, "Task not found")
		}
		return models.Task{}, err
	}

	if !task.IsCreator(actor) {
		return models.Task{}, E(ErrForbidden, "Not authorized to update this task")
	}

	statusChanged := false
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != task.Status {
		if !input.Status.IsValid() {
			return models.Task{}, E(ErrBadRequest, "Invalid task status")
		}
		task.Status = *input.Status
		statusChanged = true
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return models.Task{}, E(ErrBadRequest, "Invalid task priority")
		}
		task.Priority = *input.Priority
	}
	if input.Deadline != nil {
		task.Deadline = *input.Deadline
	}
	if input.ClearAssignee {
		task.AssignedTo = nil
	} else if input.AssignedTo != nil {
		task.AssignedTo = input.AssignedTo
	}
	if input.ClearTeam {
		task.Team = nil
	} else if input.Team != nil {
		task.Team = input.Team
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return models.Task{}, err
	}

	if statusChanged && task.AssignedTo != nil {
		s.notifier.Dispatch(ctx, taskUpdatedNotification(task.AssignedTo.Hex(), task))
	}

	return task, nil
}

// Delete removes a task. Ownership is checked before the delete is issued.
func (s *TaskService) Delete(ctx context.Context, actor, taskID primitive.ObjectID) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return E(ErrNotFound, "Task not found")
		}
		return err
	}

	if !task.IsCreator(actor) {
		return E(ErrForbidden, "Not authorized to delete this task")
	}

	return s.tasks.Delete(ctx, taskID)
}

// AddComment prepends a comment and notifies the task creator and assignee,
// excluding the commenting actor.
func (s *TaskService) AddComment(ctx context.Context, actor, taskID primitive.ObjectID, text string) ([]models.Comment, error) {
	if text == "" {
		return nil, E(ErrBadRequest, "Please provide comment text")
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, E(ErrNotFound, "Task not found")
		}
		return nil, err
	}

	task.AddComment(models.Comment{
		User:      actor,
		Text:      text,
		CreatedAt: time.Now(),
	})

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	var notifications []models.Notification
	if task.CreatedBy != actor {
		notifications = append(notifications, commentAddedNotification(task.CreatedBy.Hex(), task))
	}
	if task.AssignedTo != nil && *task.AssignedTo != actor && *task.AssignedTo != task.CreatedBy {
		notifications = append(notifications, commentAddedNotification(task.AssignedTo.Hex(), task))
	}
	s.notifier.Dispatch(ctx, notifications...)

	return task.Comments, nil
}

func (s *TaskService) resolveViews(ctx context.Context, tasks []models.Task, withComments bool) ([]models.TaskView, error) {
	var userIDs []primitive.ObjectID
	var teamIDs []primitive.ObjectID
	for _, t := range tasks {
		userIDs = append(userIDs, t.CreatedBy)
		if t.AssignedTo != nil {
			userIDs = append(userIDs, *t.AssignedTo)
		}
		if t.Team != nil {
			teamIDs = append(teamIDs, *t.Team)
		}
		if withComments {
			for _, c := range t.Comments {
				userIDs = append(userIDs, c.User)
			}
		}
	}

	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	teams := make(map[primitive.ObjectID]models.Team, len(teamIDs))
	for _, id := range teamIDs {
		if _, ok := teams[id]; ok {
			continue
		}
		team, err := s.teams.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				continue
			}
			return nil, err
		}
		teams[id] = team
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		view := models.TaskView{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      t.Status,
			Priority:    t.Priority,
			Deadline:    t.Deadline,
			CreatedBy:   users[t.CreatedBy].Summary(),
			Comments:    []models.CommentView{},
			CreatedAt:   t.CreatedAt,
		}
		if t.AssignedTo != nil {
			summary := users[*t.AssignedTo].Summary()
			view.AssignedTo = &summary
		}
		if t.Team != nil {
			if team, ok := teams[*t.Team]; ok {
				summary := team.Summary()
				view.Team = &summary
			}
		}
		if withComments {
			for _, c := range t.Comments {
				view.Comments = append(view.Comments, models.CommentView{
					User:      users[c.User].Summary(),
					Text:      c.Text,
					CreatedAt: c.CreatedAt,
				})
			}
		}
		views = append(views, view)
	}
	return views, nil
}
