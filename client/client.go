package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"taskflow/models"
	"taskflow/services"

	"github.com/sony/gobreaker"
)

// Client talks to the Taskflow API and keeps the session's state mirror in
// sync: every mutation is followed by an explicit re-fetch of the affected
// resource slice, which replaces the cached copy and is persisted.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	session *Session
}

func New(baseURL string, session *Session) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "taskflow-api-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
		session: session,
	}
}

func (c *Client) Session() *Session {
	return c.session
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return nil, fmt.Errorf("failed to decode response: %v", err)
		}
		if resp.StatusCode >= 400 || !env.Success {
			return nil, fmt.Errorf("request failed (%d): %s", resp.StatusCode, env.Message)
		}
		return env.Data, nil
	})
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(result.(json.RawMessage), out); err != nil {
			return fmt.Errorf("failed to decode response data: %v", err)
		}
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (services.AuthUser, error) {
	var user services.AuthUser
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return services.AuthUser{}, err
	}

	err = c.session.update(func(state *State) {
		state.User = &user
	})
	return user, err
}

func (c *Client) Register(ctx context.Context, name, email, password string) (services.AuthUser, error) {
	var user services.AuthUser
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return services.AuthUser{}, err
	}

	err = c.session.update(func(state *State) {
		state.User = &user
	})
	return user, err
}

func (c *Client) UpdateProfile(ctx context.Context, input services.UpdateProfileInput) (services.AuthUser, error) {
	var user services.AuthUser
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", input, &user); err != nil {
		return services.AuthUser{}, err
	}

	err := c.session.update(func(state *State) {
		state.User = &user
	})
	return user, err
}

func (c *Client) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	var users []models.UserSummary
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// RefreshTasks re-fetches the task list and replaces the cached slice.
func (c *Client) RefreshTasks(ctx context.Context) ([]models.TaskView, error) {
	var tasks []models.TaskView
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}

	err := c.session.update(func(state *State) {
		state.Tasks = tasks
	})
	return tasks, err
}

func (c *Client) GetTask(ctx context.Context, id string) (models.TaskView, error) {
	var task models.TaskView
	err := c.do(ctx, http.MethodGet, "/api/tasks/"+id, nil, &task)
	return task, err
}

func (c *Client) CreateTask(ctx context.Context, input services.CreateTaskInput) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", input, &task); err != nil {
		return models.Task{}, err
	}

	if _, err := c.RefreshTasks(ctx); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, input services.UpdateTaskInput) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, input, &task); err != nil {
		return models.Task{}, err
	}

	if _, err := c.RefreshTasks(ctx); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil); err != nil {
		return err
	}

	_, err := c.RefreshTasks(ctx)
	return err
}

func (c *Client) AddComment(ctx context.Context, taskID, text string) ([]models.Comment, error) {
	var comments []models.Comment
	err := c.do(ctx, http.MethodPost, "/api/tasks/"+taskID+"/comments", map[string]string{"text": text}, &comments)
	return comments, err
}

// RefreshTeams re-fetches the team list and replaces the cached slice.
func (c *Client) RefreshTeams(ctx context.Context) ([]models.TeamView, error) {
	var teams []models.TeamView
	if err := c.do(ctx, http.MethodGet, "/api/teams", nil, &teams); err != nil {
		return nil, err
	}

	err := c.session.update(func(state *State) {
		state.Teams = teams
	})
	return teams, err
}

func (c *Client) GetTeam(ctx context.Context, id string) (models.TeamView, error) {
	var team models.TeamView
	err := c.do(ctx, http.MethodGet, "/api/teams/"+id, nil, &team)
	return team, err
}

func (c *Client) CreateTeam(ctx context.Context, name, description string) (models.TeamView, error) {
	var team models.TeamView
	err := c.do(ctx, http.MethodPost, "/api/teams", map[string]string{
		"name":        name,
		"description": description,
	}, &team)
	if err != nil {
		return models.TeamView{}, err
	}

	if _, err := c.RefreshTeams(ctx); err != nil {
		return models.TeamView{}, err
	}
	return team, nil
}

func (c *Client) AddTeamMember(ctx context.Context, teamID, email string, role models.MemberRole) (models.TeamView, error) {
	var team models.TeamView
	err := c.do(ctx, http.MethodPost, "/api/teams/"+teamID+"/members", map[string]string{
		"email": email,
		"role":  string(role),
	}, &team)
	if err != nil {
		return models.TeamView{}, err
	}

	if _, err := c.RefreshTeams(ctx); err != nil {
		return models.TeamView{}, err
	}
	return team, nil
}

func (c *Client) RemoveTeamMember(ctx context.Context, teamID, userID string) (models.TeamView, error) {
	var team models.TeamView
	err := c.do(ctx, http.MethodDelete, "/api/teams/"+teamID+"/members", map[string]string{
		"userId": userID,
	}, &team)
	if err != nil {
		return models.TeamView{}, err
	}

	if _, err := c.RefreshTeams(ctx); err != nil {
		return models.TeamView{}, err
	}
	return team, nil
}

func (c *Client) DeleteTeam(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/teams/"+id, nil, nil); err != nil {
		return err
	}

	_, err := c.RefreshTeams(ctx)
	return err
}

// RefreshNotifications re-fetches the notification list and replaces the
// cached slice.
func (c *Client) RefreshNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &notifications); err != nil {
		return nil, err
	}

	err := c.session.update(func(state *State) {
		state.Notifications = notifications
	})
	return notifications, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPut, "/api/notifications/"+id+"/read", nil, nil); err != nil {
		return err
	}

	_, err := c.RefreshNotifications(ctx)
	return err
}

func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/notifications/"+id, nil, nil); err != nil {
		return err
	}

	_, err := c.RefreshNotifications(ctx)
	return err
}
