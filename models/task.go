package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Comment struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Task struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Status      TaskStatus          `bson:"status" json:"status"`
	Priority    TaskPriority        `bson:"priority" json:"priority"`
	Deadline    time.Time           `bson:"deadline" json:"deadline"`
	CreatedBy   primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	Team        *primitive.ObjectID `bson:"team,omitempty" json:"team,omitempty"`
	Comments    []Comment           `bson:"comments" json:"comments"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// IsCreator reports whether userID created the task. Only the creator may
// update or delete it.
func (t Task) IsCreator(userID primitive.ObjectID) bool {
	return t.CreatedBy == userID
}

func (t Task) IsAssignee(userID primitive.ObjectID) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}

// AddComment prepends a comment so the embedded list stays newest first.
func (t *Task) AddComment(c Comment) {
	t.Comments = append([]Comment{c}, t.Comments...)
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	User      UserSummary `json:"user"`
	Text      string      `json:"text"`
	CreatedAt time.Time   `json:"createdAt"`
}

// TaskView is a task with creator/assignee/team references resolved for
// display.
type TaskView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      TaskStatus         `json:"status"`
	Priority    TaskPriority       `json:"priority"`
	Deadline    time.Time          `json:"deadline"`
	CreatedBy   UserSummary        `json:"createdBy"`
	AssignedTo  *UserSummary       `json:"assignedTo,omitempty"`
	Team        *TeamSummary       `json:"team,omitempty"`
	Comments    []CommentView      `json:"comments"`
	CreatedAt   time.Time          `json:"createdAt"`
}
