package models

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTaskIsCreator(t *testing.T) {
	creator := primitive.NewObjectID()
	task := Task{CreatedBy: creator}

	if !task.IsCreator(creator) {
		t.Fatal("creator not recognized")
	}
	if task.IsCreator(primitive.NewObjectID()) {
		t.Fatal("stranger recognized as creator")
	}
}

func TestTaskIsAssignee(t *testing.T) {
	assignee := primitive.NewObjectID()

	unassigned := Task{}
	if unassigned.IsAssignee(assignee) {
		t.Fatal("unassigned task matched an assignee")
	}

	assigned := Task{AssignedTo: &assignee}
	if !assigned.IsAssignee(assignee) {
		t.Fatal("assignee not recognized")
	}
	if assigned.IsAssignee(primitive.NewObjectID()) {
		t.Fatal("stranger recognized as assignee")
	}
}

func TestAddCommentPrepends(t *testing.T) {
	task := Task{}
	first := Comment{User: primitive.NewObjectID(), Text: "first", CreatedAt: time.Now()}
	second := Comment{User: primitive.NewObjectID(), Text: "second", CreatedAt: time.Now()}

	task.AddComment(first)
	task.AddComment(second)

	if len(task.Comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(task.Comments))
	}
	if task.Comments[0].Text != "second" || task.Comments[1].Text != "first" {
		t.Fatal("newest comment is not first")
	}
}

func TestTaskEnumValidity(t *testing.T) {
	for _, s := range []TaskStatus{StatusTodo, StatusInProgress, StatusCompleted} {
		if !s.IsValid() {
			t.Errorf("status %q reported invalid", s)
		}
	}
	if TaskStatus("bogus-status").IsValid() || TaskStatus("").IsValid() {
		t.Error("invalid status accepted")
	}

	for _, p := range []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.IsValid() {
			t.Errorf("priority %q reported invalid", p)
		}
	}
	if TaskPriority("urgent").IsValid() || TaskPriority("").IsValid() {
		t.Error("invalid priority accepted")
	}
}
