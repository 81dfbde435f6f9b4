package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"staff-tracker/internal/live"
	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

type TaskService struct {
	store store.TaskStore
	pub   Publisher
	newID func() string
	now   func() time.Time
	log   *logrus.Entry
}

func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTasks(ctx)
}

// ListByEmployee returns tasks assigned to employeeID. The employee does not
// have to exist.
func (s *TaskService) ListByEmployee(ctx context.Context, employeeID string) ([]models.Task, error) {
	return s.store.ListTasksByAssignee(ctx, employeeID)
}

func (s *TaskService) ListPending(ctx context.Context) ([]models.Task, error) {
	return s.store.ListTasksByCompletion(ctx, false)
}

func (s *TaskService) Get(ctx context.Context, id string) (models.Task, error) {
	t, err := s.store.GetTask(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Task{}, ErrTaskNotFound
	}
	return t, err
}

// Create stores a new, not completed task stamped with the current time.
func (s *TaskService) Create(ctx context.Context, in models.CreateTaskDTO) (string, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := validateStruct(in); err != nil {
		return "", err
	}

	t := models.Task{
		ID:          s.newID(),
		Text:        in.Text,
		IsCompleted: false,
		AssignedTo:  optionalString(in.AssignedTo),
		CreatedAt:   s.now().UTC(),
		DueDate:     optionalString(in.DueDate),
	}
	if err := s.store.InsertTask(ctx, t); err != nil {
		return "", fmt.Errorf("insert task: %w", err)
	}

	s.log.WithField("task_id", t.ID).Info("task created")
	s.pub.Publish(ctx, live.TopicTasks)
	return t.ID, nil
}

func (s *TaskService) Update(ctx context.Context, id string, in models.UpdateTaskDTO) error {
	var err error
	if in.Text, err = requireNonBlank("text", in.Text); err != nil {
		return err
	}
	in.AssignedTo = optionalString(in.AssignedTo)
	in.DueDate = optionalString(in.DueDate)

	if err := s.store.UpdateTask(ctx, id, in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	if !in.IsEmpty() {
		s.log.WithField("task_id", id).Info("task updated")
		s.pub.Publish(ctx, live.TopicTasks)
	}
	return nil
}

// Toggle flips the completion flag atomically and returns the new value.
func (s *TaskService) Toggle(ctx context.Context, id string) (bool, error) {
	completed, err := s.store.ToggleTask(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, ErrTaskNotFound
		}
		return false, fmt.Errorf("toggle task: %w", err)
	}

	s.log.WithFields(logrus.Fields{"task_id": id, "is_completed": completed}).Info("task toggled")
	s.pub.Publish(ctx, live.TopicTasks)
	return completed, nil
}

func (s *TaskService) Remove(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteTask(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if deleted {
		s.log.WithField("task_id", id).Info("task removed")
		s.pub.Publish(ctx, live.TopicTasks)
	}
	return nil
}
