package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"staff-tracker/internal/live"
	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

type DepartmentService struct {
	store store.DepartmentStore
	pub   Publisher
	newID func() string
	log   *logrus.Entry
}

func (s *DepartmentService) List(ctx context.Context) ([]models.Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *DepartmentService) Get(ctx context.Context, id string) (models.Department, error) {
	d, err := s.store.GetDepartment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Department{}, ErrDepartmentNotFound
	}
	return d, err
}

// Create adds a department. ManagerID is stored as given, without checking
// that the employee exists.
func (s *DepartmentService) Create(ctx context.Context, in models.CreateDepartmentDTO) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return "", err
	}

	d := models.Department{
		ID:          s.newID(),
		Name:        in.Name,
		Description: optionalString(in.Description),
		ManagerID:   optionalString(in.ManagerID),
	}
	if err := s.store.InsertDepartment(ctx, d); err != nil {
		return "", fmt.Errorf("insert department: %w", err)
	}

	s.log.WithFields(logrus.Fields{"department_id": d.ID, "name": d.Name}).Info("department created")
	s.pub.Publish(ctx, live.TopicDepartments)
	return d.ID, nil
}

func (s *DepartmentService) Update(ctx context.Context, id string, in models.UpdateDepartmentDTO) error {
	var err error
	if in.Name, err = requireNonBlank("name", in.Name); err != nil {
		return err
	}
	in.Description = optionalString(in.Description)
	in.ManagerID = optionalString(in.ManagerID)

	if err := s.store.UpdateDepartment(ctx, id, in); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("update department: %w", err)
	}

	if !in.IsEmpty() {
		s.log.WithField("department_id", id).Info("department updated")
		s.pub.Publish(ctx, live.TopicDepartments)
	}
	return nil
}

func (s *DepartmentService) Remove(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteDepartment(ctx, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if deleted {
		s.log.WithField("department_id", id).Info("department removed")
		s.pub.Publish(ctx, live.TopicDepartments)
	}
	return nil
}
