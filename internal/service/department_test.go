package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff-tracker/internal/live"
	"staff-tracker/internal/models"
	"staff-tracker/internal/testutil"
)

func TestDepartmentCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Departments.Create(ctx, models.CreateDepartmentDTO{Name: " "})
	assert.Equal(t, CodeInvalidArgument, ErrorCode(err))

	id, err := f.svc.Departments.Create(ctx, models.CreateDepartmentDTO{
		Name:      "Engineering",
		ManagerID: testutil.Ptr("nobody"),
	})
	require.NoError(t, err)

	got, err := f.svc.Departments.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Name)
	assert.Equal(t, testutil.Ptr("nobody"), got.ManagerID)

	require.NoError(t, f.svc.Departments.Update(ctx, id, models.UpdateDepartmentDTO{Description: testutil.Ptr("Builds things")}))
	got, err = f.svc.Departments.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testutil.Ptr("Builds things"), got.Description)

	err = f.svc.Departments.Update(ctx, "missing", models.UpdateDepartmentDTO{Name: testutil.Ptr("x")})
	assert.ErrorIs(t, err, ErrDepartmentNotFound)

	require.NoError(t, f.svc.Departments.Remove(ctx, id))
	require.NoError(t, f.svc.Departments.Remove(ctx, id))
	_, err = f.svc.Departments.Get(ctx, id)
	assert.ErrorIs(t, err, ErrDepartmentNotFound)

	all, err := f.svc.Departments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Equal(t, []live.Topic{live.TopicDepartments, live.TopicDepartments, live.TopicDepartments}, f.pub.Topics())
}

func TestDepartmentUpdate_BlankOptionalFieldsIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.Departments.Create(ctx, models.CreateDepartmentDTO{
		Name:        "Engineering",
		Description: testutil.Ptr("Builds things"),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Departments.Update(ctx, id, models.UpdateDepartmentDTO{
		Description: testutil.Ptr(" "),
		ManagerID:   testutil.Ptr(""),
	}))
	got, err := f.svc.Departments.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testutil.Ptr("Builds things"), got.Description)
	assert.Nil(t, got.ManagerID)

	require.NoError(t, f.svc.Departments.Update(ctx, id, models.UpdateDepartmentDTO{ManagerID: testutil.Ptr(" emp-1 ")}))
	got, err = f.svc.Departments.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, testutil.Ptr("emp-1"), got.ManagerID)
}
