// Package storetest is a conformance suite run against every store.Store
// implementation.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staff-tracker/internal/models"
	"staff-tracker/internal/store"
)

func ptr[T any](v T) *T { return &v }

func employee(id, email, department, status string) models.Employee {
	return models.Employee{
		ID:         id,
		FirstName:  "First " + id,
		LastName:   "Last",
		Email:      email,
		Department: department,
		Position:   "Engineer",
		Salary:     1000,
		HireDate:   "2021-03-04",
		Status:     status,
	}
}

// Run exercises the stores returned by newStore, each of which must be empty
// and migrated.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("Employees", func(t *testing.T) { testEmployees(t, newStore(t)) })
	t.Run("EmployeeEmailUnique", func(t *testing.T) { testEmailUnique(t, newStore(t)) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
	t.Run("Departments", func(t *testing.T) { testDepartments(t, newStore(t)) })
	t.Run("MigrateTwice", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Migrate(context.Background()))
		require.NoError(t, st.Ping(context.Background()))
	})
}

func testEmployees(t *testing.T, st store.Store) {
	ctx := context.Background()

	a := employee("e1", "a@x.com", "Engineering", models.StatusActive)
	a.Phone = ptr("555-0100")
	require.NoError(t, st.InsertEmployee(ctx, a))
	require.NoError(t, st.InsertEmployee(ctx, employee("e2", "b@x.com", "Sales", models.StatusInactive)))
	require.NoError(t, st.InsertEmployee(ctx, employee("e3", "c@x.com", "Engineering", models.StatusActive)))

	all, err := st.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"e1", "e2", "e3"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, a, all[0])
	assert.Nil(t, all[1].Phone)

	eng, err := st.ListEmployeesByDepartment(ctx, "Engineering")
	require.NoError(t, err)
	assert.Len(t, eng, 2)

	none, err := st.ListEmployeesByDepartment(ctx, "engineering")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)

	active, err := st.ListEmployeesByStatus(ctx, models.StatusActive)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	got, err := st.FindEmployeeByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "e2", got.ID)

	_, err = st.FindEmployeeByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.UpdateEmployee(ctx, "e2", models.UpdateEmployeeDTO{
		Status: ptr(models.StatusTerminated),
		Salary: ptr(2500.5),
	}))
	got, err = st.GetEmployee(ctx, "e2")
	require.NoError(t, err)
	assert.Equal(t, models.StatusTerminated, got.Status)
	assert.Equal(t, 2500.5, got.Salary)
	assert.Equal(t, "b@x.com", got.Email)

	require.NoError(t, st.UpdateEmployee(ctx, "e2", models.UpdateEmployeeDTO{}))
	assert.ErrorIs(t, st.UpdateEmployee(ctx, "missing", models.UpdateEmployeeDTO{}), store.ErrNotFound)
	assert.ErrorIs(t, st.UpdateEmployee(ctx, "missing", models.UpdateEmployeeDTO{Position: ptr("CTO")}), store.ErrNotFound)
	_, err = st.GetEmployee(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	deleted, err := st.DeleteEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = st.DeleteEmployee(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testEmailUnique(t *testing.T, st store.Store) {
	ctx := context.Background()

	require.NoError(t, st.InsertEmployee(ctx, employee("e1", "a@x.com", "Ops", models.StatusActive)))
	err := st.InsertEmployee(ctx, employee("e2", "a@x.com", "Ops", models.StatusActive))
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	require.NoError(t, st.InsertEmployee(ctx, employee("e3", "c@x.com", "Ops", models.StatusActive)))
	err = st.UpdateEmployee(ctx, "e3", models.UpdateEmployeeDTO{Email: ptr("a@x.com")})
	assert.ErrorIs(t, err, store.ErrDuplicateEmail)

	all, err := st.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func testTasks(t *testing.T, st store.Store) {
	ctx := context.Background()
	created := time.Date(2024, 2, 3, 4, 5, 6, 789000000, time.UTC)

	require.NoError(t, st.InsertTask(ctx, models.Task{ID: "t1", Text: "Review PR", AssignedTo: ptr("e1"), CreatedAt: created}))
	require.NoError(t, st.InsertTask(ctx, models.Task{ID: "t2", Text: "Ship", IsCompleted: true, CreatedAt: created.Add(time.Second), DueDate: ptr("2024-03-01")}))

	got, err := st.GetTask(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Review PR", got.Text)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, ptr("e1"), got.AssignedTo)
	assert.True(t, created.Equal(got.CreatedAt), "created_at round trip: %v", got.CreatedAt)
	assert.Nil(t, got.DueDate)

	byEmp, err := st.ListTasksByAssignee(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, byEmp, 1)
	assert.Equal(t, "t1", byEmp[0].ID)

	pending, err := st.ListTasksByCompletion(ctx, false)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "t1", pending[0].ID)

	done, err := st.ToggleTask(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, done)
	done, err = st.ToggleTask(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, done)

	_, err = st.ToggleTask(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.UpdateTask(ctx, "t2", models.UpdateTaskDTO{IsCompleted: ptr(false), Text: ptr("Ship it")}))
	got, err = st.GetTask(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, "Ship it", got.Text)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, ptr("2024-03-01"), got.DueDate)
	assert.True(t, created.Add(time.Second).Equal(got.CreatedAt))

	assert.ErrorIs(t, st.UpdateTask(ctx, "missing", models.UpdateTaskDTO{Text: ptr("x")}), store.ErrNotFound)

	all, err := st.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := st.DeleteTask(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = st.GetTask(ctx, "t1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDepartments(t *testing.T, st store.Store) {
	ctx := context.Background()

	require.NoError(t, st.InsertDepartment(ctx, models.Department{ID: "d1", Name: "Sales"}))
	require.NoError(t, st.InsertDepartment(ctx, models.Department{ID: "d2", Name: "Engineering", ManagerID: ptr("e1")}))

	all, err := st.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Engineering", all[0].Name)

	require.NoError(t, st.UpdateDepartment(ctx, "d1", models.UpdateDepartmentDTO{Description: ptr("Closers")}))
	got, err := st.GetDepartment(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, ptr("Closers"), got.Description)
	assert.Nil(t, got.ManagerID)

	assert.ErrorIs(t, st.UpdateDepartment(ctx, "missing", models.UpdateDepartmentDTO{Name: ptr("x")}), store.ErrNotFound)

	deleted, err := st.DeleteDepartment(ctx, "d1")
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = st.GetDepartment(ctx, "d1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
