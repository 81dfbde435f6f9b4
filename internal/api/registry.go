// Package api names every query and mutation so the RPC and live transports
// can dispatch them by string.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"staff-tracker/internal/live"
	"staff-tracker/internal/models"
	"staff-tracker/internal/service"
)

var ErrUnknownOperation = errors.New("unknown operation")

const CodeUnknownOperation = "UnknownOperation"

// Handler runs one operation against JSON-encoded args.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Query is a read operation and the collection it reads from.
type Query struct {
	Topic live.Topic
	Run   Handler
}

type Registry struct {
	queries   map[string]Query
	mutations map[string]Handler
}

type idArgs struct {
	ID string `json:"id"`
}

func (a idArgs) validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return &service.ValidationError{Err: errors.New("id is required")}
	}
	return nil
}

func NewRegistry(svc *service.Service) *Registry {
	r := &Registry{
		queries:   make(map[string]Query),
		mutations: make(map[string]Handler),
	}
	r.employees(svc.Employees)
	r.tasks(svc.Tasks)
	r.departments(svc.Departments)
	return r
}

func (r *Registry) employees(s *service.EmployeeService) {
	r.query("employees.getAll", live.TopicEmployees, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return s.List(ctx)
	})
	r.query("employees.getByDepartment", live.TopicEmployees, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args struct {
			Department string `json:"department"`
		}
		if err := decode(raw, &args); err != nil {
			return nil, err
		}
		return s.ListByDepartment(ctx, args.Department)
	})
	r.query("employees.getActive", live.TopicEmployees, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return s.ListActive(ctx)
	})
	r.query("employees.get", live.TopicEmployees, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeID(raw, &args); err != nil {
			return nil, err
		}
		return s.Get(ctx, args.ID)
	})

	r.mutation("employees.add", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in models.CreateEmployeeDTO
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		return s.Create(ctx, in)
	})
	r.mutation("employees.update", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args struct {
			idArgs
			models.UpdateEmployeeDTO
		}
		if err := decode(raw, &args); err != nil {
			return nil, err
		}
		if err := args.idArgs.validate(); err != nil {
			return nil, err
		}
		return nil, s.Update(ctx, args.ID, args.UpdateEmployeeDTO)
	})
	r.mutation("employees.remove", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeID(raw, &args); err != nil {
			return nil, err
		}
		return nil, s.Remove(ctx, args.ID)
	})
}

func (r *Registry) tasks(s *service.TaskService) {
	r.query("tasks.getAll", live.TopicTasks, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return s.List(ctx)
	})
	r.query("tasks.getByEmployee", live.TopicTasks, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args struct {
			EmployeeID string `json:"employeeId"`
		}
		if err := decode(raw, &args); err != nil {
			return nil, err
		}
		return s.ListByEmployee(ctx, args.EmployeeID)
	})
	r.query("tasks.getPending", live.TopicTasks, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return s.ListPending(ctx)
	})
	r.query("tasks.get", live.TopicTasks, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeID(raw, &args); err != nil {
			return nil, err
		}
		return s.Get(ctx, args.ID)
	})

	r.mutation("tasks.add", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in models.CreateTaskDTO
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		return s.Create(ctx, in)
	})
	r.mutation("tasks.update", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args struct {
			idArgs
			models.UpdateTaskDTO
		}
		if err := decode(raw, &args); err != nil {
			return nil, err
		}
		if err := args.idArgs.validate(); err != nil {
			return nil, err
		}
		return nil, s.Update(ctx, args.ID, args.UpdateTaskDTO)
	})
	r.mutation("tasks.toggle", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeID(raw, &args); err != nil {
			return nil, err
		}
		return s.Toggle(ctx, args.ID)
	})
	r.mutation("tasks.remove", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeID(raw, &args); err != nil {
			return nil, err
		}
		return nil, s.Remove(ctx, args.ID)
	})
}

func (r *Registry) departments(s *service.DepartmentService) {
	r.query("departments.getAll", live.TopicDepartments, func(ctx context.Context, _ json.RawMessage) (any, error) {
		return s.List(ctx)
	})
	r.query("departments.get", live.TopicDepartments, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeID(raw, &args); err != nil {
			return nil, err
		}
		return s.Get(ctx, args.ID)
	})

	r.mutation("departments.add", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var in models.CreateDepartmentDTO
		if err := decode(raw, &in); err != nil {
			return nil, err
		}
		return s.Create(ctx, in)
	})
	r.mutation("departments.update", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args struct {
			idArgs
			models.UpdateDepartmentDTO
		}
		if err := decode(raw, &args); err != nil {
			return nil, err
		}
		if err := args.idArgs.validate(); err != nil {
			return nil, err
		}
		return nil, s.Update(ctx, args.ID, args.UpdateDepartmentDTO)
	})
	r.mutation("departments.remove", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeID(raw, &args); err != nil {
			return nil, err
		}
		return nil, s.Remove(ctx, args.ID)
	})
}

func (r *Registry) query(name string, topic live.Topic, run Handler) {
	r.queries[name] = Query{Topic: topic, Run: run}
}

func (r *Registry) mutation(name string, run Handler) {
	r.mutations[name] = run
}

func (r *Registry) RunQuery(ctx context.Context, name string, args json.RawMessage) (any, error) {
	q, ok := r.queries[name]
	if !ok {
		return nil, fmt.Errorf("%w: query %q", ErrUnknownOperation, name)
	}
	return q.Run(ctx, args)
}

func (r *Registry) RunMutation(ctx context.Context, name string, args json.RawMessage) (any, error) {
	m, ok := r.mutations[name]
	if !ok {
		return nil, fmt.Errorf("%w: mutation %q", ErrUnknownOperation, name)
	}
	return m(ctx, args)
}

// Subscribe evaluates the named query now and again after every change to its
// collection.
func (r *Registry) Subscribe(ctx context.Context, b *live.Broker, name string, args json.RawMessage) (*live.Subscription, error) {
	q, ok := r.queries[name]
	if !ok {
		return nil, fmt.Errorf("%w: query %q", ErrUnknownOperation, name)
	}
	return b.Subscribe(ctx, q.Topic, func(ctx context.Context) (any, error) {
		return q.Run(ctx, args)
	})
}

// Names lists the registered queries and mutations, sorted.
func (r *Registry) Names() (queries, mutations []string) {
	for name := range r.queries {
		queries = append(queries, name)
	}
	for name := range r.mutations {
		mutations = append(mutations, name)
	}
	sort.Strings(queries)
	sort.Strings(mutations)
	return queries, mutations
}

// Code is service.ErrorCode extended with UnknownOperation.
func Code(err error) string {
	if errors.Is(err, ErrUnknownOperation) {
		return CodeUnknownOperation
	}
	return service.ErrorCode(err)
}

// decode reads a JSON object into v. Missing args decode as an empty object.
func decode(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &service.ValidationError{Err: fmt.Errorf("decode args: %w", err)}
	}
	return nil
}

func decodeID(raw json.RawMessage, args *idArgs) error {
	if err := decode(raw, args); err != nil {
		return err
	}
	return args.validate()
}
