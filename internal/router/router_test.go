package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"staff-tracker/internal/handlers"
	"staff-tracker/internal/live"
	"staff-tracker/internal/logging"
	"staff-tracker/internal/models"
	"staff-tracker/internal/service"
	"staff-tracker/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type testServer struct {
	engine *gin.Engine
	live   *handlers.LiveHandler
	broker *live.Broker
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := logging.Discard()
	st := testutil.NewSQLiteStore(t)
	broker := live.NewBroker(log)
	t.Cleanup(broker.Close)
	svc := service.New(st, broker, log)
	engine, lh := New(st, svc, broker, log)
	return &testServer{engine: engine, live: lh, broker: broker}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestEmployeesREST(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/employees", testutil.Ada())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeBody[map[string]string](t, w)["id"]
	require.NotEmpty(t, id)

	w = s.do(t, http.MethodPost, "/employees", testutil.Ada())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DuplicateEmail", decodeBody[map[string]string](t, w)["code"])

	bad := testutil.Ada()
	bad.Email = "nope"
	w = s.do(t, http.MethodPost, "/employees", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidArgument", decodeBody[map[string]string](t, w)["code"])

	w = s.do(t, http.MethodGet, "/employees/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[models.Employee](t, w)
	assert.Equal(t, "ada@x.com", got.Email)
	assert.Equal(t, models.StatusActive, got.Status)

	w = s.do(t, http.MethodGet, "/employees?department=Engineering", nil)
	assert.Len(t, decodeBody[[]models.Employee](t, w), 1)
	w = s.do(t, http.MethodGet, "/employees?department=Sales", nil)
	assert.Empty(t, decodeBody[[]models.Employee](t, w))

	w = s.do(t, http.MethodPut, "/employees/"+id, map[string]string{"status": "inactive"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/employees/active", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]models.Employee](t, w))

	w = s.do(t, http.MethodPut, "/employees/missing", map[string]string{"position": "CTO"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "EmployeeNotFound", decodeBody[map[string]string](t, w)["code"])

	w = s.do(t, http.MethodDelete, "/employees/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, "/employees/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/employees/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/employees", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTasksREST(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/tasks", map[string]string{"text": "Review PR", "assignedTo": "emp-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeBody[map[string]string](t, w)["id"]

	w = s.do(t, http.MethodPost, "/tasks", map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/tasks?employee_id=emp-1", nil)
	tasks := decodeBody[[]models.Task](t, w)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].IsCompleted)

	w = s.do(t, http.MethodPost, "/tasks/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+id+`","isCompleted":true}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/tasks/pending", nil)
	assert.Empty(t, decodeBody[[]models.Task](t, w))

	w = s.do(t, http.MethodPost, "/tasks/missing/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TaskNotFound", decodeBody[map[string]string](t, w)["code"])

	w = s.do(t, http.MethodPut, "/tasks/"+id, map[string]any{"text": "Merge PR", "isCompleted": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/tasks/"+id, nil)
	got := decodeBody[models.Task](t, w)
	assert.Equal(t, "Merge PR", got.Text)
	assert.False(t, got.IsCompleted)

	w = s.do(t, http.MethodDelete, "/tasks/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodGet, "/tasks", nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDepartmentsREST(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/departments", map[string]string{"name": "Engineering"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody[map[string]string](t, w)["id"]

	w = s.do(t, http.MethodPut, "/departments/"+id, map[string]string{"description": "Builds things"})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/departments", nil)
	list := decodeBody[[]models.Department](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, testutil.Ptr("Builds things"), list[0].Description)

	w = s.do(t, http.MethodGet, "/departments/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DepartmentNotFound", decodeBody[map[string]string](t, w)["code"])

	w = s.do(t, http.MethodDelete, "/departments/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRPC(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/mutation/employees.add", testutil.Ada())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id := decodeBody[struct{ Data string }](t, w).Data
	require.NotEmpty(t, id)

	w = s.do(t, http.MethodPost, "/api/query/employees.getAll", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decodeBody[struct{ Data []models.Employee }](t, w).Data
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)

	w = s.do(t, http.MethodPost, "/api/mutation/employees.add", testutil.Ada())
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"employee with this email already exists","code":"DuplicateEmail"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/query/employees.drop", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "UnknownOperation", decodeBody[map[string]string](t, w)["code"])

	w = s.do(t, http.MethodGet, "/api/operations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ops := decodeBody[map[string][]string](t, w)
	assert.Contains(t, ops["queries"], "tasks.getPending")
	assert.Contains(t, ops["mutations"], "tasks.toggle")
}

type wsMessage struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Data  json.RawMessage `json:"data"`
	Code  string          `json:"code"`
	Error string          `json:"error"`
}

func dialLive(t *testing.T, s *testServer) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(s.engine)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return conn, func() {
		_ = conn.Close()
		srv.Close()
	}
}

func readUntil(t *testing.T, conn *websocket.Conn, match func(wsMessage) bool) wsMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var msg wsMessage
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func TestLive(t *testing.T) {
	s := newTestServer(t)
	conn, closeConn := dialLive(t, s)
	defer closeConn()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping", "id": "p1"}))
	msg := readUntil(t, conn, func(m wsMessage) bool { return m.Type == "pong" })
	assert.Equal(t, "p1", msg.ID)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "id": "s1", "name": "tasks.getPending"}))
	msg = readUntil(t, conn, func(m wsMessage) bool { return m.Type == "snapshot" && m.ID == "s1" })
	assert.JSONEq(t, `[]`, string(msg.Data))

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "mutation", "id": "m1", "name": "tasks.add",
		"args": map[string]string{"text": "Write docs"},
	}))

	var taskID string
	var pending []models.Task
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for taskID == "" || len(pending) == 0 {
		var m wsMessage
		require.NoError(t, conn.ReadJSON(&m))
		switch {
		case m.Type == "result" && m.ID == "m1":
			require.NoError(t, json.Unmarshal(m.Data, &taskID))
		case m.Type == "snapshot" && m.ID == "s1":
			require.NoError(t, json.Unmarshal(m.Data, &pending))
		}
	}
	require.Len(t, pending, 1)
	assert.Equal(t, taskID, pending[0].ID)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "mutation", "id": "m2", "name": "tasks.toggle",
		"args": map[string]string{"id": "missing"},
	}))
	msg = readUntil(t, conn, func(m wsMessage) bool { return m.Type == "error" && m.ID == "m2" })
	assert.Equal(t, "TaskNotFound", msg.Code)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "id": "s2", "name": "nope"}))
	msg = readUntil(t, conn, func(m wsMessage) bool { return m.ID == "s2" })
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "UnknownOperation", msg.Code)

	assert.Equal(t, 1, s.broker.Stats()[live.TopicTasks])
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "unsubscribe", "id": "s1"}))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping", "id": "p2"}))
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "pong" && m.ID == "p2" })
	assert.Empty(t, s.broker.Stats())
}

func TestLive_SubscriptionsReleasedOnDisconnect(t *testing.T) {
	s := newTestServer(t)
	conn, closeConn := dialLive(t, s)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "id": "s1", "name": "employees.getAll"}))
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "snapshot" })
	assert.Equal(t, 1, s.broker.Stats()[live.TopicEmployees])

	closeConn()
	assert.Eventually(t, func() bool { return len(s.broker.Stats()) == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestLive_DuplicateSubscriptionIDRejected(t *testing.T) {
	s := newTestServer(t)
	conn, closeConn := dialLive(t, s)
	defer closeConn()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "id": "s1", "name": "tasks.getAll"}))
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "snapshot" && m.ID == "s1" })

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "id": "s1", "name": "employees.getAll"}))
	msg := readUntil(t, conn, func(m wsMessage) bool { return m.ID == "s1" })
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "InvalidArgument", msg.Code)
	assert.Empty(t, s.broker.Stats()[live.TopicEmployees])

	// the original subscription keeps following its own query
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type": "mutation", "id": "m1", "name": "tasks.add",
		"args": map[string]string{"text": "Write docs"},
	}))
	msg = readUntil(t, conn, func(m wsMessage) bool { return m.Type == "snapshot" && m.ID == "s1" })
	var tasks []models.Task
	require.NoError(t, json.Unmarshal(msg.Data, &tasks))
	assert.Len(t, tasks, 1)
}

func TestLive_CloseDisconnectsClients(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.engine)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "id": "s1", "name": "employees.getAll"}))
	readUntil(t, conn, func(m wsMessage) bool { return m.Type == "snapshot" })

	s.live.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived), "got %v", err)
			break
		}
	}
	assert.Eventually(t, func() bool { return len(s.broker.Stats()) == 0 }, 5*time.Second, 10*time.Millisecond)

	_, resp, err = websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	_ = resp.Body.Close()
}
