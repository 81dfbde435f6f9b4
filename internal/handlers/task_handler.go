package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staff-tracker/internal/models"
	"staff-tracker/internal/service"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// POST /tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var in models.CreateTaskDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	id, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "task created"})
}

// GET /tasks
// Optional filter: employee_id
func (h *TaskHandler) ListTasks(c *gin.Context) {
	var (
		list []models.Task
		err  error
	)
	if employeeID, ok := c.GetQuery("employee_id"); ok {
		list, err = h.svc.ListByEmployee(c.Request.Context(), employeeID)
	} else {
		list, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /tasks/pending
func (h *TaskHandler) ListPendingTasks(c *gin.Context) {
	list, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// PUT /tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var in models.UpdateTaskDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task updated"})
}

// POST /tasks/:id/toggle
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	id := c.Param("id")
	completed, err := h.svc.Toggle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "isCompleted": completed})
}

// DELETE /tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task removed"})
}
