package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staff-tracker/internal/models"
	"staff-tracker/internal/service"
)

type DepartmentHandler struct {
	svc *service.DepartmentService
}

func NewDepartmentHandler(svc *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{svc: svc}
}

// GET /departments
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /departments/:id
func (h *DepartmentHandler) GetDepartmentByID(c *gin.Context) {
	d, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /departments
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var in models.CreateDepartmentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	id, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "department created"})
}

// PUT /departments/:id
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	var in models.UpdateDepartmentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	if err := h.svc.Update(c.Request.Context(), c.Param("id"), in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "department updated"})
}

// DELETE /departments/:id
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "department removed"})
}
