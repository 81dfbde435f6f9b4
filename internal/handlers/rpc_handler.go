package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staff-tracker/internal/api"
)

// RPCHandler exposes the operation registry by name.
type RPCHandler struct {
	registry *api.Registry
}

func NewRPCHandler(registry *api.Registry) *RPCHandler {
	return &RPCHandler{registry: registry}
}

// POST /api/query/:name
func (h *RPCHandler) Query(c *gin.Context) {
	args, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}
	data, err := h.registry.RunQuery(c.Request.Context(), c.Param("name"), args)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// POST /api/mutation/:name
func (h *RPCHandler) Mutation(c *gin.Context) {
	args, err := c.GetRawData()
	if err != nil {
		bindError(c, err)
		return
	}
	data, err := h.registry.RunMutation(c.Request.Context(), c.Param("name"), args)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// GET /api/operations
func (h *RPCHandler) Operations(c *gin.Context) {
	queries, mutations := h.registry.Names()
	c.JSON(http.StatusOK, gin.H{"queries": queries, "mutations": mutations})
}
