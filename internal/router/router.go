package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"staff-tracker/internal/api"
	"staff-tracker/internal/handlers"
	"staff-tracker/internal/live"
	"staff-tracker/internal/middleware"
	"staff-tracker/internal/service"
	"staff-tracker/internal/store"
)

// New returns an engine with recovery, request ids and request logging, and
// every route registered. The live handler is returned so the caller can close
// its connections on shutdown.
func New(st store.Store, svc *service.Service, broker *live.Broker, log *logrus.Logger) (*gin.Engine, *handlers.LiveHandler) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))
	lh := Setup(r, st, svc, broker, log)
	return r, lh
}

func Setup(r *gin.Engine, st store.Store, svc *service.Service, broker *live.Broker, log *logrus.Logger) *handlers.LiveHandler {
	registry := api.NewRegistry(svc)

	eh := handlers.NewEmployeeHandler(svc.Employees)
	th := handlers.NewTaskHandler(svc.Tasks)
	dh := handlers.NewDepartmentHandler(svc.Departments)
	rh := handlers.NewRPCHandler(registry)
	lh := handlers.NewLiveHandler(registry, broker, log)

	// health (also verifies store connectivity)
	r.GET("/health", func(c *gin.Context) {
		if err := st.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	employees := r.Group("/employees")
	employees.GET("", eh.ListEmployees)
	employees.GET("/active", eh.ListActiveEmployees)
	employees.GET("/:id", eh.GetEmployeeByID)
	employees.POST("", eh.CreateEmployee)
	employees.PUT("/:id", eh.UpdateEmployee)
	employees.DELETE("/:id", eh.DeleteEmployee)

	departments := r.Group("/departments")
	departments.GET("", dh.ListDepartments)
	departments.GET("/:id", dh.GetDepartmentByID)
	departments.POST("", dh.CreateDepartment)
	departments.PUT("/:id", dh.UpdateDepartment)
	departments.DELETE("/:id", dh.DeleteDepartment)

	tasks := r.Group("/tasks")
	tasks.GET("", th.ListTasks)
	tasks.GET("/pending", th.ListPendingTasks)
	tasks.GET("/:id", th.GetTaskByID)
	tasks.POST("", th.CreateTask)
	tasks.PUT("/:id", th.UpdateTask)
	tasks.POST("/:id/toggle", th.ToggleTask)
	tasks.DELETE("/:id", th.DeleteTask)

	rpc := r.Group("/api")
	rpc.GET("/operations", rh.Operations)
	rpc.POST("/query/:name", rh.Query)
	rpc.POST("/mutation/:name", rh.Mutation)

	r.GET("/live", lh.Connect)
	r.GET("/live/stats", lh.Stats)
	return lh
}
