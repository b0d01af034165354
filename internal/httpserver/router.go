package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfoliohub/internal/handler"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Phase       *handler.PhaseHandler
	Schedule    *handler.ScheduleHandler
	Project     *handler.ProjectHandler
	Timeline    *handler.TimelineHandler
	Deliverable *handler.DeliverableHandler
	Task        *handler.TaskHandler
}

// NewRouter wires all routes. Auth and health endpoints are public;
// everything else requires a valid token.
func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/register", h.Auth.Register)
	r.POST("/login", h.Auth.Login)

	api := r.Group("/api/v1")
	api.Use(AuthMiddleware(jwtSecret))
	{
		api.GET("/phase-plan", h.Phase.ResolveBudget)
		api.GET("/budget-ranges/:id/phase-durations", h.Phase.ListDurations)

		api.GET("/projects", h.Project.List)
		api.POST("/projects", h.Project.Create)
		api.GET("/projects/:id", h.Project.Get)
		api.POST("/projects/:id/request-approval", h.Project.RequestApproval)
		api.POST("/projects/:id/approve", h.Project.Approve)
		api.GET("/projects/:id/timeline", h.Timeline.Get)

		api.PUT("/projects/:id/schedule", h.Schedule.Upsert)
		api.GET("/projects/:id/schedule", h.Schedule.Get)

		api.GET("/deliverables/:id/progress", h.Deliverable.GetProgress)
		api.PATCH("/deliverables/:id/progress", h.Deliverable.PatchProgress)
		api.POST("/deliverables/:id/documents", h.Deliverable.UploadDocument)
		api.GET("/deliverables/:id/documents", h.Deliverable.ListDocuments)
		api.GET("/documents/:id/url", h.Deliverable.DocumentURL)

		api.GET("/tasks", h.Task.List)
	}

	return r
}
