package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"aigongjang/config"
	"aigongjang/pipeline"
	"aigongjang/shared/kafka"
	"aigongjang/state"
)

// Deps carries everything the controllers need. Queue is optional: when set,
// generate requests are published to Kafka for a worker; when nil, the server
// runs the pipeline in-process.
type Deps struct {
	Pipeline *pipeline.Pipeline
	State    *state.Manager
	Queue    *kafka.Producer
	Defaults config.RunConfig
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterRunRoutes(r, deps)
	RegisterHealthRoutes(r)
	return r
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})
}
