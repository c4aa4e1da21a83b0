package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"aigongjang/config"
	"aigongjang/pipeline"
	sharedtypes "aigongjang/shared/types"
	"aigongjang/types"
)

// RegisterRunRoutes registers the video-generation endpoints.
func RegisterRunRoutes(r *gin.Engine, deps Deps) {
	g := r.Group("/api")
	g.POST("/generate", handleGenerate(deps))
	g.GET("/runs", handleListRuns(deps))
	g.GET("/runs/:id", handleGetRun(deps))
	g.GET("/runs/:id/video", handleGetVideo(deps))
}

// GenerateRequest is the request to produce a video for a topic. All fields
// except the topic override server defaults.
type GenerateRequest struct {
	Topic         string `json:"topic" binding:"required"`
	Style         string `json:"style,omitempty"`
	Voice         string `json:"voice,omitempty"`
	BGMMood       string `json:"bgm_mood,omitempty"`
	SceneCount    int    `json:"scene_count,omitempty"`
	CharacterDesc string `json:"character_desc,omitempty"`
	Subtitles     *bool  `json:"subtitles,omitempty"`
}

// GenerateResponse acknowledges a queued or started run.
type GenerateResponse struct {
	RunID  string `json:"run_id,omitempty"`
	Queued bool   `json:"queued"`
}

// handleGenerate accepts a topic and either queues it for a worker or starts
// an in-process run. Rendering takes minutes, so the response is always an
// acknowledgement; progress is read from /api/runs/:id.
func handleGenerate(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if deps.Queue != nil {
			msg := sharedtypes.TopicRequest{
				Topic:         req.Topic,
				Style:         req.Style,
				Voice:         req.Voice,
				BGMMood:       req.BGMMood,
				SceneCount:    req.SceneCount,
				CharacterDesc: req.CharacterDesc,
				Subtitles:     req.Subtitles,
			}
			if err := deps.Queue.Publish(req.Topic, msg); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to queue topic: " + err.Error()})
				return
			}
			c.JSON(http.StatusAccepted, GenerateResponse{Queued: true})
			return
		}

		runID := pipeline.NewRunID()
		cfg := applyOverrides(deps.Defaults, req)
		go deps.Pipeline.RunWithID(context.Background(), runID, req.Topic, cfg)
		c.JSON(http.StatusAccepted, GenerateResponse{RunID: runID})
	}
}

// handleListRuns returns every run the server knows about, oldest first.
func handleListRuns(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"runs": deps.State.List()})
	}
}

// handleGetRun returns one run's report and recent activity log.
func handleGetRun(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, ok := deps.State.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown run id"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

// handleGetVideo serves the rendered file for a finished run.
func handleGetVideo(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, ok := deps.State.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown run id"})
			return
		}
		if snapshot.Report.State != types.StateRendered || snapshot.Report.OutputPath == "" {
			c.JSON(http.StatusConflict, gin.H{
				"error": "run has no rendered video",
				"state": snapshot.Report.State,
			})
			return
		}
		c.File(snapshot.Report.OutputPath)
	}
}

func applyOverrides(cfg config.RunConfig, req GenerateRequest) config.RunConfig {
	if req.Style != "" {
		cfg.Style = req.Style
	}
	if req.Voice != "" {
		cfg.Voice = req.Voice
	}
	if req.BGMMood != "" {
		cfg.BGMMood = req.BGMMood
	}
	if req.SceneCount > 0 {
		cfg.SceneCount = req.SceneCount
	}
	if req.CharacterDesc != "" {
		cfg.CharacterDesc = req.CharacterDesc
	}
	if req.Subtitles != nil {
		cfg.Subtitles = *req.Subtitles
	}
	return cfg
}
