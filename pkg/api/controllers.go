package api

import (
	"context"
	"net/http"

	"taskboard-api/pkg/cache"
	"taskboard-api/pkg/orm"
	"taskboard-api/pkg/task"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// TaskStore is the persistence surface the controllers need. Both the
// mongo-backed and the in-memory ORM satisfy it.
type TaskStore interface {
	List(ctx context.Context, filter task.Filter) ([]task.Task, error)
	Create(ctx context.Context, fields task.CreateFields) (*task.Task, error)
	GetByID(ctx context.Context, id string) (*task.Task, error)
	UpdateByID(ctx context.Context, id string, fields task.UpdateFields) (*task.Task, error)
	DeleteByID(ctx context.Context, id string) error
}

// Env carries the controllers' injected collaborators; the controllers
// themselves keep no state across requests.
type Env struct {
	Store TaskStore
	Cache *cache.Cache

	// SampleDataFallback lets the listing endpoint serve the fixed
	// demo dataset when the store is unreachable. Off by default; only
	// meant for demo and development environments.
	SampleDataFallback bool
}

func NewEnv(store TaskStore, taskCache *cache.Cache, sampleDataFallback bool) *Env {
	return &Env{Store: store, Cache: taskCache, SampleDataFallback: sampleDataFallback}
}

// GetTasksController lists tasks, favorites first then newest first.
// Query params: filter=favorites, color=#rrggbb. A malformed color
// degrades to "no filter" instead of erroring.
func (e *Env) GetTasksController(c *gin.Context) {
	filterParam := sanitizeString(c.Query("filter"))
	colorParam := sanitizeString(c.Query("color"))

	filter := task.Filter{}
	if filterParam == "favorites" {
		filter.FavoritesOnly = true
	}
	if colorParam != "" && colorParam != "all" && task.IsHexColor(colorParam) {
		filter.Color = colorParam
	}

	tasks, err := e.Store.List(c.Request.Context(), filter)
	if err != nil {
		if e.SampleDataFallback && orm.IsUnavailable(err) {
			log.Warn().Err(err).Msg("Task store unreachable, serving sample data")
			c.JSON(http.StatusOK, defaultSuccessResponse(task.FilterSamples(task.SampleTasks(), filter)))
			return
		}
		log.Error().Err(err).Msg("Failed to list tasks")
		c.JSON(http.StatusInternalServerError, defaultErrorResponse("Internal server error"))
		return
	}
	c.JSON(http.StatusOK, defaultSuccessResponse(tasks))
}

// CreateTaskController creates a task from a sanitized body. Title is
// required; a color, when present, must be a palette member.
func (e *Env) CreateTaskController(c *gin.Context) {
	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		log.Warn().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, defaultErrorResponse("Invalid request body"))
		return
	}

	payload := sanitizeTaskPayload(raw)
	fields := payload.ToCreateFields()
	if err := task.ValidateCreate(fields); err != nil {
		c.JSON(http.StatusBadRequest, defaultErrorResponse(err.Error()))
		return
	}

	created, err := e.Store.Create(c.Request.Context(), fields)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create task")
		c.JSON(http.StatusInternalServerError, defaultErrorResponse("Internal server error"))
		return
	}
	c.JSON(http.StatusCreated, defaultSuccessResponse(created))
}

func (e *Env) GetTaskByIdController(c *gin.Context) {
	taskID := c.Param("id")
	ctx := c.Request.Context()

	if cached, hit := e.Cache.GetTask(ctx, taskID); hit {
		c.JSON(http.StatusOK, defaultSuccessResponse(cached))
		return
	}

	found, err := e.Store.GetByID(ctx, taskID)
	if err != nil {
		e.respondStoreError(c, err, taskID)
		return
	}
	e.Cache.SetTask(ctx, found)
	c.JSON(http.StatusOK, defaultSuccessResponse(found))
}

// UpdateTaskController merges the sanitized partial body onto the
// stored task and refreshes updatedAt.
func (e *Env) UpdateTaskController(c *gin.Context) {
	taskID := c.Param("id")

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		log.Warn().Err(err).Msg("Invalid request body")
		c.JSON(http.StatusBadRequest, defaultErrorResponse("Invalid request body"))
		return
	}

	payload := sanitizeTaskPayload(raw)
	fields := payload.ToUpdateFields()
	if err := task.ValidateUpdate(fields); err != nil {
		c.JSON(http.StatusBadRequest, defaultErrorResponse(err.Error()))
		return
	}

	updated, err := e.Store.UpdateByID(c.Request.Context(), taskID, fields)
	if err != nil {
		e.respondStoreError(c, err, taskID)
		return
	}
	e.Cache.InvalidateTask(c.Request.Context(), taskID)
	c.JSON(http.StatusOK, defaultSuccessResponse(updated))
}

func (e *Env) DeleteTaskController(c *gin.Context) {
	taskID := c.Param("id")

	if err := e.Store.DeleteByID(c.Request.Context(), taskID); err != nil {
		e.respondStoreError(c, err, taskID)
		return
	}
	e.Cache.InvalidateTask(c.Request.Context(), taskID)
	c.JSON(http.StatusOK, defaultSuccessResponse(gin.H{}))
}

// respondStoreError maps store failures onto the response contract:
// malformed ids are client errors, missing tasks are 404, everything
// else is flattened to a generic 500 so internal detail never leaks.
func (e *Env) respondStoreError(c *gin.Context, err error, taskID string) {
	switch {
	case task.IsInvalidIDError(err):
		c.JSON(http.StatusBadRequest, defaultErrorResponse("Invalid task ID"))
	case task.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, defaultErrorResponse("Task not found"))
	default:
		log.Error().Err(err).Str("taskId", taskID).Msg("Task store operation failed")
		c.JSON(http.StatusInternalServerError, defaultErrorResponse("Internal server error"))
	}
}

// ToCreateFields lowers the payload for the create path; nil fields
// become zero values so the store applies its declared defaults.
func (p TaskPayload) ToCreateFields() task.CreateFields {
	fields := task.CreateFields{}
	if p.Title != nil {
		fields.Title = *p.Title
	}
	if p.Description != nil {
		fields.Description = *p.Description
	}
	if p.Color != nil {
		fields.Color = *p.Color
	}
	return fields
}

// ToUpdateFields lowers the payload for the update path, keeping the
// absent-vs-set distinction.
func (p TaskPayload) ToUpdateFields() task.UpdateFields {
	return task.UpdateFields{
		Title:       p.Title,
		Description: p.Description,
		Color:       p.Color,
		IsFavorite:  p.IsFavorite,
		Completed:   p.Completed,
	}
}
