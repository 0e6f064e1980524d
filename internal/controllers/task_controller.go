package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskmanager-be/internal/models"
	"taskmanager-be/internal/service"
)

type TaskController struct {
	taskService service.TaskService
	logger      *slog.Logger
}

func NewTaskController(taskService service.TaskService, logger *slog.Logger) *TaskController {
	return &TaskController{
		taskService: taskService,
		logger:      logger,
	}
}

// CreateTask handles POST /api/tasks
func (tc *TaskController) CreateTask(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	task, err := tc.taskService.CreateTask(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		respondInternalError(c, tc.logger, "could not create the task", err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTasks handles GET /api/tasks - returns all tasks for the authenticated user
func (tc *TaskController) GetTasks(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	tasks, err := tc.taskService.GetUserTasks(c.Request.Context(), identity.UserID)
	if err != nil {
		respondInternalError(c, tc.logger, "could not list tasks", err)
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// UpdateTask handles PUT /api/tasks/:id
func (tc *TaskController) UpdateTask(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	taskID, ok := tc.taskID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := tc.taskService.UpdateTask(c.Request.Context(), taskID, identity.UserID, &req)
	switch {
	case errors.Is(err, service.ErrNoUpdateData):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No data provided for update.",
		})
		return
	case errors.Is(err, service.ErrTaskNotFound):
		respondTaskNotFound(c)
		return
	case err != nil:
		respondInternalError(c, tc.logger, "could not update the task", err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Task updated successfully."})
}

// DeleteTask handles DELETE /api/tasks/:id
func (tc *TaskController) DeleteTask(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	taskID, ok := tc.taskID(c)
	if !ok {
		return
	}

	err := tc.taskService.DeleteTask(c.Request.Context(), taskID, identity.UserID)
	if errors.Is(err, service.ErrTaskNotFound) {
		respondTaskNotFound(c)
		return
	}
	if err != nil {
		respondInternalError(c, tc.logger, "could not delete the task", err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Task deleted successfully."})
}

// taskID reads the :id path parameter. An ID that cannot exist gets the
// same answer as one owned by someone else.
func (tc *TaskController) taskID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondTaskNotFound(c)
		return "", false
	}
	return id.String(), true
}

func respondTaskNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "Task not found or not authorized.",
	})
}
