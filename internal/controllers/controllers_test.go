package controllers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"taskmanager-be/internal/logging"
	"taskmanager-be/internal/middleware"
	"taskmanager-be/internal/models"
	"taskmanager-be/internal/service"
)

const taskID = "6f1c1a52-3f4e-4b7e-9a57-0c1d2e3f4a5b"

func init() {
	gin.SetMode(gin.TestMode)
	models.RegisterValidation()
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, userID string, req *models.CreateTaskRequest) (*models.TaskResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaskResponse), args.Error(1)
}

func (m *MockTaskService) GetUserTasks(ctx context.Context, userID string) ([]*models.TaskResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TaskResponse), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, taskID, userID string, req *models.UpdateTaskRequest) error {
	return m.Called(ctx, taskID, userID, req).Error(0)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, taskID, userID string) error {
	return m.Called(ctx, taskID, userID).Error(0)
}

func authRouter(svc service.AuthService) *gin.Engine {
	ac := NewAuthController(svc, logging.Discard())
	r := gin.New()
	r.POST("/register", ac.Register)
	r.POST("/login", ac.Login)
	return r
}

// taskRouter mounts the task handlers behind a stub that authenticates
// every request as user u-1.
func taskRouter(svc service.TaskService) *gin.Engine {
	tc := NewTaskController(svc, logging.Discard())
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.IdentityKey, middleware.Identity{UserID: "u-1", Email: "ann@x.com"})
	})
	r.POST("/tasks", tc.CreateTask)
	r.GET("/tasks", tc.GetTasks)
	r.PUT("/tasks/:id", tc.UpdateTask)
	r.DELETE("/tasks/:id", tc.DeleteTask)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockAuthService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "created",
			body: `{"name":"Ann","email":"ann@x.com","password":"secret1"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, &models.RegisterRequest{Name: "Ann", Email: "ann@x.com", Password: "secret1"}).
					Return(&models.UserResponse{ID: "u-1", Name: "Ann", Email: "ann@x.com"}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":"u-1","name":"Ann","email":"ann@x.com"}`,
		},
		{
			name: "email taken",
			body: `{"name":"Ann","email":"ann@x.com","password":"secret1"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, service.ErrEmailTaken)
			},
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"Email already registered"}`,
		},
		{
			name: "store failure is hidden",
			body: `{"name":"Ann","email":"ann@x.com","password":"secret1"}`,
			setupMock: func(m *MockAuthService) {
				m.On("Register", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Internal server error"}`,
		},
		{
			name:       "validation lists every field",
			body:       `{"name":"","email":"x","password":"1"}`,
			setupMock:  func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantBody: `{"error":"Validation failed","errors":[
				{"field":"name","message":"name is required"},
				{"field":"email","message":"Invalid email format"},
				{"field":"password","message":"password must be at least 6 characters long"}]}`,
		},
		{
			name:       "malformed body",
			body:       `not json`,
			setupMock:  func(*MockAuthService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAuthService)
			tt.setupMock(svc)

			w := serve(authRouter(svc), http.MethodPost, "/register", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, &models.LoginRequest{Email: "ann@x.com", Password: "secret1"}).
			Return(&models.LoginResponse{Token: "tok"}, nil)

		w := serve(authRouter(svc), http.MethodPost, "/login", `{"email":"ann@x.com","password":"secret1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"token":"tok"}`, w.Body.String())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		svc := new(MockAuthService)
		svc.On("Login", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidCredentials)

		w := serve(authRouter(svc), http.MethodPost, "/login", `{"email":"ann@x.com","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Wrong email or password"}`, w.Body.String())
	})

	t.Run("missing password", func(t *testing.T) {
		svc := new(MockAuthService)

		w := serve(authRouter(svc), http.MethodPost, "/login", `{"email":"ann@x.com"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})
}

func TestTaskController_CreateTask(t *testing.T) {
	svc := new(MockTaskService)
	svc.On("CreateTask", mock.Anything, "u-1", &models.CreateTaskRequest{Title: "Buy milk"}).
		Return(&models.TaskResponse{ID: taskID, Title: "Buy milk", UserID: "u-1"}, nil)

	w := serve(taskRouter(svc), http.MethodPost, "/tasks", `{"title":"Buy milk"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"completed":false`)
	svc.AssertExpectations(t)

	w = serve(taskRouter(svc), http.MethodPost, "/tasks", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"title is required"`)
}

func TestTaskController_GetTasks(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("GetUserTasks", mock.Anything, "u-1").Return([]*models.TaskResponse{}, nil)

		w := serve(taskRouter(svc), http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("GetUserTasks", mock.Anything, "u-1").Return(nil, errors.New("db down"))

		w := serve(taskRouter(svc), http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func TestTaskController_UpdateTask(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		svcErr     error
		callsSvc   bool
		wantStatus int
		wantBody   string
	}{
		{
			name:       "updated",
			path:       "/tasks/" + taskID,
			body:       `{"completed":true}`,
			callsSvc:   true,
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Task updated successfully."}`,
		},
		{
			name:       "nothing to update",
			path:       "/tasks/" + taskID,
			body:       `{}`,
			svcErr:     service.ErrNoUpdateData,
			callsSvc:   true,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"No data provided for update."}`,
		},
		{
			name:       "not owned",
			path:       "/tasks/" + taskID,
			body:       `{"title":"x"}`,
			svcErr:     service.ErrTaskNotFound,
			callsSvc:   true,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Task not found or not authorized."}`,
		},
		{
			name:       "id is not a uuid",
			path:       "/tasks/42",
			body:       `{"title":"x"}`,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Task not found or not authorized."}`,
		},
		{
			name:       "empty title",
			path:       "/tasks/" + taskID,
			body:       `{"title":""}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Validation failed","errors":[{"field":"title","message":"title cannot be empty"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockTaskService)
			if tt.callsSvc {
				svc.On("UpdateTask", mock.Anything, taskID, "u-1", mock.AnythingOfType("*models.UpdateTaskRequest")).Return(tt.svcErr)
			}

			w := serve(taskRouter(svc), http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
			if !tt.callsSvc {
				svc.AssertNotCalled(t, "UpdateTask", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestTaskController_DeleteTask(t *testing.T) {
	svc := new(MockTaskService)
	svc.On("DeleteTask", mock.Anything, taskID, "u-1").Return(nil).Once()
	svc.On("DeleteTask", mock.Anything, taskID, "u-1").Return(service.ErrTaskNotFound).Once()

	w := serve(taskRouter(svc), http.MethodDelete, "/tasks/"+taskID, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Task deleted successfully."}`, w.Body.String())

	w = serve(taskRouter(svc), http.MethodDelete, "/tasks/"+taskID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestRequireIdentity_WithoutMiddleware(t *testing.T) {
	svc := new(MockTaskService)
	tc := NewTaskController(svc, logging.Discard())
	r := gin.New()
	r.GET("/tasks", tc.GetTasks)

	w := serve(r, http.MethodGet, "/tasks", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetUserTasks", mock.Anything, mock.Anything)
}
