package task_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrms/internal/access"
	"go-hrms/internal/shared/response"
	"go-hrms/internal/task"
	taskerrors "go-hrms/internal/task/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate struct {
	principal *access.Principal
}

func (g fakeGate) Authenticate(ctx context.Context, raw string) (*access.Principal, error) {
	if raw == "" {
		return nil, access.ErrUnauthenticated
	}
	return g.principal, nil
}

type fakeTaskService struct {
	task.Service
	CreateFn func(ctx context.Context, p *access.Principal, req task.CreateTaskRequest) (task.TaskResponse, error)
	GetFn    func(ctx context.Context, companyID, id uint) (task.TaskResponse, error)
	ListFn   func(ctx context.Context, p *access.Principal, q task.ListTasksQuery) ([]task.TaskResponse, response.PaginationMeta, error)
	UpdateFn func(ctx context.Context, p *access.Principal, id uint, req task.UpdateTaskRequest) (task.TaskResponse, error)
	CloseFn  func(ctx context.Context, p *access.Principal, id uint) (task.TaskResponse, error)
}

func (f *fakeTaskService) Create(ctx context.Context, p *access.Principal, req task.CreateTaskRequest) (task.TaskResponse, error) {
	return f.CreateFn(ctx, p, req)
}
func (f *fakeTaskService) Get(ctx context.Context, companyID, id uint) (task.TaskResponse, error) {
	return f.GetFn(ctx, companyID, id)
}
func (f *fakeTaskService) List(ctx context.Context, p *access.Principal, q task.ListTasksQuery) ([]task.TaskResponse, response.PaginationMeta, error) {
	return f.ListFn(ctx, p, q)
}
func (f *fakeTaskService) Update(ctx context.Context, p *access.Principal, id uint, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	return f.UpdateFn(ctx, p, id, req)
}
func (f *fakeTaskService) Close(ctx context.Context, p *access.Principal, id uint) (task.TaskResponse, error) {
	return f.CloseFn(ctx, p, id)
}

func setupRouter(svc task.Service, p *access.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	task.RegisterRoutes(r.Group("/api/v1"), task.NewHandler(svc), fakeGate{principal: p})
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(w, req)
	return w
}

func TestTaskHandler_Create(t *testing.T) {
	t.Run("admin creates", func(t *testing.T) {
		svc := &fakeTaskService{
			CreateFn: func(ctx context.Context, p *access.Principal, req task.CreateTaskRequest) (task.TaskResponse, error) {
				assert.Equal(t, uint(4), p.CompanyID)
				assert.Equal(t, "Fix bug", req.Title)
				return task.TaskResponse{ID: 1, Title: req.Title, Status: task.StatusOpen}, nil
			},
		}

		w := do(setupRouter(svc, admin(4)), http.MethodPost, "/api/v1/tasks", `{"title":"Fix bug","priority":"high"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"OPEN"`)
	})

	t.Run("employee forbidden", func(t *testing.T) {
		w := do(setupRouter(&fakeTaskService{}, staff(4, 9)), http.MethodPost, "/api/v1/tasks", `{"title":"Fix bug"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("title too short", func(t *testing.T) {
		w := do(setupRouter(&fakeTaskService{}, admin(4)), http.MethodPost, "/api/v1/tasks", `{"title":"x"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTaskHandler_List(t *testing.T) {
	svc := &fakeTaskService{
		ListFn: func(ctx context.Context, p *access.Principal, q task.ListTasksQuery) ([]task.TaskResponse, response.PaginationMeta, error) {
			assert.True(t, q.OnlyMine)
			assert.Equal(t, "open", q.Status)
			return []task.TaskResponse{}, response.NewPaginationMeta(0, 1, 20), nil
		},
	}

	w := do(setupRouter(svc, staff(4, 9)), http.MethodGet, "/api/v1/tasks?only_mine=true&status=open", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"meta"`)
}

func TestTaskHandler_Get(t *testing.T) {
	svc := &fakeTaskService{
		GetFn: func(ctx context.Context, companyID, id uint) (task.TaskResponse, error) {
			assert.Equal(t, uint(4), companyID)
			return task.TaskResponse{}, taskerrors.ErrTaskNotFound
		},
	}

	w := do(setupRouter(svc, admin(4)), http.MethodGet, "/api/v1/tasks/77", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(setupRouter(svc, admin(4)), http.MethodGet, "/api/v1/tasks/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskHandler_UpdateAndClose(t *testing.T) {
	svc := &fakeTaskService{
		UpdateFn: func(ctx context.Context, p *access.Principal, id uint, req task.UpdateTaskRequest) (task.TaskResponse, error) {
			assert.True(t, req.AssignedToEmployeeID.Set)
			return task.TaskResponse{}, taskerrors.ErrCannotReassign
		},
		CloseFn: func(ctx context.Context, p *access.Principal, id uint) (task.TaskResponse, error) {
			if p.EmployeeID != nil && *p.EmployeeID == 9 {
				return task.TaskResponse{ID: id, Status: task.StatusClosed}, nil
			}
			return task.TaskResponse{}, taskerrors.ErrTaskForbidden
		},
	}

	w := do(setupRouter(svc, staff(4, 9)), http.MethodPut, "/api/v1/tasks/3", `{"assigned_to_employee_id":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(setupRouter(svc, staff(4, 9)), http.MethodPost, "/api/v1/tasks/3/close", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(setupRouter(svc, staff(4, 10)), http.MethodPost, "/api/v1/tasks/3/close", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
