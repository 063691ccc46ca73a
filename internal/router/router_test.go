package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/internal/infrastructure/monitor"
	"github.com/fastygo/tasktracker/internal/middleware"
	authUC "github.com/fastygo/tasktracker/usecase/auth"
	taskUC "github.com/fastygo/tasktracker/usecase/task"
)

type stubAuth struct{}

func (stubAuth) Login(context.Context, string, string) (*authUC.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (stubAuth) Logout(context.Context, string) error { return nil }

func (stubAuth) Authenticate(_ context.Context, token, role string) (*domain.Session, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return &domain.Session{UserID: "user-1", UserRole: role}, nil
}

type stubTasks struct{}

func (stubTasks) CreateTask(context.Context, taskUC.CreateInput) (*domain.Task, error) {
	return &domain.Task{ID: "task-1"}, nil
}

func (stubTasks) ListTasks(context.Context) ([]domain.Task, error) { return nil, nil }

type stubStatus struct{}

func (stubStatus) GetStatus() monitor.Status { return monitor.Status{PostgreSQL: true} }

func newTestRouter(opts Options) fasthttp.RequestHandler {
	opts.SessionGuard = middleware.SessionGuard(stubAuth{}, nil, nil)
	r := New(Handlers{
		Auth:   apiHandler.NewAuthHandler(stubAuth{}, nil, nil, apiHandler.CookieConfig{}),
		Task:   apiHandler.NewTaskHandler(stubTasks{}, nil, nil),
		Health: apiHandler.NewHealthHandler(stubStatus{}, nil, nil),
	}, opts)
	return r.Handler
}

func serve(h fasthttp.RequestHandler, method, path string, headers map[string]string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	for k, v := range headers {
		ctx.Request.Header.Set(k, v)
	}
	h(ctx)
	return ctx
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(Options{})

	cases := []struct {
		name    string
		method  string
		path    string
		headers map[string]string
		status  int
	}{
		{"health", fasthttp.MethodGet, "/health", nil, fasthttp.StatusOK},
		{"login", fasthttp.MethodPost, "/v1/login", nil, fasthttp.StatusBadRequest},
		{"logout without token", fasthttp.MethodDelete, "/v1/logout", nil, fasthttp.StatusUnauthorized},
		{"logout", fasthttp.MethodDelete, "/v1/logout", map[string]string{"authorization": "any"}, fasthttp.StatusOK},
		{"tasks without session", fasthttp.MethodGet, "/v1/get_tasks", nil, fasthttp.StatusUnauthorized},
		{"tasks with session", fasthttp.MethodGet, "/v1/get_tasks", map[string]string{"authorization": "good", "role": "user"}, fasthttp.StatusOK},
		{"tasks with foreign role", fasthttp.MethodGet, "/v1/get_tasks", map[string]string{"authorization": "good", "role": "guest"}, fasthttp.StatusForbidden},
		{"create without session", fasthttp.MethodPost, "/v1/create_task", nil, fasthttp.StatusUnauthorized},
		{"wrong method", fasthttp.MethodPost, "/v1/get_tasks", nil, fasthttp.StatusMethodNotAllowed},
		{"metrics disabled", fasthttp.MethodGet, "/metrics", nil, fasthttp.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := serve(h, tc.method, tc.path, tc.headers)
			assert.Equal(t, tc.status, ctx.Response.StatusCode())
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	h := middleware.Metrics(newTestRouter(Options{EnableMetrics: true}))

	serve(h, fasthttp.MethodGet, "/health", nil)
	ctx := serve(h, fasthttp.MethodGet, "/metrics", nil)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), `http_requests_total{method="GET",route="/health",status="200"}`)
}
