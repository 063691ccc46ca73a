package router

import (
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"github.com/valyala/fasthttp/pprofhandler"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
	"github.com/fastygo/tasktracker/internal/middleware"
)

// TaskRoles may create and list tasks.
var TaskRoles = []string{"admin", "user"}

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

type Options struct {
	// SessionGuard authenticates the caller before any protected handler runs.
	SessionGuard  middleware.Middleware
	EnableMetrics bool
	EnablePprof   bool
}

func New(handlers Handlers, opts Options) *router.Router {
	r := router.New()
	r.SaveMatchedRoutePath = true

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/v1/login", handlers.Auth.Login)
	r.DELETE("/v1/logout", handlers.Auth.Logout)

	// Protected routes
	protected := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		return middleware.Chain(h, opts.SessionGuard, middleware.RequireRole(TaskRoles...))
	}
	r.POST("/v1/create_task", protected(handlers.Task.CreateTask))
	r.GET("/v1/get_tasks", protected(handlers.Task.GetTasks))

	if opts.EnableMetrics {
		r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	}
	if opts.EnablePprof {
		r.ANY("/debug/pprof/{profile:*}", pprofhandler.PprofHandler)
	}

	return r
}
