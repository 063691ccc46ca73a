package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/api/transport"
	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	taskUC "github.com/fastygo/tasktracker/usecase/task"
)

// TaskService is the part of the task use case the handler drives.
type TaskService interface {
	CreateTask(ctx context.Context, in taskUC.CreateInput) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
}

type TaskHandler struct {
	baseHandler
	uc TaskService
}

func NewTaskHandler(uc TaskService, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /v1/get_tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskList(tasks))
}

// @Summary Create task
// @Tags tasks
// @Router /v1/create_task [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := req.Check(); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	created, err := h.uc.CreateTask(stdCtx, taskUC.CreateInput{
		Name:          req.Name,
		Description:   req.Description,
		CoordinatorID: req.Coordinator,
		AssigneeIDs:   req.Assignees,
		Status:        domain.TaskStatus(req.Status),
		Priority:      *req.Priority,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.CreateTaskResult{
		Description: transport.SuccessDescription,
		TaskUUID:    created.ID,
	})
}
