package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/api/transport"
	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	"github.com/fastygo/tasktracker/pkg/logger"
)

// RoleHeader carries the role the caller claims for this request.
const RoleHeader = "role"

// Middleware wraps a fasthttp handler.
type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// Authenticator validates a session token for the claimed role.
type Authenticator interface {
	Authenticate(ctx context.Context, token, role string) (*domain.Session, error)
}

// SessionGuard admits requests that present an active, unexpired session whose
// owner holds the claimed role, and attaches that session to the request.
func SessionGuard(auth Authenticator, adapter *httpcontext.Adapter, log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			token := httpcontext.BearerToken(ctx)
			role := string(ctx.Request.Header.Peek(RoleHeader))

			stdCtx, cancel := adapter.Attach(ctx)
			session, err := auth.Authenticate(stdCtx, token, role)
			cancel()
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.WithRequestID(stdCtx, log).Error("session check failed", zap.Error(err))
				}
				reject(ctx, err)
				return
			}

			ctx.SetUserValue(httpcontext.SessionKey, session)
			next(ctx)
		}
	}
}

// RequireRole admits requests whose role header is in allowed.
func RequireRole(allowed ...string) Middleware {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[role] = struct{}{}
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			role := string(ctx.Request.Header.Peek(RoleHeader))
			if _, ok := set[role]; role == "" || !ok {
				reject(ctx, domain.ErrForbidden)
				return
			}
			next(ctx)
		}
	}
}

// Chain applies middlewares so that the first one runs first.
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

func reject(ctx *fasthttp.RequestCtx, err error) {
	status := http.StatusInternalServerError
	detail := "Internal server error"

	var dErr *domain.Error
	if errors.As(err, &dErr) {
		switch dErr.Code {
		case domain.ErrCodeUnauthorized:
			status, detail = http.StatusUnauthorized, dErr.Message
		case domain.ErrCodeForbidden:
			status, detail = http.StatusForbidden, dErr.Message
		}
	}

	body, _ := json.Marshal(transport.NewError(detail))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
