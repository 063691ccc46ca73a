package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/pkg/httpcontext"
)

// RequestLogger writes one access log entry per request. It also pins the
// request ID so handlers and the response share it.
func RequestLogger(log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			requestID := httpcontext.RequestID(ctx)

			next(ctx)

			ctx.Response.Header.Set("X-Request-ID", requestID)
			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_ip", ctx.RemoteIP().String()),
			}
			if session := httpcontext.Session(ctx); session != nil {
				fields = append(fields, zap.String("user_id", session.UserID))
			}

			switch status := ctx.Response.StatusCode(); {
			case status >= fasthttp.StatusInternalServerError:
				log.Error("request completed", fields...)
			case status >= fasthttp.StatusBadRequest:
				log.Warn("request completed", fields...)
			default:
				log.Info("request completed", fields...)
			}
		}
	}
}

// Recover turns a panicking handler into a 500 response.
func Recover(log *zap.Logger) Middleware {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("handler panic",
						zap.Any("panic", rec),
						zap.ByteString("path", ctx.Path()),
						zap.Stack("stack"))
					reject(ctx, nil)
				}
			}()
			next(ctx)
		}
	}
}
