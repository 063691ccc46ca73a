package middleware

import (
	"github.com/valyala/fasthttp"
)

// CORS allows credentialed cross-origin requests from the listed origins and
// answers preflight requests directly.
func CORS(allowedOrigins []string) Middleware {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	wildcard := false
	for _, origin := range allowedOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek(fasthttp.HeaderOrigin))
			_, ok := allowed[origin]
			if origin != "" && (ok || wildcard) {
				h := &ctx.Response.Header
				// credentials forbid "*", so the origin is always echoed
				h.Set(fasthttp.HeaderAccessControlAllowOrigin, origin)
				h.Set(fasthttp.HeaderAccessControlAllowCredentials, "true")
				h.Add(fasthttp.HeaderVary, fasthttp.HeaderOrigin)

				if ctx.IsOptions() {
					h.Set(fasthttp.HeaderAccessControlAllowMethods, "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					if requested := ctx.Request.Header.Peek(fasthttp.HeaderAccessControlRequestHeaders); len(requested) > 0 {
						h.SetBytesV(fasthttp.HeaderAccessControlAllowHeaders, requested)
					} else {
						h.Set(fasthttp.HeaderAccessControlAllowHeaders, "*")
					}
					h.Set(fasthttp.HeaderAccessControlMaxAge, "600")
				}
			}

			if ctx.IsOptions() && len(ctx.Request.Header.Peek(fasthttp.HeaderAccessControlRequestMethod)) > 0 {
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}
			next(ctx)
		}
	}
}

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		h := &ctx.Response.Header
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next(ctx)
	}
}
