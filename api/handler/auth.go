package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/api/transport"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
	authUC "github.com/fastygo/tasktracker/usecase/auth"
)

const (
	TokenCookie = "token"
	RoleCookie  = "role"
)

// AuthService is the part of the auth use case the handler drives.
type AuthService interface {
	Login(ctx context.Context, username, hashedPassword string) (*authUC.LoginResult, error)
	Logout(ctx context.Context, token string) error
}

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Path     string
	Domain   string
	Secure   bool
	HTTPOnly bool
	// SameSite is one of lax, strict, none. Anything else means lax.
	SameSite string
}

type AuthHandler struct {
	baseHandler
	uc      AuthService
	cookies CookieConfig
}

func NewAuthHandler(uc AuthService, adapter *httpcontext.Adapter, logger *zap.Logger, cookies CookieConfig) *AuthHandler {
	if cookies.Path == "" {
		cookies.Path = "/"
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		cookies:     cookies,
	}
}

// @Summary Open a session
// @Tags auth
// @Router /v1/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := req.Normalize(); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	result, err := h.uc.Login(stdCtx, req.Username, req.HashedPassword)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	h.setCookie(ctx, TokenCookie, result.Token)
	h.setCookie(ctx, RoleCookie, result.Role)
	h.respondSuccess(ctx, http.StatusOK, transport.Result{Description: transport.SuccessDescription})
}

// @Summary Close the current session
// @Tags auth
// @Router /v1/logout [delete]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	token := httpcontext.BearerToken(ctx)
	if token == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError("No authorization token provided"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, token); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	ctx.Response.Header.DelClientCookie(TokenCookie)
	ctx.Response.Header.DelClientCookie(RoleCookie)
	h.respondSuccess(ctx, http.StatusOK, transport.Result{Description: transport.SuccessDescription})
}

// setCookie writes a browser-session cookie. The server-side session slides on
// every request, so the cookie carries no expiry of its own.
func (h *AuthHandler) setCookie(ctx *fasthttp.RequestCtx, name, value string) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(name)
	cookie.SetValue(value)
	cookie.SetPath(h.cookies.Path)
	if h.cookies.Domain != "" {
		cookie.SetDomain(h.cookies.Domain)
	}
	cookie.SetSecure(h.cookies.Secure)
	cookie.SetHTTPOnly(h.cookies.HTTPOnly)
	cookie.SetSameSite(sameSite(h.cookies.SameSite))
	ctx.Response.Header.SetCookie(cookie)
}

func sameSite(mode string) fasthttp.CookieSameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return fasthttp.CookieSameSiteStrictMode
	case "none":
		return fasthttp.CookieSameSiteNoneMode
	default:
		return fasthttp.CookieSameSiteLaxMode
	}
}
