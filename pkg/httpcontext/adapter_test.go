package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasktracker/domain"
	appLogger "github.com/fastygo/tasktracker/pkg/logger"
)

func TestAttachReusesRequestID(t *testing.T) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("X-Request-ID", "req-42")

	stdCtx, cancel := NewAdapter(time.Second).Attach(&ctx)
	defer cancel()

	assert.Equal(t, "req-42", appLogger.RequestIDFromContext(stdCtx))
	assert.Equal(t, "req-42", string(ctx.Response.Header.Peek("X-Request-ID")))

	deadline, ok := stdCtx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
}

func TestRequestIDIsMintedOnce(t *testing.T) {
	var ctx fasthttp.RequestCtx

	first := RequestID(&ctx)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, RequestID(&ctx))
}

func TestSessionUserValue(t *testing.T) {
	var ctx fasthttp.RequestCtx
	assert.Nil(t, Session(&ctx))

	session := &domain.Session{UserID: "user-1"}
	ctx.SetUserValue(SessionKey, session)
	assert.Same(t, session, Session(&ctx))
}

func TestBearerToken(t *testing.T) {
	var ctx fasthttp.RequestCtx
	assert.Empty(t, BearerToken(&ctx))

	ctx.Request.Header.Set("authorization", "raw-token")
	assert.Equal(t, "raw-token", BearerToken(&ctx))

	ctx.Request.Header.Set("authorization", "Bearer  abc.def ")
	assert.Equal(t, "abc.def", BearerToken(&ctx))
}
