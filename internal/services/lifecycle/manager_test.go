package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownRunsHooksInReverseOrder(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	m.Register("db", Stopper(func() { order = append(order, "db") }))
	m.Register("cache", Closer(func() error { order = append(order, "cache"); return nil }))
	m.Register("http", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		order = append(order, "http")
		return nil
	})

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http", "cache", "db"}, order)
}

func TestShutdownJoinsErrorsAndRunsOnce(t *testing.T) {
	m := New(time.Second, nil)
	boom := errors.New("boom")
	calls := 0
	m.Register("a", func(context.Context) error { calls++; return boom })
	m.Register("b", func(context.Context) error { calls++; return nil })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, m.Shutdown(context.Background()), boom)
	assert.Equal(t, 2, calls)
}

func TestListenFollowsParent(t *testing.T) {
	m := New(0, nil)
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := m.Listen(parent)
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("listen context not cancelled")
	}
}
