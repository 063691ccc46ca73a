package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasktracker/internal/infrastructure/buffer"
)

type fakePinger struct{ err error }

func (p *fakePinger) Ping(context.Context) error { return p.err }

func TestMonitorReportsDependencies(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Enqueue(buffer.Item{Entity: buffer.EntitySession}))

	pg := &fakePinger{}
	m := New(pg, client, store, time.Hour, nil)
	m.Start()
	t.Cleanup(m.Stop)

	status := m.GetStatus()
	assert.True(t, status.PostgreSQL)
	assert.True(t, status.Redis)
	assert.True(t, status.RedisEnabled)
	assert.True(t, status.Buffer)
	assert.Equal(t, 1, status.BufferSize)
	assert.True(t, status.Healthy())
	assert.True(t, m.IsOnline())

	pg.err = errors.New("down")
	mr.Close()
	m.refresh()

	status = m.GetStatus()
	assert.False(t, status.PostgreSQL)
	assert.False(t, status.Redis)
	assert.False(t, status.Healthy())
	assert.False(t, m.IsOnline())
}

func TestMonitorWithoutRedis(t *testing.T) {
	m := New(&fakePinger{}, nil, nil, time.Hour, nil)
	m.refresh()

	status := m.GetStatus()
	assert.False(t, status.RedisEnabled)
	assert.False(t, status.Buffer)
	assert.True(t, status.Healthy())
	m.Stop()
	m.Stop()
}
