package config

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func TestGateway_ConcurrentFirstConnectOpensOnce(t *testing.T) {
	var opens int32
	path := filepath.Join(t.TempDir(), "gateway.db")

	gw := NewGatewayWithOpener(func(ctx context.Context) (*gorm.DB, error) {
		atomic.AddInt32(&opens, 1)
		// Widen the window so callers pile up behind the first attempt
		time.Sleep(50 * time.Millisecond)
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	})
	t.Cleanup(func() { _ = gw.Close() })

	const callers = 16
	handles := make([]*gorm.DB, callers)

	var g errgroup.Group
	for i := 0; i < callers; i++ {
		i := i
		g.Go(func() error {
			db, err := gw.Connect(context.Background())
			handles[i] = db
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
	for _, h := range handles {
		assert.Same(t, handles[0], h)
	}
	assert.NoError(t, gw.HealthCheck(context.Background()))
}

func TestGateway_FailureIsSticky(t *testing.T) {
	var opens int32
	boom := errors.New("boom")
	gw := NewGatewayWithOpener(func(ctx context.Context) (*gorm.DB, error) {
		atomic.AddInt32(&opens, 1)
		return nil, boom
	})

	_, err := gw.Connect(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = gw.Connect(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), atomic.LoadInt32(&opens))
	assert.Error(t, gw.HealthCheck(context.Background()))
}

func TestGateway_MissingDSN(t *testing.T) {
	gw := NewGateway(&Config{AppMode: "dev"})
	_, err := gw.Connect(context.Background())
	assert.ErrorIs(t, err, ErrMissingDSN)
}
