package storage

import (
	"context"
	"time"

	"github.com/avoronin/facadekeeper/internal/logging"
)

// Mirror is a local-first Backend: every operation runs against the primary
// backend, and writes are then replayed best-effort against the mirror
// (typically S3). A mirror failure is logged and never fails the operation,
// and is never retried; reads always come from the primary.
type Mirror struct {
	primary Backend
	mirror  Backend
	log     logging.Logger
	timeout time.Duration
}

// NewMirror wraps primary with best-effort replication to mirror. timeout
// bounds each mirror call so a slow or unreachable endpoint cannot stall a
// local save; zero means no bound.
func NewMirror(primary, mirror Backend, log logging.Logger, timeout time.Duration) *Mirror {
	return &Mirror{primary: primary, mirror: mirror, log: log, timeout: timeout}
}

func (m *Mirror) mirrorCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.timeout)
}

func (m *Mirror) PutJSON(ctx context.Context, path string, v any) error {
	if err := m.primary.PutJSON(ctx, path, v); err != nil {
		return err
	}
	mctx, cancel := m.mirrorCtx(ctx)
	defer cancel()
	if err := m.mirror.PutJSON(mctx, path, v); err != nil {
		m.log.Warn(ctx, "cloud mirror write failed", "path", path, "error", err)
	}
	return nil
}

func (m *Mirror) GetJSON(ctx context.Context, path string, out any) (bool, error) {
	return m.primary.GetJSON(ctx, path, out)
}

func (m *Mirror) PutBytes(ctx context.Context, path string, data []byte) error {
	if err := m.primary.PutBytes(ctx, path, data); err != nil {
		return err
	}
	mctx, cancel := m.mirrorCtx(ctx)
	defer cancel()
	if err := m.mirror.PutBytes(mctx, path, data); err != nil {
		m.log.Warn(ctx, "cloud mirror write failed", "path", path, "error", err)
	}
	return nil
}

func (m *Mirror) GetBytes(ctx context.Context, path string) ([]byte, bool, error) {
	return m.primary.GetBytes(ctx, path)
}

func (m *Mirror) Exists(ctx context.Context, path string) (bool, error) {
	return m.primary.Exists(ctx, path)
}

func (m *Mirror) Delete(ctx context.Context, path string) error {
	if err := m.primary.Delete(ctx, path); err != nil {
		return err
	}
	mctx, cancel := m.mirrorCtx(ctx)
	defer cancel()
	if err := m.mirror.Delete(mctx, path); err != nil {
		m.log.Warn(ctx, "cloud mirror delete failed", "path", path, "error", err)
	}
	return nil
}

func (m *Mirror) ListPrefix(ctx context.Context, prefix string) ([]string, error) {
	return m.primary.ListPrefix(ctx, prefix)
}
