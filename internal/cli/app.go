package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/avoronin/facadekeeper/internal/common"
	"github.com/avoronin/facadekeeper/internal/config"
	"github.com/avoronin/facadekeeper/internal/logging"
	"github.com/avoronin/facadekeeper/internal/services"
	"github.com/avoronin/facadekeeper/internal/storage"
)

// App wires the configured storage backend to the per-project inspection
// service and drives both from a REPL. svc is nil until a project is opened.
type App struct {
	config  *config.Config
	backend storage.Backend
	svc     *services.InspectionService
	log     logging.Logger
	reader  *bufio.Reader
}

// NewApp builds the storage backend selected by the config and returns the
// application. With the s3 backend (or mirroring) and no secret key in the
// config, the key is prompted for without echo.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	backend, err := buildBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &App{config: cfg, backend: backend, log: log, reader: bufio.NewReader(os.Stdin)}, nil
}

func buildBackend(ctx context.Context, cfg *config.Config, log logging.Logger) (storage.Backend, error) {
	switch cfg.Backend {
	case config.BackendLocal:
		local, err := storage.NewLocal(cfg.StorageDir)
		if err != nil {
			return nil, err
		}
		if !cfg.MirrorToS3 {
			return local, nil
		}
		remote, err := newS3Backend(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewMirror(local, remote, log, cfg.CloudTimeout), nil

	case config.BackendS3:
		return newS3Backend(ctx, cfg)

	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.Backend)
	}
}

func newS3Backend(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	secret := cfg.S3SecretKey
	if secret == "" {
		key, err := GetSecret(os.Stdout, "Enter S3 secret key: ")
		if err != nil {
			return nil, err
		}
		secret = string(key)
	}
	return storage.NewS3(ctx, storage.S3Config{
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: secret,
	})
}

func (a *App) hasProject() bool {
	return a.svc != nil
}

func (a *App) getStatus() string {
	if a.svc == nil {
		return "(no project)"
	}
	return fmt.Sprintf("(%s)", a.svc.Project())
}

// Run starts the REPL on stdin and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to FacadeKeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
