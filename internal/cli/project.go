package cli

import (
	"context"

	"github.com/avoronin/facadekeeper/internal/services"
	"github.com/avoronin/facadekeeper/internal/storage"
)

// Open binds the app to a project, creating its store files on first use,
// and runs the idempotent data migrations so old projects come up in the
// current layout.
func (a *App) Open(ctx context.Context, name string) error {
	svc, err := services.NewInspection(a.backend, name, a.log)
	if err != nil {
		return err
	}

	report, err := svc.Migrate(ctx)
	if err != nil {
		return err
	}
	if report.LegacyFindings > 0 || report.InlineChats > 0 {
		printfFn("Migrated %d legacy findings, %d inline chats\n", report.LegacyFindings, report.InlineChats)
	}

	a.svc = svc
	printlnFn("Opened project:", name)
	return nil
}

// Status reports the backend configuration and the open project.
func (a *App) Status(ctx context.Context) error {
	printfFn("Backend:      %s\n", a.config.Backend)
	if l, ok := a.backend.(*storage.Local); ok {
		printfFn("Storage dir:  %s\n", l.Root())
	}
	printfFn("Mirror to S3: %v\n", a.config.MirrorToS3)
	if a.svc == nil {
		printlnFn("Project:      (none)")
		return nil
	}
	printfFn("Project:      %s\n", a.svc.Project())

	report, err := a.svc.Stats(ctx)
	if err != nil {
		return err
	}
	printfFn("Pins:         %d, findings: %d\n", report.Pins, report.Findings)
	return nil
}

// Migrate re-runs the legacy migrations on demand.
func (a *App) Migrate(ctx context.Context) error {
	report, err := a.svc.Migrate(ctx)
	if err != nil {
		return err
	}
	printfFn("Migrated %d legacy findings, %d inline chats\n", report.LegacyFindings, report.InlineChats)
	return nil
}

// Export writes a dated snapshot of the project and prints its key.
func (a *App) Export(ctx context.Context) error {
	key, err := a.svc.Export(ctx)
	if err != nil {
		return err
	}
	printlnFn("Exported:", key)
	return nil
}

// Stats prints the project counters.
func (a *App) Stats(ctx context.Context) error {
	report, err := a.svc.Stats(ctx)
	if err != nil {
		return err
	}
	printfFn("Pins:                %d\n", report.Pins)
	printfFn("Findings:            %d\n", report.Findings)
	printfFn("Pins with chat:      %d\n", report.Chat.PinsWithChat)
	printfFn("Text messages:       %d\n", report.Chat.TotalTextMessages)
	printfFn("Photos:              %d\n", report.Chat.TotalPhotos)
	printfFn("Photo files on disk: %d\n", report.Chat.PhotoFilesOnDisk)
	return nil
}
