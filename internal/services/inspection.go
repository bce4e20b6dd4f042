// Package services ties the per-project stores together. InspectionService
// is the single writer for a project: every mutation the UI can trigger
// (pin placed, chat sent, migration run) enters through it and executes
// synchronously against fresh state.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoronin/facadekeeper/internal/chat"
	"github.com/avoronin/facadekeeper/internal/common"
	"github.com/avoronin/facadekeeper/internal/findings"
	"github.com/avoronin/facadekeeper/internal/logging"
	"github.com/avoronin/facadekeeper/internal/models"
	"github.com/avoronin/facadekeeper/internal/pins"
	"github.com/avoronin/facadekeeper/internal/storage"
)

// Test seams.
var (
	timeNow   = time.Now
	newExport = uuid.NewString
)

// InspectionService owns one project's stores.
type InspectionService struct {
	backend  storage.Backend
	project  string
	pins     *pins.Store
	findings *findings.Store
	legacy   *findings.LegacyStore
	chat     *chat.Store
	log      logging.Logger
}

// NewInspection builds the service and its stores for a project. The project
// name is validated once here; the stores repeat the check but can no longer
// fail on it.
func NewInspection(backend storage.Backend, project string, log logging.Logger) (*InspectionService, error) {
	if !models.ValidProjectName(project) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidProject, project)
	}

	pinStore, err := pins.New(backend, project, log)
	if err != nil {
		return nil, err
	}
	findingStore, err := findings.New(backend, project, log)
	if err != nil {
		return nil, err
	}
	chatStore, err := chat.New(backend, project, log)
	if err != nil {
		return nil, err
	}

	return &InspectionService{
		backend:  backend,
		project:  project,
		pins:     pinStore,
		findings: findingStore,
		legacy:   findings.NewLegacy(backend, log),
		chat:     chatStore,
		log:      log.With("project", project),
	}, nil
}

// Project returns the project name the service is bound to.
func (s *InspectionService) Project() string {
	return s.project
}

// UpsertResult reports what UpsertAndLink did: the stored pin, its linked
// finding, and whether a new pin was created (false means an existing pin at
// the same spot absorbed the candidate).
type UpsertResult struct {
	Pin     models.Pin
	Finding models.Finding
	Created bool
}

// UpsertAndLink places a pin. When another pin already occupies the same
// position on the same elevation, the candidate's non-empty fields are
// merged into it instead of creating a second marker. A candidate that
// carries a pin id is an existing pin being moved or edited and has its
// record updated in place, keeping its id. Either way the linked finding is
// brought up to date and its id recorded on the pin. elevation, when
// non-empty, overrides the candidate's own elevation field.
//
// Calling this twice with the same position and elevation yields one pin and
// one finding.
func (s *InspectionService) UpsertAndLink(ctx context.Context, candidate models.Pin, elevation string) (UpsertResult, error) {
	if candidate.Pos == nil {
		return UpsertResult{}, fmt.Errorf("%w: %q", common.ErrMissingField, "pos")
	}
	if elevation != "" {
		candidate.Elevation = elevation
	}

	list, err := s.pins.Load(ctx)
	if err != nil {
		return UpsertResult{}, err
	}

	if i := pins.FindAt(list, *candidate.Pos, candidate.Elevation); i >= 0 {
		list[i].MergeFrom(candidate)
		if err := s.pins.Save(ctx, list); err != nil {
			return UpsertResult{}, err
		}

		pin, f, err := s.linkFinding(ctx, list, i)
		if err != nil {
			return UpsertResult{}, err
		}
		s.log.Info(ctx, "merged into existing pin", "pin_id", pin.ID, "finding_id", f.ID)
		return UpsertResult{Pin: pin, Finding: f, Created: false}, nil
	}

	if candidate.ID != 0 {
		for i := range list {
			if list[i].ID != candidate.ID {
				continue
			}
			// The pin moved to a free spot: replace its record, never
			// append a second marker for the same id.
			if candidate.FindingID == 0 {
				candidate.FindingID = list[i].FindingID
			}
			list[i] = candidate
			if err := s.pins.Save(ctx, list); err != nil {
				return UpsertResult{}, err
			}

			pin, f, err := s.linkFinding(ctx, list, i)
			if err != nil {
				return UpsertResult{}, err
			}
			s.log.Info(ctx, "pin moved", "pin_id", pin.ID, "finding_id", f.ID)
			return UpsertResult{Pin: pin, Finding: f, Created: false}, nil
		}
	}

	created, err := s.pins.Create(ctx, candidate, "")
	if err != nil {
		return UpsertResult{}, err
	}

	f, err := s.findings.AddOrUpdateFromPin(ctx, created)
	if err != nil {
		return UpsertResult{}, err
	}
	created.FindingID = f.ID
	if err := s.pins.Update(ctx, created); err != nil {
		return UpsertResult{}, err
	}

	s.log.Info(ctx, "pin created", "pin_id", created.ID, "finding_id", f.ID)
	return UpsertResult{Pin: created, Finding: f, Created: true}, nil
}

// linkFinding projects list[i] into the finding store and writes the finding
// id back onto the pin when it changed.
func (s *InspectionService) linkFinding(ctx context.Context, list []models.Pin, i int) (models.Pin, models.Finding, error) {
	f, err := s.findings.AddOrUpdateFromPin(ctx, list[i])
	if err != nil {
		return models.Pin{}, models.Finding{}, err
	}
	if list[i].FindingID != f.ID {
		list[i].FindingID = f.ID
		if err := s.pins.Save(ctx, list); err != nil {
			return models.Pin{}, models.Finding{}, err
		}
	}
	return list[i], f, nil
}

// Pins returns the project's pin list.
func (s *InspectionService) Pins(ctx context.Context) ([]models.Pin, error) {
	return s.pins.Load(ctx)
}

// Board returns the findings bucketed by status for the kanban view.
func (s *InspectionService) Board(ctx context.Context) map[string][]models.Finding {
	return s.findings.GroupByStatus(ctx)
}

// Summary returns the (material, defect) counts over the project's pins.
func (s *InspectionService) Summary(ctx context.Context) ([]findings.PairCount, error) {
	list, err := s.pins.Load(ctx)
	if err != nil {
		return nil, err
	}
	return findings.MaterialDefectSummary(list), nil
}

// ChatLog returns a pin's messages.
func (s *InspectionService) ChatLog(ctx context.Context, pinID int) []models.Message {
	return s.chat.Load(ctx, pinID)
}

// Say appends a text message to a pin's chat.
func (s *InspectionService) Say(ctx context.Context, pinID int, text, author string) error {
	return s.chat.AppendText(ctx, pinID, text, author)
}

// AttachPhoto copies the photo into project storage and records it on the
// pin's chat. Returns the stored path.
func (s *InspectionService) AttachPhoto(ctx context.Context, pinID int, srcPath, caption, author string) (string, error) {
	return s.chat.AppendPhoto(ctx, pinID, srcPath, caption, author)
}

// DeleteChat removes a pin's chat history including its photos.
func (s *InspectionService) DeleteChat(ctx context.Context, pinID int) error {
	return s.chat.DeleteAll(ctx, pinID)
}

// DeleteFinding removes one finding by id, reporting whether it existed.
func (s *InspectionService) DeleteFinding(ctx context.Context, findingID int) (bool, error) {
	return s.findings.Delete(ctx, findingID)
}

// MigrationReport counts what a Migrate run moved.
type MigrationReport struct {
	LegacyFindings int
	InlineChats    int
}

// Migrate runs both upgrade paths for old projects: findings from the
// global master list, and inline chat arrays into per-pin log files. Both
// are idempotent, so Migrate can run on every project open.
func (s *InspectionService) Migrate(ctx context.Context) (MigrationReport, error) {
	list, err := s.pins.Load(ctx)
	if err != nil {
		return MigrationReport{}, err
	}

	var report MigrationReport
	report.LegacyFindings, err = s.findings.MigrateLegacy(ctx, s.legacy, list)
	if err != nil {
		return report, err
	}

	updated, migrated, changed, err := s.chat.MigrateInline(ctx, list)
	if err != nil {
		return report, err
	}
	report.InlineChats = migrated
	if changed {
		if err := s.pins.Save(ctx, updated); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Report is the project overview shown by the stats command.
type Report struct {
	Project  string     `json:"project"`
	Pins     int        `json:"pins"`
	Findings int        `json:"findings"`
	Chat     chat.Stats `json:"chat"`
}

// Stats aggregates the project counters.
func (s *InspectionService) Stats(ctx context.Context) (Report, error) {
	list, err := s.pins.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	st, err := s.chat.Stats(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Project:  s.project,
		Pins:     len(list),
		Findings: len(s.findings.Load(ctx)),
		Chat:     st,
	}, nil
}

// snapshot is the export payload: everything needed to rebuild or review
// the project state at a point in time.
type snapshot struct {
	Project    string           `json:"project"`
	ExportedAt string           `json:"exported_at"`
	Pins       []models.Pin     `json:"pins"`
	Findings   []models.Finding `json:"findings"`
	Chat       chat.Stats       `json:"chat"`
}

// Export writes a dated snapshot of the project under exports/ with a
// random object key and returns the key.
func (s *InspectionService) Export(ctx context.Context) (string, error) {
	list, err := s.pins.Load(ctx)
	if err != nil {
		return "", err
	}
	st, err := s.chat.Stats(ctx)
	if err != nil {
		return "", err
	}

	now := timeNow().UTC()
	key := fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json",
		s.project, now.Year(), now.Month(), now.Day(), newExport())

	snap := snapshot{
		Project:    s.project,
		ExportedAt: now.Format(time.RFC3339),
		Pins:       list,
		Findings:   s.findings.Load(ctx),
		Chat:       st,
	}
	if err := s.backend.PutJSON(ctx, key, snap); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	s.log.Info(ctx, "project exported", "key", key)
	return key, nil
}
