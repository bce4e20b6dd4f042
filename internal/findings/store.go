// Package findings maintains the reporting-side projection of pins: one
// finding per linked pin, kept in the project's findings.json. The legacy
// global master list is supported read-only, through the migration helper.
package findings

import (
	"context"
	"fmt"
	"sort"

	"github.com/avoronin/facadekeeper/internal/common"
	"github.com/avoronin/facadekeeper/internal/logging"
	"github.com/avoronin/facadekeeper/internal/models"
	"github.com/avoronin/facadekeeper/internal/storage"
)

// Store reads and writes one project's findings.json.
type Store struct {
	backend storage.Backend
	project string
	log     logging.Logger
}

// New returns a finding store for the project.
func New(backend storage.Backend, project string, log logging.Logger) (*Store, error) {
	if !models.ValidProjectName(project) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidProject, project)
	}
	return &Store{backend: backend, project: project, log: log.With("project", project)}, nil
}

// Path is the storage key of the project's finding file.
func (s *Store) Path() string {
	return s.project + "/findings.json"
}

// Load returns the project's findings. Any read or parse failure is logged
// and degrades to an empty list; findings are a derived view and must never
// crash a caller.
func (s *Store) Load(ctx context.Context) []models.Finding {
	var list []models.Finding
	found, err := s.backend.GetJSON(ctx, s.Path(), &list)
	if err != nil {
		s.log.Error(ctx, "failed to load findings, treating as empty", "path", s.Path(), "error", err)
		return []models.Finding{}
	}
	if !found || list == nil {
		return []models.Finding{}
	}
	return list
}

// Save writes the finding list back.
func (s *Store) Save(ctx context.Context, list []models.Finding) error {
	if list == nil {
		list = []models.Finding{}
	}
	return s.backend.PutJSON(ctx, s.Path(), list)
}

// AddOrUpdateFromPin projects a pin into the finding store. A finding
// already linked to the pin (same pin_id) is updated in place; otherwise a
// new finding is created with the next id. The returned finding is the
// stored one.
func (s *Store) AddOrUpdateFromPin(ctx context.Context, pin models.Pin) (models.Finding, error) {
	list := s.Load(ctx)

	if pin.ID != 0 {
		for i := range list {
			if list[i].PinID == pin.ID {
				list[i].UpdateFromPin(pin)
				if err := s.Save(ctx, list); err != nil {
					return models.Finding{}, err
				}
				s.log.Debug(ctx, "updated finding from pin", "finding_id", list[i].ID, "pin_id", pin.ID)
				return list[i], nil
			}
		}
	}

	f := models.FindingFromPin(pin)
	f.ID = NextID(list)
	list = append(list, f)
	if err := s.Save(ctx, list); err != nil {
		return models.Finding{}, err
	}
	s.log.Debug(ctx, "created finding from pin", "finding_id", f.ID, "pin_id", pin.ID)
	return f, nil
}

// Delete removes a finding by id and reports whether it was present.
func (s *Store) Delete(ctx context.Context, findingID int) (bool, error) {
	list := s.Load(ctx)
	for i := range list {
		if list[i].ID == findingID {
			list = append(list[:i], list[i+1:]...)
			if err := s.Save(ctx, list); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	s.log.Warn(ctx, "finding not found for deletion", "finding_id", findingID)
	return false, nil
}

// GroupByStatus buckets the project's findings for the kanban board. Every
// enumerated status is present as a key even when empty, so the board can
// render empty columns; statuses outside the enumeration land in "Other".
func (s *Store) GroupByStatus(ctx context.Context) map[string][]models.Finding {
	buckets := make(map[string][]models.Finding, len(models.StatusOptions)+1)
	for _, status := range models.StatusOptions {
		buckets[status] = []models.Finding{}
	}
	buckets[models.StatusOther] = []models.Finding{}

	for _, f := range s.Load(ctx) {
		status := f.Status
		if status == "" {
			status = models.StatusOptions[0]
		}
		if _, ok := buckets[status]; ok {
			buckets[status] = append(buckets[status], f)
		} else {
			buckets[models.StatusOther] = append(buckets[models.StatusOther], f)
		}
	}

	return buckets
}

// NextID returns max(existing ids)+1, starting at 1.
func NextID(list []models.Finding) int {
	next := 0
	for _, f := range list {
		if f.ID > next {
			next = f.ID
		}
	}
	return next + 1
}

// PairCount is one row of the material/defect sidebar summary.
type PairCount struct {
	Material string
	Defect   string
	Count    int
}

// MaterialDefectSummary counts (material, defect) pairs across the given
// pins, skipping entries with either field empty. Rows are ordered by
// descending count, then alphabetically, ready for display.
func MaterialDefectSummary(list []models.Pin) []PairCount {
	type key struct{ material, defect string }
	counts := map[key]int{}
	for _, p := range list {
		if p.Material == "" || p.Defect == "" {
			continue
		}
		counts[key{p.Material, p.Defect}]++
	}

	rows := make([]PairCount, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, PairCount{Material: k.material, Defect: k.defect, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].Material != rows[j].Material {
			return rows[i].Material < rows[j].Material
		}
		return rows[i].Defect < rows[j].Defect
	})
	return rows
}
