package findings

import (
	"context"

	"github.com/avoronin/facadekeeper/internal/logging"
	"github.com/avoronin/facadekeeper/internal/models"
	"github.com/avoronin/facadekeeper/internal/storage"
)

// LegacyPath is the storage key of the old global finding list that predates
// per-project stores. It is read-only: nothing writes it anymore.
const LegacyPath = "master_findings.json"

// LegacyStore reads the global master_findings.json left behind by older
// versions of the application.
type LegacyStore struct {
	backend storage.Backend
	log     logging.Logger
}

func NewLegacy(backend storage.Backend, log logging.Logger) *LegacyStore {
	return &LegacyStore{backend: backend, log: log}
}

// Load returns the legacy findings, or an empty list when the file is
// absent or unreadable.
func (s *LegacyStore) Load(ctx context.Context) []models.Finding {
	var list []models.Finding
	found, err := s.backend.GetJSON(ctx, LegacyPath, &list)
	if err != nil {
		s.log.Error(ctx, "failed to load legacy master findings", "path", LegacyPath, "error", err)
		return []models.Finding{}
	}
	if !found || list == nil {
		return []models.Finding{}
	}
	return list
}

// MigrateLegacy transfers legacy findings that belong to this project —
// those whose pin_id matches a pin in the given list — into the project
// store, keyed by pin_id so that re-running never duplicates an entry.
// Returns the number of findings newly copied into the project store.
func (s *Store) MigrateLegacy(ctx context.Context, legacy *LegacyStore, pinList []models.Pin) (int, error) {
	pinIDs := make(map[int]struct{}, len(pinList))
	for _, p := range pinList {
		if p.ID != 0 {
			pinIDs[p.ID] = struct{}{}
		}
	}
	if len(pinIDs) == 0 {
		s.log.Info(ctx, "no pins in project, skipping legacy migration")
		return 0, nil
	}

	local := s.Load(ctx)
	byPin := make(map[int]int, len(local)) // pin_id -> index in local
	for i, f := range local {
		if f.PinID != 0 {
			byPin[f.PinID] = i
		}
	}

	migrated := 0
	for _, lf := range legacy.Load(ctx) {
		if lf.PinID == 0 {
			continue
		}
		if _, ours := pinIDs[lf.PinID]; !ours {
			continue
		}
		if _, ok := byPin[lf.PinID]; ok {
			// Already migrated on an earlier run; the local copy may carry
			// newer edits and wins.
			continue
		}

		lf.ID = NextID(local)
		local = append(local, lf)
		byPin[lf.PinID] = len(local) - 1
		migrated++
	}

	if migrated > 0 {
		if err := s.Save(ctx, local); err != nil {
			return 0, err
		}
	}
	s.log.Info(ctx, "legacy findings migration finished", "migrated", migrated)
	return migrated, nil
}
