// Package pins owns the authoritative per-project pin list. Every read and
// write of pins.json goes through Store; identity assignment and the
// duplicate probe live here too.
package pins

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avoronin/facadekeeper/internal/common"
	"github.com/avoronin/facadekeeper/internal/logging"
	"github.com/avoronin/facadekeeper/internal/models"
	"github.com/avoronin/facadekeeper/internal/storage"
)

// idFloor is the highest id considered "unassigned": the first pin in a
// project receives idFloor+1 (101).
const idFloor = 100

// Store reads and writes one project's pins.json.
type Store struct {
	backend storage.Backend
	project string
	log     logging.Logger
}

// New returns a pin store for the project. The project name must be a
// non-empty, path-safe identifier.
func New(backend storage.Backend, project string, log logging.Logger) (*Store, error) {
	if !models.ValidProjectName(project) {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidProject, project)
	}
	return &Store{backend: backend, project: project, log: log.With("project", project)}, nil
}

// Path is the storage key of the project's pin file.
func (s *Store) Path() string {
	return s.project + "/pins.json"
}

// Load returns the project's pins. An absent file is initialized to an empty
// list; content that fails structural validation is reset to an empty list
// and logged instead of surfacing to the caller, so a corrupt file can never
// take down the UI.
func (s *Store) Load(ctx context.Context) ([]models.Pin, error) {
	raw, found, err := s.backend.GetBytes(ctx, s.Path())
	if err != nil {
		return nil, err
	}

	if !found {
		if err := s.backend.PutJSON(ctx, s.Path(), []models.Pin{}); err != nil {
			return nil, err
		}
		return []models.Pin{}, nil
	}

	pins, verr := decodePins(raw)
	if verr != nil {
		s.log.Error(ctx, "invalid pins file, resetting to empty list", "path", s.Path(), "error", verr)
		if err := s.backend.PutJSON(ctx, s.Path(), []models.Pin{}); err != nil {
			return nil, err
		}
		return []models.Pin{}, nil
	}

	return pins, nil
}

// Save writes the pin list back, positions serialized as {"x","y"} records.
func (s *Store) Save(ctx context.Context, list []models.Pin) error {
	if list == nil {
		list = []models.Pin{}
	}
	return s.backend.PutJSON(ctx, s.Path(), list)
}

// Create validates the candidate, assigns the next pin id when the candidate
// carries none, stores the pin and returns it. elevation, when non-empty,
// overrides the pin's own elevation field.
func (s *Store) Create(ctx context.Context, pin models.Pin, elevation string) (models.Pin, error) {
	if err := validateRequired(pin); err != nil {
		return models.Pin{}, err
	}

	list, err := s.Load(ctx)
	if err != nil {
		return models.Pin{}, err
	}

	if pin.ID == 0 {
		pin.ID = NextID(list)
	}
	if elevation != "" {
		pin.Elevation = elevation
	}

	list = append(list, pin)
	if err := s.Save(ctx, list); err != nil {
		return models.Pin{}, err
	}

	return pin, nil
}

// Update replaces the stored pin carrying the same id.
func (s *Store) Update(ctx context.Context, pin models.Pin) error {
	list, err := s.Load(ctx)
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == pin.ID {
			list[i] = pin
			return s.Save(ctx, list)
		}
	}
	return fmt.Errorf("%w: pin %d", common.ErrNotFound, pin.ID)
}

// NextID returns max(existing ids)+1 with a floor of 100, so the first pin
// of a project gets 101 and gaps from manual edits are never reused
// downwards.
func NextID(list []models.Pin) int {
	next := idFloor
	for _, p := range list {
		if p.ID > next {
			next = p.ID
		}
	}
	return next + 1
}

// FindAt returns the index of the pin occupying the given normalized
// position on the given elevation, or -1. Positions match within the
// per-axis tolerance; elevations match by exact string equality.
func FindAt(list []models.Pin, pos models.Position, elevation string) int {
	for i, p := range list {
		if p.Pos == nil {
			continue
		}
		if p.Elevation == elevation && p.Pos.Near(pos) {
			return i
		}
	}
	return -1
}

// validateRequired checks the fields a pin cannot be stored without,
// reporting the first missing one.
func validateRequired(pin models.Pin) error {
	if pin.Pos == nil {
		return fmt.Errorf("%w: %q", common.ErrMissingField, "pos")
	}
	if pin.Name == "" {
		return fmt.Errorf("%w: %q", common.ErrMissingField, "name")
	}
	if pin.Defect == "" {
		return fmt.Errorf("%w: %q", common.ErrMissingField, "defect")
	}
	if pin.Material == "" {
		return fmt.Errorf("%w: %q", common.ErrMissingField, "material")
	}
	return nil
}

// posProbe mirrors the structural validation of the desktop app: every pin
// element must carry a pos object with numeric x and y.
type posProbe struct {
	Pos *struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	} `json:"pos"`
}

func decodePins(raw []byte) ([]models.Pin, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("pins file must be a list: %w", err)
	}

	for i, el := range elements {
		var probe posProbe
		if err := json.Unmarshal(el, &probe); err != nil {
			return nil, fmt.Errorf("pin %d is not an object: %w", i, err)
		}
		if probe.Pos == nil || probe.Pos.X == nil || probe.Pos.Y == nil {
			return nil, fmt.Errorf("pin %d has no pos with numeric x/y", i)
		}
	}

	var list []models.Pin
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}
