package models

import "encoding/json"

// Pin is one user-placed marker on one elevation drawing.
//
// The inline Chat field is the legacy message carrier: older projects stored
// messages directly on the pin, either as plain strings or as full message
// objects. New messages live in the per-pin chat store; ChatStore.MigrateInline
// moves legacy entries there and clears this field. Raw JSON keeps both legacy
// shapes loadable.
type Pin struct {
	ID        int               `json:"pin_id,omitempty"`
	Pos       *Position         `json:"pos,omitempty"`
	Name      string            `json:"name,omitempty"`
	Status    string            `json:"status,omitempty"`
	Material  string            `json:"material,omitempty"`
	Defect    string            `json:"defect,omitempty"`
	Elevation string            `json:"elevation,omitempty"`
	Chat      []json.RawMessage `json:"chat,omitempty"`
	FindingID int               `json:"finding_id,omitempty"`
}

// DefaultPinTitle is substituted for pins saved without a name.
const DefaultPinTitle = "Untitled Finding"

// Title returns the pin name, defaulting to DefaultPinTitle when empty.
func (p Pin) Title() string {
	if p.Name == "" {
		return DefaultPinTitle
	}
	return p.Name
}

// MergeFrom overlays the non-empty fields of candidate onto p. This is the
// duplicate-pin update rule: candidate values win when present, existing
// values are preserved otherwise.
func (p *Pin) MergeFrom(candidate Pin) {
	if candidate.Name != "" {
		p.Name = candidate.Name
	}
	if candidate.Status != "" {
		p.Status = candidate.Status
	}
	if candidate.Material != "" {
		p.Material = candidate.Material
	}
	if candidate.Defect != "" {
		p.Defect = candidate.Defect
	}
	if len(candidate.Chat) > 0 {
		p.Chat = candidate.Chat
	}
}
