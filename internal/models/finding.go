package models

// Finding is the reporting-oriented projection of a pin. It is linked 1:1
// with its pin via PinID (finding → pin) and Pin.FindingID (pin → finding).
//
// Title, Status, Material, Defect and Elevation are a read-side cache over
// the linked pin and must stay re-derivable from it; the remaining fields
// (color, category, assignee, drop, dates, photos) exist only on the
// finding.
type Finding struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Status    string   `json:"status"`
	Color     string   `json:"color"`
	Category  string   `json:"category"`
	Assignee  string   `json:"assignee"`
	Drop      string   `json:"drop"`
	StartDate *Date    `json:"start_date"`
	EndDate   *Date    `json:"end_date"`
	Photos    []string `json:"photos"`
	Material  string   `json:"material"`
	Defect    string   `json:"defect"`
	Elevation string   `json:"elevation"`
	PinID     int      `json:"pin_id,omitempty"`
}

// DefaultFindingColor is assigned to findings created from pins that carry
// no color of their own.
const DefaultFindingColor = "#d32f2f"

// DefaultFindingCategory is the category for findings projected from pins.
const DefaultFindingCategory = "Defect"

// FindingFromPin builds a new (unsaved, id-less) finding from a pin,
// applying the projection defaults: status validated against the
// enumeration, title defaulting, report-only fields empty.
func FindingFromPin(pin Pin) Finding {
	return Finding{
		Title:     pin.Title(),
		Status:    NormalizeStatus(pin.Status),
		Color:     DefaultFindingColor,
		Category:  DefaultFindingCategory,
		Photos:    []string{},
		Material:  pin.Material,
		Defect:    pin.Defect,
		Elevation: pin.Elevation,
		PinID:     pin.ID,
	}
}

// UpdateFromPin refreshes the pin-derived fields on an existing finding.
// Empty candidate fields leave the current values in place.
func (f *Finding) UpdateFromPin(pin Pin) {
	if pin.Name != "" {
		f.Title = pin.Name
	}
	if f.Title == "" {
		f.Title = DefaultPinTitle
	}
	if pin.Status != "" {
		f.Status = NormalizeStatus(pin.Status)
	}
	if pin.Material != "" {
		f.Material = pin.Material
	}
	if pin.Defect != "" {
		f.Defect = pin.Defect
	}
	if pin.Elevation != "" {
		f.Elevation = pin.Elevation
	}
}
