package models

// StatusColors maps each remediation status to the color used by the kanban
// board and finding cards.
var StatusColors = map[string]string{
	"Unsafe":                     "#d32f2f",
	"Pre-con":                    "#1976d2",
	"Require Repair":             "#ffe082",
	"Completed Before Last Week": "#ef5350",
	"For Verification":           "#ff9800",
	"Completed Last Week":        "#43a047",
	"Verified":                   "#81d4fa",
}

// StatusOptions lists the statuses in board column order. The first entry is
// the default substituted for missing or unrecognized values.
var StatusOptions = []string{
	"Unsafe",
	"Pre-con",
	"Require Repair",
	"Completed Before Last Week",
	"For Verification",
	"Completed Last Week",
	"Verified",
}

// StatusOther is the board bucket for findings whose status falls outside
// the enumeration.
const StatusOther = "Other"

// DefaultColor is used when a status has no entry in StatusColors.
const DefaultColor = "#cccccc"

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s string) bool {
	_, ok := StatusColors[s]
	return ok
}

// NormalizeStatus returns s unchanged when it is a valid status, otherwise
// the default (first) status.
func NormalizeStatus(s string) string {
	if ValidStatus(s) {
		return s
	}
	return StatusOptions[0]
}

// StatusColor returns the display color for a status, falling back to
// DefaultColor for unknown values.
func StatusColor(s string) string {
	if c, ok := StatusColors[s]; ok {
		return c
	}
	return DefaultColor
}
