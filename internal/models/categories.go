package models

// CategoryOptions is the two-level defect classification: material category
// to the defect types allowed under it. The pair is stored as free text on
// pins and findings; this table is a lookup for pickers, not a hard
// constraint at the data-model level.
var CategoryOptions = map[string][]string{
	"Stone": {
		"Crack",
		"Spall",
		"Discoloration",
		"Efflorescence",
		"Other Stone Defect",
	},
	"Window": {
		"Broken Glass",
		"Seal Failure",
		"Frame Corrosion",
		"Air/Water Leak",
		"Other Window Defect",
	},
	"Metal Panel": {
		"Corrosion",
		"Loose Panel",
		"Denting",
		"Other Metal Defect",
	},
	"Sealant": {
		"Cracking",
		"Loss of Adhesion",
		"Loss of Cohesion",
		"Other Sealant Defect",
	},
	"Other": {
		"General Defect",
		"Observation",
		"Info",
		"Other",
	},
}

// DefectsFor returns the defect types allowed for a material category, or
// nil when the material is not in the table.
func DefectsFor(material string) []string {
	return CategoryOptions[material]
}
