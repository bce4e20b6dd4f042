package models

import "regexp"

// Project names double as storage-path segments (local directories and
// object-store key prefixes), so they are restricted to a filesystem/key-safe
// alphabet with no path separators.
var projectNameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]*$`)

// ValidProjectName reports whether name can be used as a project identifier.
func ValidProjectName(name string) bool {
	return name != "" && projectNameRe.MatchString(name)
}
