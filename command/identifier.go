package command

import "regexp"

// Identifiers embedded in generated text must match this allow-list before
// any quoting happens. Quoting is escaping, not validation; the allow-list
// is the injection defense.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const maxIdentifierLength = 128

// ValidateIdentifier checks a single identifier (table, schema, or column
// name) against the allow-list. It returns an InvalidIdentifier failure,
// never an error of another type.
func ValidateIdentifier(name string) error {
	if name == "" {
		return NewFailure(CodeInvalidIdentifier, "identifier is empty")
	}
	if len(name) > maxIdentifierLength {
		return NewFailure(CodeInvalidIdentifier, "identifier exceeds %d characters", maxIdentifierLength).
			WithDetail("identifier", name[:maxIdentifierLength])
	}
	if !identifierPattern.MatchString(name) {
		return NewFailure(CodeInvalidIdentifier, "identifier %q contains characters outside [A-Za-z_][A-Za-z0-9_]*", name).
			WithDetail("identifier", name)
	}
	return nil
}

// ValidIdentifier reports whether name passes the allow-list.
func ValidIdentifier(name string) bool {
	return ValidateIdentifier(name) == nil
}
