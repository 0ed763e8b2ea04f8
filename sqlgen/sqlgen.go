// Package sqlgen renders validated commands and predicate descriptions
// into T-SQL text with ordered, named parameters. Rendering is pure: no
// I/O, no shared counters, no locks. The same input always produces
// byte-identical text and the same parameter assignment.
package sqlgen

import (
	"github.com/cmdql/cmdql/command"
)

// Translation is the immutable output artifact handed to an executor:
// provider-native text plus the ordered parameters the text references.
type Translation struct {
	Text       string
	Parameters command.Parameters
}

// Translate validates the command and packages its translation artifact.
// A command that fails validation is never handed downstream; the typed
// failure is returned to the caller instead.
func Translate(cmd command.Command) (Translation, error) {
	if err := cmd.Validate(); err != nil {
		return Translation{}, err
	}
	return Translation{Text: cmd.Text(), Parameters: cmd.Parameters()}, nil
}

// Target addresses a table, optionally qualified by a schema.
type Target struct {
	Schema string
	Name   string
}

// quoted validates the target against the identifier allow-list and
// returns the bracket-quoted form.
func (t Target) quoted() (string, error) {
	if err := command.ValidateIdentifier(t.Name); err != nil {
		return "", err
	}
	if t.Schema == "" {
		return quoteIdent(t.Name), nil
	}
	if err := command.ValidateIdentifier(t.Schema); err != nil {
		return "", err
	}
	return quoteIdent(t.Schema) + "." + quoteIdent(t.Name), nil
}
