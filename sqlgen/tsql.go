package sqlgen

import (
	"strings"

	"github.com/cmdql/cmdql/command"
)

// paramPrefix is the T-SQL named parameter marker.
const paramPrefix = "@"

// quoteIdent wraps an already validated identifier in brackets. Quoting is
// not a substitute for the allow-list; callers validate first.
func quoteIdent(name string) string {
	return "[" + name + "]"
}

// placeholder renders the named parameter reference for an already
// validated name.
func placeholder(name string) string {
	return paramPrefix + name
}

// quoteColumn validates a column name against the allow-list and returns
// the bracket-quoted form.
func quoteColumn(name string) (string, error) {
	if err := command.ValidateIdentifier(name); err != nil {
		return "", err
	}
	return quoteIdent(name), nil
}

// quoteColumns validates and quotes each column name in order.
func quoteColumns(columns []string) ([]string, error) {
	out := make([]string, len(columns))
	for i, c := range columns {
		quoted, err := quoteColumn(c)
		if err != nil {
			return nil, err
		}
		out[i] = quoted
	}
	return out, nil
}

// escapeLikePattern neutralizes LIKE metacharacters in a literal string so
// user input can never widen a match. T-SQL treats a bracketed character
// as itself, so %, _ and [ are wrapped instead of backslash-escaped.
func escapeLikePattern(s string) string {
	if !strings.ContainsAny(s, "%_[") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '%', '_', '[':
			sb.WriteByte('[')
			sb.WriteRune(r)
			sb.WriteByte(']')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
