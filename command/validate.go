package command

import "strings"

// Validate checks the structural safety rules and returns the first
// violation as a *Failure. A nil return means the command may be handed to
// translation. Expected malformed input never panics.
func (c Command) Validate() error {
	if strings.TrimSpace(c.text) == "" {
		return NewFailure(CodeEmptyCommandText, "command text is empty").
			WithDetail("kind", c.kind.String())
	}
	if c.hasTimeout && c.timeout <= 0 {
		return NewFailure(CodeNonPositiveTimeout, "timeout %s is not positive", c.timeout)
	}
	if (c.kind == KindUpdate || c.kind == KindDelete) &&
		!hasWhereGuard(c.text) &&
		!c.meta.Bool(MetaAllowFullTableOperation) {
		return NewFailure(CodeMissingWhereClause,
			"%s against %q has no WHERE guard and %s is not set",
			c.kind, c.target, MetaAllowFullTableOperation)
	}
	if name, dup := c.params.duplicateName(); dup {
		return NewFailure(CodeDuplicateParameterName, "parameter %q is bound more than once", name).
			WithDetail("parameter", name)
	}
	if c.target != "" {
		if err := ValidateIdentifier(c.target); err != nil {
			return err
		}
	}
	if schema := c.Schema(); schema != "" {
		if err := ValidateIdentifier(schema); err != nil {
			return err
		}
	}
	return nil
}

// hasWhereGuard reports whether text contains a WHERE keyword outside
// string literals and bracketed identifiers. Builders always place the
// guard at the statement level, so a bare token scan is sufficient; this
// is deliberately not a SQL parser.
func hasWhereGuard(text string) bool {
	const keyword = "WHERE"
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\'':
			i = skipQuoted(text, i, '\'')
		case '[':
			i = skipQuoted(text, i, ']')
		case 'w', 'W':
			if i > 0 && isWordByte(text[i-1]) {
				continue
			}
			end := i + len(keyword)
			if end > len(text) {
				return false
			}
			if strings.EqualFold(text[i:end], keyword) &&
				(end == len(text) || !isWordByte(text[end])) {
				return true
			}
		}
	}
	return false
}

// skipQuoted advances past a run opened at start and closed by closer,
// honoring doubled closers ('' and ]]) as escapes. It returns the index of
// the final consumed byte.
func skipQuoted(text string, start int, closer byte) int {
	for i := start + 1; i < len(text); i++ {
		if text[i] != closer {
			continue
		}
		if i+1 < len(text) && text[i+1] == closer {
			i++
			continue
		}
		return i
	}
	return len(text) - 1
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
