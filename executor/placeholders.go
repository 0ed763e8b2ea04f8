package executor

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/cmdql/cmdql/command"
)

// BindArgs converts a translation's text and named parameters into the
// form the driver expects. sqlserver and sqlite3 take the text as-is with
// sql.Named arguments; postgres rewrites @name to $n and mysql to ?, both
// preserving first-appearance order. A repeated name reuses its positional
// index on postgres and duplicates the argument on mysql.
func BindArgs(driver, text string, params command.Parameters) (string, []any, error) {
	switch driver {
	case "sqlserver", "mssql", "sqlite3", "sqlite":
		args := make([]any, len(params))
		for i, p := range params {
			args[i] = sql.Named(p.Name, p.Value)
		}
		return text, args, nil
	case "postgres", "postgresql":
		return rewritePlaceholders(text, params, true)
	case "mysql":
		return rewritePlaceholders(text, params, false)
	default:
		return "", nil, fmt.Errorf("executor: unknown driver %q", driver)
	}
}

// rewritePlaceholders walks the text once, replacing each @name outside
// string literals and bracketed identifiers. numbered selects $n syntax;
// otherwise every occurrence becomes ? with its own argument slot.
func rewritePlaceholders(text string, params command.Parameters, numbered bool) (string, []any, error) {
	indexOf := make(map[string]int, len(params))
	var args []any

	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\'':
			end := skipPast(text, i, '\'')
			sb.WriteString(text[i : end+1])
			i = end
		case '[':
			end := skipPast(text, i, ']')
			sb.WriteString(text[i : end+1])
			i = end
		case '@':
			start := i + 1
			end := start
			for end < len(text) && isNameByte(text[end]) {
				end++
			}
			if end == start {
				sb.WriteByte(c)
				continue
			}
			name := text[start:end]
			value, ok := params.Lookup(name)
			if !ok {
				return "", nil, fmt.Errorf("executor: placeholder @%s has no bound parameter", name)
			}
			if numbered {
				n, seen := indexOf[name]
				if !seen {
					args = append(args, value)
					n = len(args)
					indexOf[name] = n
				}
				sb.WriteByte('$')
				sb.WriteString(strconv.Itoa(n))
			} else {
				args = append(args, value)
				sb.WriteByte('?')
			}
			i = end - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), args, nil
}

// skipPast returns the index of the byte closing a run opened at start,
// treating a doubled closer as an escape.
func skipPast(text string, start int, closer byte) int {
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

func isNameByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}
