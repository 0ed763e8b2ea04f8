package command

// Metadata keys understood by the engine. Callers may add their own keys;
// unknown keys are carried through untouched.
const (
	// MetaAllowFullTableOperation permits an Update or Delete without a
	// WHERE guard. Only DeleteAll sets it by itself.
	MetaAllowFullTableOperation = "AllowFullTableOperation"
	// MetaSchema qualifies the target with a schema name.
	MetaSchema = "Schema"
)

// Metadata is a string-keyed map of command flags and annotations.
type Metadata map[string]any

// Clone returns a copy of the map. A nil receiver yields an empty map.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Bool returns the value under key if it is a bool, false otherwise.
func (m Metadata) Bool(key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}

// String returns the value under key if it is a string, "" otherwise.
func (m Metadata) String(key string) string {
	v, _ := m[key].(string)
	return v
}
