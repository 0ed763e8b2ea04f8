package command

// Parameter is a single named value bound to a command. Value may be nil,
// which binds SQL NULL.
type Parameter struct {
	Name  string
	Value any
}

// Param is shorthand for constructing a Parameter.
func Param(name string, value any) Parameter {
	return Parameter{Name: name, Value: value}
}

// Parameters is an ordered parameter list. Order is insertion order and is
// preserved through translation so that output is deterministic.
type Parameters []Parameter

// Clone returns a copy of the list. A nil receiver stays nil.
func (ps Parameters) Clone() Parameters {
	if ps == nil {
		return nil
	}
	out := make(Parameters, len(ps))
	copy(out, ps)
	return out
}

// Names returns the parameter names in order.
func (ps Parameters) Names() []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the value bound to name and whether it exists.
func (ps Parameters) Lookup(name string) (any, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// duplicateName returns the first name appearing more than once.
func (ps Parameters) duplicateName() (string, bool) {
	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		if _, ok := seen[p.Name]; ok {
			return p.Name, true
		}
		seen[p.Name] = struct{}{}
	}
	return "", false
}
