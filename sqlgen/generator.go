package sqlgen

import "fmt"

// UpsertStrategy selects how Upsert statements render.
type UpsertStrategy int

const (
	// UpsertMerge renders a native MERGE over a virtual source row set.
	// This is the default.
	UpsertMerge UpsertStrategy = iota
	// UpsertPortable renders IF EXISTS (...) UPDATE ... ELSE INSERT ...,
	// two plain statements with the same effect. Single-row only.
	UpsertPortable
)

// String returns the strategy name used by configuration and flags.
func (s UpsertStrategy) String() string {
	if s == UpsertPortable {
		return "portable"
	}
	return "merge"
}

// ParseUpsertStrategy maps a strategy name to its UpsertStrategy.
func ParseUpsertStrategy(s string) (UpsertStrategy, error) {
	switch s {
	case "merge":
		return UpsertMerge, nil
	case "portable":
		return UpsertPortable, nil
	default:
		return 0, fmt.Errorf("unknown upsert strategy %q", s)
	}
}

// Generator renders per-kind statement payloads to T-SQL text and ordered
// parameters. It carries no mutable state; one instance serves any number
// of goroutines. The zero value uses the merge upsert strategy.
type Generator struct {
	upsert UpsertStrategy
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithUpsertStrategy overrides the default upsert rendering.
func WithUpsertStrategy(s UpsertStrategy) GeneratorOption {
	return func(g *Generator) { g.upsert = s }
}

// NewGenerator constructs a Generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// outputClause renders an OUTPUT clause. prefix is INSERTED or DELETED.
// Explicit columns win over the star form; neither yields an empty clause.
func outputClause(prefix string, output bool, columns []string) (string, error) {
	if len(columns) > 0 {
		quoted, err := quoteColumns(columns)
		if err != nil {
			return "", err
		}
		clause := " OUTPUT "
		for i, q := range quoted {
			if i > 0 {
				clause += ", "
			}
			clause += prefix + "." + q
		}
		return clause, nil
	}
	if output {
		return " OUTPUT " + prefix + ".*", nil
	}
	return "", nil
}
