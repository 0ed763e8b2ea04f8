package factory

import (
	"time"

	"github.com/google/uuid"

	"github.com/cmdql/cmdql/entity"
	"github.com/cmdql/cmdql/predicate"
	"github.com/cmdql/cmdql/sqlgen"
)

// Option configures the Factory itself.
type Option func(*Factory)

// WithProvider swaps the entity introspection provider. The default is
// the reflection provider.
func WithProvider(p entity.Provider) Option {
	return func(f *Factory) { f.provider = p }
}

// WithNaming sets the entity-name to table-name strategy. The default
// uses the entity name verbatim.
func WithNaming(s entity.NamingStrategy) Option {
	return func(f *Factory) { f.naming = s }
}

// WithGenerator swaps the statement generator, for example to select the
// portable upsert strategy.
func WithGenerator(g *sqlgen.Generator) Option {
	return func(f *Factory) { f.gen = g }
}

// CommandOption configures one factory call.
type CommandOption func(*commandOptions)

type commandOptions struct {
	schema        string
	keyColumns    []string
	excluded      []string
	updateColumns []string
	includeID     bool
	noOutput      bool
	where         predicate.Node
	orderBy       []predicate.Ordering
	page          *predicate.Page
	columns       []string
	version       *versionCheck
	timeout       time.Duration
	hasTimeout    bool
	correlation   uuid.UUID
}

type versionCheck struct {
	column   string
	expected any
}

func applyCommandOptions(opts []CommandOption) commandOptions {
	var o commandOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Schema qualifies the target table with a schema name.
func Schema(name string) CommandOption {
	return func(o *commandOptions) { o.schema = name }
}

// KeyColumns names the identifying columns used by Update, Delete and
// Upsert. Without it, a column literally named Id is the key.
func KeyColumns(columns ...string) CommandOption {
	return func(o *commandOptions) { o.keyColumns = columns }
}

// ExcludeColumns drops the named columns from the generated statement.
func ExcludeColumns(columns ...string) CommandOption {
	return func(o *commandOptions) { o.excluded = columns }
}

// UpdateColumns restricts an Update's SET list to an explicit subset.
func UpdateColumns(columns ...string) CommandOption {
	return func(o *commandOptions) { o.updateColumns = columns }
}

// IncludeID overrides the Insert convention of excluding a column
// literally named Id.
func IncludeID() CommandOption {
	return func(o *commandOptions) { o.includeID = true }
}

// WithoutOutput suppresses the OUTPUT clause on data-modifying commands.
func WithoutOutput() CommandOption {
	return func(o *commandOptions) { o.noOutput = true }
}

// Where attaches a predicate.
func Where(node predicate.Node) CommandOption {
	return func(o *commandOptions) { o.where = node }
}

// OrderBy attaches an ordering to a query.
func OrderBy(orderings ...predicate.Ordering) CommandOption {
	return func(o *commandOptions) { o.orderBy = orderings }
}

// Page attaches paging to a query.
func Page(skip, take int) CommandOption {
	return func(o *commandOptions) { o.page = &predicate.Page{Skip: skip, Take: take} }
}

// Columns restricts a query's projection to an explicit column list.
func Columns(columns ...string) CommandOption {
	return func(o *commandOptions) { o.columns = columns }
}

// VersionColumn adds an optimistic-concurrency check to an Update: the
// WHERE guard additionally requires column = expected. The SET list still
// carries the entity's own (new) value for the column.
func VersionColumn(column string, expected any) CommandOption {
	return func(o *commandOptions) { o.version = &versionCheck{column: column, expected: expected} }
}

// Timeout requests an execution timeout, enforced by the executor.
func Timeout(d time.Duration) CommandOption {
	return func(o *commandOptions) {
		o.timeout = d
		o.hasTimeout = true
	}
}

// CorrelationID links the command to a larger operation.
func CorrelationID(id uuid.UUID) CommandOption {
	return func(o *commandOptions) { o.correlation = id }
}
