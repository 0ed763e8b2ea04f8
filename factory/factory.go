// Package factory constructs commands, either from raw native text the
// caller wrote or from a typed entity plus property selectors. Every
// command a factory returns has already passed validation; a factory
// never hands out a command an executor must not run.
package factory

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cmdql/cmdql/command"
	"github.com/cmdql/cmdql/entity"
	"github.com/cmdql/cmdql/predicate"
	"github.com/cmdql/cmdql/sqlgen"
)

// Factory builds commands against one introspection provider, one naming
// strategy and one statement generator. A Factory is immutable after New
// and safe for concurrent use.
type Factory struct {
	provider entity.Provider
	naming   entity.NamingStrategy
	gen      *sqlgen.Generator
}

// New constructs a factory. Defaults: reflection introspection, verbatim
// table naming, merge upsert strategy.
func New(opts ...Option) *Factory {
	f := &Factory{
		provider: entity.Reflector{},
		naming:   entity.IdentityNaming,
		gen:      sqlgen.NewGenerator(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Raw wraps caller-written native text in a command. The caller asserts
// the text is correct; the command still passes through validation, so a
// raw unguarded DELETE is rejected like any other.
func (f *Factory) Raw(kind command.Kind, target, text string, params command.Parameters, meta command.Metadata, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	cmd := command.New(kind, target, text, params)
	for k, v := range meta {
		cmd = cmd.WithMetadata(k, v)
	}
	return f.finalize(cmd, o, kind != command.KindQuery && o.noOutput)
}

// Find builds a Query command over the entity's table. The prototype
// value supplies the table name and the default projection; Where,
// OrderBy, Page and Columns refine the statement.
func (f *Factory) Find(prototype any, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	table, columns, err := f.describe(prototype)
	if err != nil {
		return command.Command{}, err
	}
	projection := o.columns
	if projection == nil {
		projection = entity.ColumnNames(columns)
	}
	text, params, err := f.gen.Select(sqlgen.SelectSpec{
		Target:  sqlgen.Target{Schema: o.schema, Name: table},
		Columns: projection,
		Where:   o.where,
		OrderBy: o.orderBy,
		Page:    o.page,
	})
	if err != nil {
		return command.Command{}, err
	}
	return f.finalize(command.New(command.KindQuery, table, text, params), o, false)
}

// Insert builds an Insert command from the entity's columns. A column
// literally named Id is excluded by convention; IncludeID restores it.
func (f *Factory) Insert(v any, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	table, columns, err := f.describe(v)
	if err != nil {
		return command.Command{}, err
	}
	columns = insertColumns(columns, o)
	text, params, err := f.gen.Insert(sqlgen.InsertSpec{
		Target:  sqlgen.Target{Schema: o.schema, Name: table},
		Columns: entity.ColumnNames(columns),
		Values:  entity.ColumnValues(columns),
		Output:  !o.noOutput,
	})
	if err != nil {
		return command.Command{}, err
	}
	return f.finalize(command.New(command.KindInsert, table, text, params), o, o.noOutput)
}

// InsertMany builds one bulk Insert over entities of the same shape.
func (f *Factory) InsertMany(vs []any, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	table, names, rows, err := f.describeRows(vs, func(columns []entity.Column) []entity.Column {
		return insertColumns(columns, o)
	})
	if err != nil {
		return command.Command{}, err
	}
	text, params, err := f.gen.InsertMany(sqlgen.InsertManySpec{
		Target:  sqlgen.Target{Schema: o.schema, Name: table},
		Columns: names,
		Rows:    rows,
		Output:  !o.noOutput,
	})
	if err != nil {
		return command.Command{}, err
	}
	return f.finalize(command.New(command.KindInsert, table, text, params), o, o.noOutput)
}

// Update builds an Update command. The SET list covers the non-key
// columns (or the UpdateColumns subset); the WHERE guard comes from the
// Where option or, by default, equality over the key columns. A
// VersionColumn check is ANDed into the guard.
func (f *Factory) Update(v any, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	table, columns, err := f.describe(v)
	if err != nil {
		return command.Command{}, err
	}
	keys, err := resolveKeys(columns, o)
	if err != nil {
		return command.Command{}, err
	}
	set := updateColumns(columns, keys, o)
	if len(set) == 0 {
		return command.Command{}, fmt.Errorf("factory: update of %T sets no columns", v)
	}

	where := o.where
	if where == nil {
		where = keyPredicate(columns, keys)
	}
	if o.version != nil {
		where = predicate.And(where,
			predicate.Column(o.version.column).Equal(o.version.expected))
	}

	text, params, err := f.gen.Update(sqlgen.UpdateSpec{
		Target:  sqlgen.Target{Schema: o.schema, Name: table},
		Columns: entity.ColumnNames(set),
		Values:  entity.ColumnValues(set),
		Where:   where,
		Output:  !o.noOutput,
	})
	if err != nil {
		return command.Command{}, err
	}
	return f.finalize(command.New(command.KindUpdate, table, text, params), o, o.noOutput)
}

// Delete builds a Delete command guarded by the Where option or by
// equality over the key columns.
func (f *Factory) Delete(v any, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	table, columns, err := f.describe(v)
	if err != nil {
		return command.Command{}, err
	}
	where := o.where
	if where == nil {
		keys, err := resolveKeys(columns, o)
		if err != nil {
			return command.Command{}, err
		}
		where = keyPredicate(columns, keys)
	}
	text, params, err := f.gen.Delete(sqlgen.DeleteSpec{
		Target: sqlgen.Target{Schema: o.schema, Name: table},
		Where:  where,
		Output: !o.noOutput,
	})
	if err != nil {
		return command.Command{}, err
	}
	return f.finalize(command.New(command.KindDelete, table, text, params), o, o.noOutput)
}

// DeleteAll builds the one sanctioned full-table Delete. It sets
// AllowFullTableOperation itself; no other factory path does.
func (f *Factory) DeleteAll(prototype any, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	table, _, err := f.describe(prototype)
	if err != nil {
		return command.Command{}, err
	}
	text, params, err := f.gen.Delete(sqlgen.DeleteSpec{
		Target: sqlgen.Target{Schema: o.schema, Name: table},
	})
	if err != nil {
		return command.Command{}, err
	}
	cmd := command.New(command.KindDelete, table, text, params).
		WithMetadata(command.MetaAllowFullTableOperation, true)
	return f.finalize(cmd, o, true)
}

// Upsert builds an insert-or-update keyed on the key columns. All columns
// including the keys travel in the virtual source row.
func (f *Factory) Upsert(v any, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	table, columns, err := f.describe(v)
	if err != nil {
		return command.Command{}, err
	}
	columns = withoutExcluded(columns, o.excluded)
	keys, err := resolveKeys(columns, o)
	if err != nil {
		return command.Command{}, err
	}
	text, params, err := f.gen.Upsert(sqlgen.UpsertSpec{
		Target:     sqlgen.Target{Schema: o.schema, Name: table},
		Columns:    entity.ColumnNames(columns),
		Values:     entity.ColumnValues(columns),
		KeyColumns: keys,
		Output:     !o.noOutput,
	})
	if err != nil {
		return command.Command{}, err
	}
	return f.finalize(command.New(command.KindUpsert, table, text, params), o, o.noOutput)
}

// UpsertMany builds one bulk merge over entities of the same shape.
func (f *Factory) UpsertMany(vs []any, opts ...CommandOption) (command.Command, error) {
	o := applyCommandOptions(opts)
	table, names, rows, err := f.describeRows(vs, func(columns []entity.Column) []entity.Column {
		return withoutExcluded(columns, o.excluded)
	})
	if err != nil {
		return command.Command{}, err
	}
	keys, err := resolveKeyNames(names, o)
	if err != nil {
		return command.Command{}, err
	}
	text, params, err := f.gen.UpsertMany(sqlgen.UpsertManySpec{
		Target:     sqlgen.Target{Schema: o.schema, Name: table},
		Columns:    names,
		Rows:       rows,
		KeyColumns: keys,
		Output:     !o.noOutput,
	})
	if err != nil {
		return command.Command{}, err
	}
	return f.finalize(command.New(command.KindUpsert, table, text, params), o, o.noOutput)
}

// describe introspects v and applies the naming strategy.
func (f *Factory) describe(v any) (string, []entity.Column, error) {
	desc, err := f.provider.Describe(v)
	if err != nil {
		return "", nil, err
	}
	return f.naming(desc.Name), desc.Columns, nil
}

// describeRows introspects a homogeneous entity slice. Every row must
// yield the same column names in the same order as the first; shape
// drift across rows is a caller bug worth failing loudly on.
func (f *Factory) describeRows(vs []any, filter func([]entity.Column) []entity.Column) (string, []string, [][]any, error) {
	if len(vs) == 0 {
		return "", nil, nil, fmt.Errorf("factory: no entities given")
	}
	var table string
	var names []string
	rows := make([][]any, len(vs))
	for i, v := range vs {
		t, columns, err := f.describe(v)
		if err != nil {
			return "", nil, nil, err
		}
		columns = filter(columns)
		if i == 0 {
			table = t
			names = entity.ColumnNames(columns)
		} else if t != table || !sameNames(names, columns) {
			return "", nil, nil, fmt.Errorf("factory: entity %d (%T) does not match the shape of the first entity", i, v)
		}
		rows[i] = entity.ColumnValues(columns)
	}
	return table, names, rows, nil
}

// finalize applies shared per-call options, validates and returns the
// command. noRows marks data-modifying commands without an OUTPUT clause.
func (f *Factory) finalize(cmd command.Command, o commandOptions, noRows bool) (command.Command, error) {
	if o.schema != "" {
		cmd = cmd.WithMetadata(command.MetaSchema, o.schema)
	}
	if o.hasTimeout {
		cmd = cmd.WithTimeout(o.timeout)
	}
	if o.correlation != uuid.Nil {
		cmd = cmd.WithCorrelationID(o.correlation)
	}
	shape := command.ResultRows
	if noRows {
		shape = command.ResultNone
	}
	cmd = cmd.WithExpectedResult(shape)
	if err := cmd.Validate(); err != nil {
		return command.Command{}, err
	}
	return cmd, nil
}

// insertColumns applies the Id convention and the exclusion list.
func insertColumns(columns []entity.Column, o commandOptions) []entity.Column {
	columns = withoutExcluded(columns, o.excluded)
	if o.includeID {
		return columns
	}
	out := columns[:0:0]
	for _, c := range columns {
		if c.Name == "Id" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// updateColumns picks the SET list: the explicit subset when given,
// otherwise every non-key, non-excluded column.
func updateColumns(columns []entity.Column, keys []string, o commandOptions) []entity.Column {
	columns = withoutExcluded(columns, o.excluded)
	if len(o.updateColumns) > 0 {
		wanted := toSet(o.updateColumns)
		out := columns[:0:0]
		for _, c := range columns {
			if wanted[c.Name] {
				out = append(out, c)
			}
		}
		return out
	}
	keySet := toSet(keys)
	out := columns[:0:0]
	for _, c := range columns {
		if !keySet[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

func withoutExcluded(columns []entity.Column, excluded []string) []entity.Column {
	if len(excluded) == 0 {
		return columns
	}
	drop := toSet(excluded)
	out := columns[:0:0]
	for _, c := range columns {
		if !drop[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// resolveKeys returns the key column names: the explicit selection when
// given, otherwise a column literally named Id.
func resolveKeys(columns []entity.Column, o commandOptions) ([]string, error) {
	return resolveKeyNames(entity.ColumnNames(columns), o)
}

func resolveKeyNames(names []string, o commandOptions) ([]string, error) {
	if len(o.keyColumns) > 0 {
		present := toSet(names)
		for _, k := range o.keyColumns {
			if !present[k] {
				return nil, fmt.Errorf("factory: key column %q is not a column of the entity", k)
			}
		}
		return o.keyColumns, nil
	}
	for _, n := range names {
		if n == "Id" {
			return []string{"Id"}, nil
		}
	}
	return nil, fmt.Errorf("factory: no key columns selected and the entity has no Id column")
}

// keyPredicate builds the equality guard over the key columns, ANDing
// left to right.
func keyPredicate(columns []entity.Column, keys []string) predicate.Node {
	values := make(map[string]any, len(columns))
	for _, c := range columns {
		values[c.Name] = c.Value
	}
	var node predicate.Node
	for _, k := range keys {
		eq := predicate.Column(k).Equal(values[k])
		if node == nil {
			node = eq
		} else {
			node = predicate.And(node, eq)
		}
	}
	return node
}

func sameNames(names []string, columns []entity.Column) bool {
	if len(names) != len(columns) {
		return false
	}
	for i, c := range columns {
		if names[i] != c.Name {
			return false
		}
	}
	return true
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
