package sqlgen

import (
	"strconv"
	"strings"

	"github.com/cmdql/cmdql/command"
)

// UpsertSpec describes one insert-or-update keyed on KeyColumns. Every key
// column must also appear in Columns; the matched branch updates the
// non-key columns, the unmatched branch inserts the full row.
type UpsertSpec struct {
	Target     Target
	Columns    []string
	Values     []any
	KeyColumns []string
	Output     bool // merge action + inserted row
}

// Upsert renders an insert-or-update with the generator's configured
// strategy.
func (g *Generator) Upsert(spec UpsertSpec) (string, command.Parameters, error) {
	if err := checkUpsertShape(spec.Target, spec.Columns, spec.KeyColumns); err != nil {
		return "", nil, err
	}
	if len(spec.Values) != len(spec.Columns) {
		panic("sqlgen: upsert column/value count mismatch")
	}
	if g.upsert == UpsertPortable {
		return g.upsertPortable(spec)
	}
	return g.upsertMerge(spec)
}

// upsertMerge renders a native MERGE over a virtual single-row source.
func (g *Generator) upsertMerge(spec UpsertSpec) (string, command.Parameters, error) {
	target, err := spec.Target.quoted()
	if err != nil {
		return "", nil, err
	}
	quoted, err := quoteColumns(spec.Columns)
	if err != nil {
		return "", nil, err
	}

	params := make(command.Parameters, len(spec.Columns))
	source := make([]string, len(spec.Columns))
	insertValues := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		params[i] = command.Param(col, spec.Values[i])
		source[i] = placeholder(col) + " AS " + quoted[i]
		insertValues[i] = "source." + quoted[i]
	}

	var sb strings.Builder
	sb.WriteString("MERGE ")
	sb.WriteString(target)
	sb.WriteString(" AS target USING (SELECT ")
	sb.WriteString(strings.Join(source, ", "))
	sb.WriteString(") AS source ON ")
	sb.WriteString(mergeOn(spec.Columns, spec.KeyColumns, quoted))

	if matched := mergeMatched(spec.Columns, spec.KeyColumns, quoted); matched != "" {
		sb.WriteString(" WHEN MATCHED THEN UPDATE SET ")
		sb.WriteString(matched)
	}
	sb.WriteString(" WHEN NOT MATCHED THEN INSERT (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(insertValues, ", "))
	sb.WriteString(")")
	if spec.Output {
		sb.WriteString(" OUTPUT $action, INSERTED.*")
	}
	sb.WriteString(";")
	return sb.String(), params, nil
}

// upsertPortable renders IF EXISTS (...) UPDATE ... ELSE INSERT ..., two
// plain statements with the merge's effect. The key placeholders repeat in
// the text but bind once each, so parameter names stay unique.
func (g *Generator) upsertPortable(spec UpsertSpec) (string, command.Parameters, error) {
	target, err := spec.Target.quoted()
	if err != nil {
		return "", nil, err
	}
	quoted, err := quoteColumns(spec.Columns)
	if err != nil {
		return "", nil, err
	}

	keys := make(map[string]bool, len(spec.KeyColumns))
	for _, k := range spec.KeyColumns {
		keys[k] = true
	}

	params := make(command.Parameters, len(spec.Columns))
	holders := make([]string, len(spec.Columns))
	var guards, assignments []string
	for i, col := range spec.Columns {
		params[i] = command.Param(col, spec.Values[i])
		holders[i] = placeholder(col)
		if keys[col] {
			guards = append(guards, quoted[i]+" = "+placeholder(col))
		} else {
			assignments = append(assignments, quoted[i]+" = "+placeholder(col))
		}
	}
	guard := strings.Join(guards, " AND ")

	output := ""
	if spec.Output {
		output = " OUTPUT INSERTED.*"
	}

	var sb strings.Builder
	sb.WriteString("IF EXISTS (SELECT 1 FROM ")
	sb.WriteString(target)
	sb.WriteString(" WHERE ")
	sb.WriteString(guard)
	sb.WriteString(") ")
	if len(assignments) > 0 {
		sb.WriteString("UPDATE ")
		sb.WriteString(target)
		sb.WriteString(" SET ")
		sb.WriteString(strings.Join(assignments, ", "))
		sb.WriteString(output)
		sb.WriteString(" WHERE ")
		sb.WriteString(guard)
	} else {
		// Every column is a key; a match means the row already holds
		// the desired state.
		sb.WriteString("SELECT 0")
	}
	sb.WriteString(" ELSE INSERT INTO ")
	sb.WriteString(target)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(")")
	sb.WriteString(output)
	sb.WriteString(" VALUES (")
	sb.WriteString(strings.Join(holders, ", "))
	sb.WriteString(")")
	return sb.String(), params, nil
}

// UpsertManySpec batches several rows into one upsert. Rows share the
// column list; Rows[r][i] binds to Columns[i] with a _r suffix.
type UpsertManySpec struct {
	Target     Target
	Columns    []string
	Rows       [][]any
	KeyColumns []string
	Output     bool
}

// UpsertMany renders one MERGE over a literal VALUES row set. The portable
// strategy is single-row only, so bulk upserts always merge.
func (g *Generator) UpsertMany(spec UpsertManySpec) (string, command.Parameters, error) {
	if err := checkUpsertShape(spec.Target, spec.Columns, spec.KeyColumns); err != nil {
		return "", nil, err
	}
	if len(spec.Rows) == 0 {
		return "", nil, command.NewFailure(command.CodeEmptyCommandText,
			"bulk upsert into %q has no rows", spec.Target.Name)
	}
	target, err := spec.Target.quoted()
	if err != nil {
		return "", nil, err
	}
	quoted, err := quoteColumns(spec.Columns)
	if err != nil {
		return "", nil, err
	}

	params := make(command.Parameters, 0, len(spec.Rows)*len(spec.Columns))
	tuples := make([]string, len(spec.Rows))
	for r, row := range spec.Rows {
		if len(row) != len(spec.Columns) {
			panic("sqlgen: bulk upsert row " + strconv.Itoa(r) + " column/value count mismatch")
		}
		holders := make([]string, len(spec.Columns))
		for i, col := range spec.Columns {
			name := col + "_" + strconv.Itoa(r)
			params = append(params, command.Param(name, row[i]))
			holders[i] = placeholder(name)
		}
		tuples[r] = "(" + strings.Join(holders, ", ") + ")"
	}

	insertValues := make([]string, len(quoted))
	for i, q := range quoted {
		insertValues[i] = "source." + q
	}

	var sb strings.Builder
	sb.WriteString("MERGE ")
	sb.WriteString(target)
	sb.WriteString(" AS target USING (VALUES ")
	sb.WriteString(strings.Join(tuples, ", "))
	sb.WriteString(") AS source (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") ON ")
	sb.WriteString(mergeOn(spec.Columns, spec.KeyColumns, quoted))
	if matched := mergeMatched(spec.Columns, spec.KeyColumns, quoted); matched != "" {
		sb.WriteString(" WHEN MATCHED THEN UPDATE SET ")
		sb.WriteString(matched)
	}
	sb.WriteString(" WHEN NOT MATCHED THEN INSERT (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(insertValues, ", "))
	sb.WriteString(")")
	if spec.Output {
		sb.WriteString(" OUTPUT $action, INSERTED.*")
	}
	sb.WriteString(";")
	return sb.String(), params, nil
}

// checkUpsertShape rejects an upsert with no keys or with a key column
// missing from the column list.
func checkUpsertShape(target Target, columns, keyColumns []string) error {
	if len(keyColumns) == 0 {
		return command.NewFailure(command.CodeEmptyCommandText,
			"upsert into %q names no key columns", target.Name)
	}
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	for _, k := range keyColumns {
		if !present[k] {
			return command.NewFailure(command.CodeInvalidIdentifier,
				"upsert key column %q is not in the column list", k).
				WithDetail("identifier", k)
		}
	}
	return nil
}

// mergeOn joins target and source on every key column. quoted[i] is the
// quoted form of columns[i].
func mergeOn(columns, keyColumns []string, quoted []string) string {
	index := make(map[string]string, len(columns))
	for i, c := range columns {
		index[c] = quoted[i]
	}
	conditions := make([]string, len(keyColumns))
	for i, k := range keyColumns {
		q := index[k]
		conditions[i] = "target." + q + " = source." + q
	}
	return strings.Join(conditions, " AND ")
}

// mergeMatched renders the matched-branch SET list over the non-key
// columns, or "" when every column is a key.
func mergeMatched(columns, keyColumns []string, quoted []string) string {
	keys := make(map[string]bool, len(keyColumns))
	for _, k := range keyColumns {
		keys[k] = true
	}
	var assignments []string
	for i, c := range columns {
		if keys[c] {
			continue
		}
		assignments = append(assignments, "target."+quoted[i]+" = source."+quoted[i])
	}
	return strings.Join(assignments, ", ")
}
