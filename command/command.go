// Package command defines the immutable command model consumed by the
// translation engine: the closed set of command kinds, ordered named
// parameters, string-keyed metadata, and the typed failure taxonomy
// returned by validation.
package command

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the closed set of command variants.
type Kind int

const (
	KindQuery Kind = iota + 1
	KindInsert
	KindUpdate
	KindDelete
	KindUpsert
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	case KindDelete:
		return "delete"
	case KindUpsert:
		return "upsert"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the defined command kinds.
func (k Kind) Valid() bool {
	return k >= KindQuery && k <= KindUpsert
}

// ParseKind maps a kind name (as printed by Kind.String) back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "query":
		return KindQuery, nil
	case "insert":
		return KindInsert, nil
	case "update":
		return KindUpdate, nil
	case "delete":
		return KindDelete, nil
	case "upsert":
		return KindUpsert, nil
	default:
		return 0, fmt.Errorf("unknown command kind %q", s)
	}
}

// ResultShape describes what the caller expects back from execution.
type ResultShape int

const (
	// ResultNone means execution returns only an affected-row count.
	ResultNone ResultShape = iota
	// ResultRows means execution returns a row set.
	ResultRows
	// ResultScalar means execution returns a single value.
	ResultScalar
)

// Command is an immutable description of one database operation: a kind,
// a target, provider-native text, and the ordered parameters the text
// references. Commands are built by the factory package, checked by
// Validate, and turned into the final translation artifact by sqlgen.
// All With* methods return a copy; a Command is never mutated.
type Command struct {
	id          uuid.UUID
	correlation uuid.UUID
	timestamp   time.Time
	kind        Kind
	target      string
	text        string
	params      Parameters
	meta        Metadata
	timeout     time.Duration
	hasTimeout  bool
	expect      ResultShape
}

// New constructs a command. The kind must be one of the defined variants;
// an invalid kind is a programmer error and panics. Target may be empty
// for raw commands whose text was written by the caller. The new command
// gets a fresh CommandID; CorrelationID defaults to the CommandID until
// overridden with WithCorrelationID.
func New(kind Kind, target, text string, params Parameters) Command {
	if !kind.Valid() {
		panic(fmt.Sprintf("command: invalid kind %d", int(kind)))
	}
	id := uuid.New()
	return Command{
		id:          id,
		correlation: id,
		timestamp:   time.Now().UTC(),
		kind:        kind,
		target:      target,
		text:        text,
		params:      params.Clone(),
		meta:        Metadata{},
	}
}

// ID returns the unique command identifier.
func (c Command) ID() uuid.UUID { return c.id }

// CorrelationID returns the identifier linking this command to a larger
// operation. It equals ID unless explicitly overridden.
func (c Command) CorrelationID() uuid.UUID { return c.correlation }

// Timestamp returns the construction time in UTC.
func (c Command) Timestamp() time.Time { return c.timestamp }

// Kind returns the command variant.
func (c Command) Kind() Kind { return c.kind }

// Target returns the table or path identifier the command addresses.
func (c Command) Target() string { return c.target }

// Text returns the provider-native command text.
func (c Command) Text() string { return c.text }

// Parameters returns a copy of the ordered parameter list.
func (c Command) Parameters() Parameters { return c.params.Clone() }

// Metadata returns a copy of the command metadata.
func (c Command) Metadata() Metadata { return c.meta.Clone() }

// Schema returns the schema recorded in metadata, if any.
func (c Command) Schema() string { return c.meta.String(MetaSchema) }

// Timeout returns the requested execution timeout and whether one was set.
// Enforcement belongs to the executor, not to translation.
func (c Command) Timeout() (time.Duration, bool) { return c.timeout, c.hasTimeout }

// ExpectedResult returns the result shape the caller expects.
func (c Command) ExpectedResult() ResultShape { return c.expect }

// IsDataModifying reports whether executing the command can change data.
// It is false only for Query.
func (c Command) IsDataModifying() bool { return c.kind != KindQuery }

// WithParameters returns a copy of the command with the parameter list
// replaced.
func (c Command) WithParameters(params ...Parameter) Command {
	c.params = Parameters(params).Clone()
	return c
}

// WithMetadata returns a copy of the command with one metadata entry set.
func (c Command) WithMetadata(key string, value any) Command {
	meta := c.meta.Clone()
	meta[key] = value
	c.meta = meta
	return c
}

// WithTimeout returns a copy of the command carrying an execution timeout.
func (c Command) WithTimeout(d time.Duration) Command {
	c.timeout = d
	c.hasTimeout = true
	return c
}

// WithCorrelationID returns a copy of the command linked to the given
// correlation identifier.
func (c Command) WithCorrelationID(id uuid.UUID) Command {
	c.correlation = id
	return c
}

// WithExpectedResult returns a copy of the command declaring the result
// shape the caller expects.
func (c Command) WithExpectedResult(shape ResultShape) Command {
	c.expect = shape
	return c
}
