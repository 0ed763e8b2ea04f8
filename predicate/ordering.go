package predicate

// Direction orders a sort column.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// String returns the SQL keyword for the direction.
func (d Direction) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Ordering is one ORDER BY element.
type Ordering struct {
	Column    string
	Direction Direction
}

// Asc orders by the column ascending.
func Asc(column string) Ordering {
	return Ordering{Column: column, Direction: Ascending}
}

// Desc orders by the column descending.
func Desc(column string) Ordering {
	return Ordering{Column: column, Direction: Descending}
}

// Page requests result paging. Skip rows are passed over; when Take is
// positive, at most Take rows are fetched after the skip.
type Page struct {
	Skip int
	Take int
}
