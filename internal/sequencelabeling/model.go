package sequencelabeling

import "errors"

var (
	ErrInvalidOffsets = errors.New("start offset must be before end offset")
	ErrSelfRelation   = errors.New("a relation needs two distinct spans")
)

// Span labels the character range [StartOffset, EndOffset) of an example.
type Span struct {
	ID          int
	Label       int
	User        int
	StartOffset int
	EndOffset   int
}

// ChangeLabel returns a copy of the span carrying label.
func (s Span) ChangeLabel(label int) Span {
	s.Label = label
	return s
}

// Relation links two spans of the same example.
type Relation struct {
	ID     int
	FromID int
	ToID   int
	Type   int
}

// ChangeType returns a copy of the relation carrying typeID.
func (r Relation) ChangeType(typeID int) Relation {
	r.Type = typeID
	return r
}

// Comparison holds the spans two users made on one document.
type Comparison struct {
	User1 []Span
	User2 []Span
}
