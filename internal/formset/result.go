package formset

import (
	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/internal/validation"
)

// MsgUnknownChild is reported for a row whose id is not a child of the parent
const MsgUnknownChild = "Select a valid choice. That choice is not one of the available choices."

// MsgDuplicateChild is reported for a second row carrying an id already used
const MsgDuplicateChild = "Please correct the duplicate data for id, which must be unique."

// Item is an accepted row. ID is uuid.Nil for new rows.
type Item[T any] struct {
	Index int
	ID    uuid.UUID
	Value T
}

// IsNew reports whether the item creates a child
func (i Item[T]) IsNew() bool {
	return i.ID == uuid.Nil
}

// Rejected is a row that failed validation
type Rejected struct {
	Index  int                    `json:"index"`
	Errors validation.FieldErrors `json:"errors"`
}

// Result partitions the rows of a collection. Accepted keeps submission order.
type Result[T any] struct {
	Accepted []Item[T]
	Deleted  []uuid.UUID
	Rejected []Rejected
}

// Valid reports whether every live row passed
func (r Result[T]) Valid() bool {
	return len(r.Rejected) == 0
}

// Validate classifies each row of sub. Rows with an id must be known to the
// parent and may appear once; deleted rows are not validated; new rows left
// blank are skipped. known may be nil when the parent has no children yet.
func Validate[T any](sub *Submission, known func(uuid.UUID) bool, fn func(Row) (T, validation.Result)) Result[T] {
	var res Result[T]
	seen := map[uuid.UUID]bool{}
	for _, row := range sub.Rows {
		var id uuid.UUID
		if !row.IsNew() {
			parsed, err := uuid.Parse(row.ID)
			if err != nil || known == nil || !known(parsed) {
				res.Rejected = append(res.Rejected, Rejected{
					Index:  row.Index,
					Errors: validation.FieldErrors{IDField: {MsgUnknownChild}},
				})
				continue
			}
			if seen[parsed] {
				res.Rejected = append(res.Rejected, Rejected{
					Index:  row.Index,
					Errors: validation.FieldErrors{IDField: {MsgDuplicateChild}},
				})
				continue
			}
			seen[parsed] = true
			id = parsed
		}

		if row.Delete {
			if id != uuid.Nil {
				res.Deleted = append(res.Deleted, id)
			}
			continue
		}

		if id == uuid.Nil && row.Blank() {
			continue
		}

		value, vres := fn(row)
		if !vres.Valid {
			res.Rejected = append(res.Rejected, Rejected{Index: row.Index, Errors: vres.FieldErrors})
			continue
		}
		res.Accepted = append(res.Accepted, Item[T]{Index: row.Index, ID: id, Value: value})
	}
	return res
}
