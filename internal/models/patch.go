package models

import "time"

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldSet
	fieldClear
)

// Field is a tri-state update value: left untouched, set to a value, or cleared to NULL.
// The zero value is unset.
type Field[T any] struct {
	state fieldState
	value T
}

func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

func Clear[T any]() Field[T] {
	return Field[T]{state: fieldClear}
}

// SetPtr sets the field when v is non-nil and leaves it unset otherwise.
func SetPtr[T any](v *T) Field[T] {
	if v == nil {
		return Field[T]{}
	}
	return Set(*v)
}

func (f Field[T]) IsUnset() bool { return f.state == fieldUnset }
func (f Field[T]) IsSet() bool   { return f.state == fieldSet }
func (f Field[T]) IsClear() bool { return f.state == fieldClear }

// Get returns the value and whether the field is in the set state.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == fieldSet
}

// apply writes the column into updates according to the field state.
func (f Field[T]) apply(updates map[string]any, column string) {
	switch f.state {
	case fieldSet:
		updates[column] = f.value
	case fieldClear:
		updates[column] = nil
	}
}

// ReportPatch describes a partial update of a report row.
type ReportPatch struct {
	Status               Field[ReportStatus]
	ReviewedBy           Field[int64]
	ReviewedAt           Field[time.Time]
	Note                 Field[string]
	CategoryID           Field[int64]
	AssignedTo           Field[int64]
	ExternalMaintainerID Field[int64]
}

// Columns returns the column updates the patch describes. Unset fields are omitted.
func (p ReportPatch) Columns() map[string]any {
	updates := make(map[string]any)
	p.Status.apply(updates, "status")
	p.ReviewedBy.apply(updates, "reviewed_by")
	p.ReviewedAt.apply(updates, "reviewed_at")
	p.Note.apply(updates, "note")
	p.CategoryID.apply(updates, "category_id")
	p.AssignedTo.apply(updates, "assigned_to")
	p.ExternalMaintainerID.apply(updates, "external_maintainer_id")
	return updates
}

func (p ReportPatch) Empty() bool {
	return len(p.Columns()) == 0
}
