package repository

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/zeusync/mudstate/internal/core/objid"
)

var (
	ErrNotFound = eris.New("object not found")
	ErrConflict = eris.New("object already exists")
)

// NotFoundError reports a lookup of an id that has no entry of Kind.
type NotFoundError struct {
	Kind string
	ID   objid.ObjId
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d: not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError reports an insertion of an id that already has an entry of
// Kind.
type ConflictError struct {
	Kind string
	ID   objid.ObjId
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d: already exists", e.Kind, e.ID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
