// internal/domain/floorplan/errors.go
package floorplan

import "errors"

var (
	ErrNumberRange          = errors.New("table number must be between 1 and 99")
	ErrCapacityRange        = errors.New("capacity must be between 1 and 20")
	ErrDuplicateTableNumber = errors.New("table number already in use")
	ErrEmptyAreaName        = errors.New("area name is required")
	ErrNoTables             = errors.New("floor plan has no tables")
	ErrNotATable            = errors.New("object is not a table")
	ErrSessionClosed        = errors.New("no edit session open")
	ErrDeleteNotArmed       = errors.New("delete has not been requested")
)
