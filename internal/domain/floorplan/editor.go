// internal/domain/floorplan/editor.go
package floorplan

// SessionState is the lifecycle state of a table edit session.
type SessionState string

const (
	SessionClosed SessionState = "closed"
	SessionOpen   SessionState = "open"
)

// EditSession is the modal editor for one table's number and capacity. A
// session opens against a table object, holds the draft values, and either
// saves, deletes, or cancels back to closed. Validation failures keep the
// session open with the error exposed inline; the scene is never touched by
// a failed save.
type EditSession struct {
	scene *Scene

	state    SessionState
	objectID string

	// Draft values, prefilled from the table on open.
	Number   int
	Capacity int

	// Inline validation error from the last failed save.
	Err error

	// Two-step delete: the first request arms, the second performs.
	deleteArmed bool
}

// NewEditSession creates a closed session bound to a scene.
func NewEditSession(scene *Scene) *EditSession {
	return &EditSession{
		scene: scene,
		state: SessionClosed,
	}
}

// State returns the current session state.
func (e *EditSession) State() SessionState {
	return e.state
}

// ObjectID returns the id of the table under edit, or "" when closed.
func (e *EditSession) ObjectID() string {
	if e.state != SessionOpen {
		return ""
	}
	return e.objectID
}

// DeleteArmed reports whether a delete has been requested and awaits
// confirmation.
func (e *EditSession) DeleteArmed() bool {
	return e.deleteArmed
}

// Open starts an edit session for the given table object. Opening against
// an object that is not a table fails and leaves the session closed.
func (e *EditSession) Open(objectID string) error {
	meta := e.scene.MetaFor(objectID)
	if meta == nil || meta.Kind != MetaTable {
		return ErrNotATable
	}

	e.state = SessionOpen
	e.objectID = objectID
	e.Number = ParseTableNumber(meta.Table.Number)
	e.Capacity = meta.Table.Capacity
	e.Err = nil
	e.deleteArmed = false
	return nil
}

// Save validates the draft and applies it to the table. On a validation
// failure the session stays open with Err set and the scene unchanged.
func (e *EditSession) Save() error {
	if e.state != SessionOpen {
		return ErrSessionClosed
	}

	if err := e.validate(); err != nil {
		e.Err = err
		return err
	}

	e.scene.updateTable(e.objectID, FormatTableNumber(e.Number), e.Capacity)
	e.close()
	return nil
}

func (e *EditSession) validate() error {
	if e.Number < 1 || e.Number > 99 {
		return ErrNumberRange
	}
	if e.Capacity < 1 || e.Capacity > 20 {
		return ErrCapacityRange
	}

	// Uniqueness excludes the table under edit so saving without changing
	// the number always passes.
	number := FormatTableNumber(e.Number)
	for _, t := range e.scene.Tables() {
		if t.ID == e.objectID {
			continue
		}
		if t.Number == number {
			return ErrDuplicateTableNumber
		}
	}
	return nil
}

// RequestDelete arms the delete. A second call via ConfirmDelete performs it.
func (e *EditSession) RequestDelete() error {
	if e.state != SessionOpen {
		return ErrSessionClosed
	}
	e.deleteArmed = true
	return nil
}

// ConfirmDelete removes the table and closes the session. Without a prior
// RequestDelete the call is rejected.
func (e *EditSession) ConfirmDelete() error {
	if e.state != SessionOpen {
		return ErrSessionClosed
	}
	if !e.deleteArmed {
		return ErrDeleteNotArmed
	}

	e.scene.DeleteObject(e.objectID)
	e.close()
	return nil
}

// Cancel closes the session without touching the scene. Also disarms a
// pending delete.
func (e *EditSession) Cancel() {
	e.close()
}

func (e *EditSession) close() {
	e.state = SessionClosed
	e.objectID = ""
	e.Number = 0
	e.Capacity = 0
	e.Err = nil
	e.deleteArmed = false
}

// updateTable rewrites a table's number and capacity, keeping the visible
// label in sync.
func (s *Scene) updateTable(id, number string, capacity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta := s.meta[id]
	if meta == nil || meta.Kind != MetaTable {
		return false
	}
	node, ok := s.findNode(id)
	if !ok {
		return false
	}

	meta.Table.Number = number
	meta.Table.Capacity = capacity
	setGroupLabel(node, number)
	return true
}
