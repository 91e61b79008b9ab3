package floorplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editorScene(t *testing.T) (*Scene, *Node) {
	t.Helper()
	scene := NewScene(DefaultWidth, DefaultHeight)
	node := scene.AddTable(ShapeSquare, 90, 90)
	return scene, node
}

func TestEditSessionOpensWithPrefilledValues(t *testing.T) {
	scene, node := editorScene(t)
	session := NewEditSession(scene)

	require.NoError(t, session.Open(node.ID))
	assert.Equal(t, SessionOpen, session.State())
	assert.Equal(t, 1, session.Number)
	assert.Equal(t, 4, session.Capacity)
	assert.NoError(t, session.Err)
}

func TestEditSessionRejectsNonTables(t *testing.T) {
	scene, _ := editorScene(t)
	wall := scene.AddWall(Horizontal, 300, 90)
	session := NewEditSession(scene)

	assert.ErrorIs(t, session.Open(wall.ID), ErrNotATable)
	assert.ErrorIs(t, session.Open("missing"), ErrNotATable)
	assert.Equal(t, SessionClosed, session.State())
}

func TestEditSessionSaveAppliesChanges(t *testing.T) {
	scene, node := editorScene(t)
	session := NewEditSession(scene)
	require.NoError(t, session.Open(node.ID))

	session.Number = 42
	session.Capacity = 8
	require.NoError(t, session.Save())
	assert.Equal(t, SessionClosed, session.State())

	meta := scene.MetaFor(node.ID)
	assert.Equal(t, "T42", meta.Table.Number)
	assert.Equal(t, 8, meta.Table.Capacity)

	// The visible label follows the saved number.
	updated, ok := scene.Object(node.ID)
	require.True(t, ok)
	for _, child := range updated.Children {
		if child.Type == NodeText {
			assert.Equal(t, "T42", child.Text)
		}
	}
}

func TestEditSessionValidation(t *testing.T) {
	tests := []struct {
		name     string
		number   int
		capacity int
		wantErr  error
	}{
		{"number too low", 0, 4, ErrNumberRange},
		{"number too high", 100, 4, ErrNumberRange},
		{"capacity too low", 5, 0, ErrCapacityRange},
		{"capacity too high", 5, 21, ErrCapacityRange},
		{"both bounds ok", 99, 20, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene, node := editorScene(t)
			session := NewEditSession(scene)
			require.NoError(t, session.Open(node.ID))

			session.Number = tt.number
			session.Capacity = tt.capacity
			err := session.Save()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, SessionOpen, session.State())
				assert.ErrorIs(t, session.Err, tt.wantErr)
				// Scene untouched on a failed save.
				assert.Equal(t, "T01", scene.MetaFor(node.ID).Table.Number)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, SessionClosed, session.State())
			}
		})
	}
}

func TestEditSessionDuplicateNumberRejected(t *testing.T) {
	scene, first := editorScene(t)
	scene.AddTable(ShapeSquare, 210, 90) // T02
	session := NewEditSession(scene)
	require.NoError(t, session.Open(first.ID))

	session.Number = 2
	assert.ErrorIs(t, session.Save(), ErrDuplicateTableNumber)
	assert.Equal(t, SessionOpen, session.State())
	assert.Equal(t, "T01", scene.MetaFor(first.ID).Table.Number)

	// Keeping its own number is not a collision.
	session.Number = 1
	session.Capacity = 6
	assert.NoError(t, session.Save())
	assert.Equal(t, 6, scene.MetaFor(first.ID).Table.Capacity)
}

func TestEditSessionFailedSaveRecovers(t *testing.T) {
	scene, node := editorScene(t)
	session := NewEditSession(scene)
	require.NoError(t, session.Open(node.ID))

	session.Number = 500
	require.Error(t, session.Save())

	session.Number = 5
	require.NoError(t, session.Save())
	assert.Equal(t, "T05", scene.MetaFor(node.ID).Table.Number)
}

func TestEditSessionDeleteIsTwoStep(t *testing.T) {
	scene, node := editorScene(t)
	session := NewEditSession(scene)
	require.NoError(t, session.Open(node.ID))

	// Confirm without a prior request is rejected.
	assert.ErrorIs(t, session.ConfirmDelete(), ErrDeleteNotArmed)
	assert.Equal(t, 1, scene.TableCount())

	require.NoError(t, session.RequestDelete())
	assert.True(t, session.DeleteArmed())
	require.NoError(t, session.ConfirmDelete())

	assert.Equal(t, SessionClosed, session.State())
	assert.Zero(t, scene.TableCount())
}

func TestEditSessionCancelKeepsScene(t *testing.T) {
	scene, node := editorScene(t)
	session := NewEditSession(scene)
	require.NoError(t, session.Open(node.ID))

	session.Number = 50
	session.RequestDelete()
	session.Cancel()

	assert.Equal(t, SessionClosed, session.State())
	assert.False(t, session.DeleteArmed())
	assert.Equal(t, "T01", scene.MetaFor(node.ID).Table.Number)
	assert.Equal(t, 1, scene.TableCount())
}

func TestEditSessionClosedOperationsFail(t *testing.T) {
	scene, _ := editorScene(t)
	session := NewEditSession(scene)

	assert.ErrorIs(t, session.Save(), ErrSessionClosed)
	assert.ErrorIs(t, session.RequestDelete(), ErrSessionClosed)
	assert.ErrorIs(t, session.ConfirmDelete(), ErrSessionClosed)
}
