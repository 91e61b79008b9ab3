// internal/domain/area/manager.go
package area

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/barbuddie/pos-terminal/internal/domain/floorplan"
	"github.com/barbuddie/pos-terminal/internal/infrastructure/backend"
)

// API is the slice of the backend client the manager needs.
type API interface {
	GetFloorPlan(ctx context.Context, areaID string) (*backend.FloorPlan, error)
	SyncFloorPlan(ctx context.Context, plan *backend.FloorPlan) (*backend.SyncFloorPlanResponse, error)
	DeleteFloorPlan(ctx context.Context, areaID string) error
	CheckTableNumber(ctx context.Context, number string) (*backend.CheckTableNumberResponse, error)
	TablesWithOrders(ctx context.Context) ([]backend.TableWithOrders, error)
}

// Manager owns the floor-plan scenes, one per area, and coordinates them
// with the backend: loading saved plans, syncing edits, and refreshing
// occupancy for the floor view.
type Manager struct {
	api    API
	logger *logrus.Logger
	width  float64
	height float64

	mu       sync.Mutex
	scenes   map[string]*floorplan.Scene
	statuses map[string][]floorplan.TableStatus
}

// NewManager creates an area manager with the given canvas dimensions.
func NewManager(api API, width, height float64, logger *logrus.Logger) *Manager {
	if logger == nil {
		logger = logrus.New()
	}
	return &Manager{
		api:      api,
		logger:   logger,
		width:    width,
		height:   height,
		scenes:   map[string]*floorplan.Scene{},
		statuses: map[string][]floorplan.TableStatus{},
	}
}

// Scene returns the in-memory scene for an area, loading it from the
// backend on first access. An area without a saved plan, or with a plan
// that fails to parse, starts from an empty grid.
func (m *Manager) Scene(ctx context.Context, areaID string) (*floorplan.Scene, error) {
	m.mu.Lock()
	if scene, ok := m.scenes[areaID]; ok {
		m.mu.Unlock()
		return scene, nil
	}
	m.mu.Unlock()

	plan, err := m.api.GetFloorPlan(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to load floor plan for %s: %w", areaID, err)
	}

	var scene *floorplan.Scene
	if plan == nil {
		m.logger.WithField("area", areaID).Info("No saved floor plan, starting empty")
		scene = floorplan.NewScene(m.width, m.height)
	} else {
		scene = floorplan.ImportJSON(plan.CanvasJSON, m.width, m.height, m.logger)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another loader may have won the race; keep the first scene so every
	// caller edits the same instance.
	if existing, ok := m.scenes[areaID]; ok {
		return existing, nil
	}
	m.scenes[areaID] = scene
	return scene, nil
}

// Save validates and syncs an area's scene to the backend. Numbers are
// unique within the scene by construction; the backend check guards
// collisions with tables in other areas.
func (m *Manager) Save(ctx context.Context, areaID, name string) (*backend.SyncFloorPlanResponse, error) {
	if name == "" {
		return nil, floorplan.ErrEmptyAreaName
	}

	m.mu.Lock()
	scene, ok := m.scenes[areaID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("area %s has no scene loaded", areaID)
	}
	if scene.TableCount() == 0 {
		return nil, floorplan.ErrNoTables
	}

	for _, number := range scene.TableNumbers() {
		check, err := m.api.CheckTableNumber(ctx, number)
		if err != nil {
			return nil, fmt.Errorf("failed to check table number %s: %w", number, err)
		}
		if !check.Available && check.UsedBy != areaID {
			return nil, fmt.Errorf("%w: %s is used by area %s", floorplan.ErrDuplicateTableNumber, number, check.UsedBy)
		}
	}

	doc, tables := floorplan.Export(scene)
	raw, err := floorplan.MarshalDocument(doc)
	if err != nil {
		return nil, err
	}

	plan := &backend.FloorPlan{
		Name:         name,
		CanvasWidth:  scene.Width,
		CanvasHeight: scene.Height,
		CanvasJSON:   raw,
		Tables:       tables,
	}

	saved, err := m.api.SyncFloorPlan(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to sync floor plan: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"area":        areaID,
		"tables":      len(tables),
		"created":     saved.TablesCreated,
		"updated":     saved.TablesUpdated,
		"deactivated": saved.TablesDeactivated,
	}).Info("Floor plan synced")
	return saved, nil
}

// Delete removes an area's plan from the backend and drops the local scene.
func (m *Manager) Delete(ctx context.Context, areaID string) error {
	if err := m.api.DeleteFloorPlan(ctx, areaID); err != nil {
		return fmt.Errorf("failed to delete floor plan: %w", err)
	}

	m.mu.Lock()
	delete(m.scenes, areaID)
	delete(m.statuses, areaID)
	m.mu.Unlock()
	return nil
}

// RefreshOccupancy pulls the live table statuses and recolors the area's
// scene. The statuses are kept for click resolution.
func (m *Manager) RefreshOccupancy(ctx context.Context, areaID string) error {
	scene, err := m.Scene(ctx, areaID)
	if err != nil {
		return err
	}

	wire, err := m.api.TablesWithOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch table occupancy: %w", err)
	}

	statuses := make([]floorplan.TableStatus, 0, len(wire))
	for _, w := range wire {
		statuses = append(statuses, w.Status())
	}

	floorplan.ApplyOccupancy(scene, statuses)

	m.mu.Lock()
	m.statuses[areaID] = statuses
	m.mu.Unlock()
	return nil
}

// ClickTable resolves a click on a table to its live status using the last
// refreshed occupancy list. Unknown tables resolve to nil.
func (m *Manager) ClickTable(ctx context.Context, areaID, objectID string) (*floorplan.TableStatus, error) {
	scene, err := m.Scene(ctx, areaID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	statuses := m.statuses[areaID]
	m.mu.Unlock()

	return floorplan.ResolveClick(scene, objectID, statuses, m.logger), nil
}
