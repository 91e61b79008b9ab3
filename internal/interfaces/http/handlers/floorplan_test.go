package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbuddie/pos-terminal/internal/domain/area"
	"github.com/barbuddie/pos-terminal/internal/domain/floorplan"
	"github.com/barbuddie/pos-terminal/internal/infrastructure/backend"
)

type stubPlanAPI struct{}

func (stubPlanAPI) GetFloorPlan(ctx context.Context, areaID string) (*backend.FloorPlan, error) {
	return nil, nil
}

func (stubPlanAPI) SyncFloorPlan(ctx context.Context, plan *backend.FloorPlan) (*backend.SyncFloorPlanResponse, error) {
	return &backend.SyncFloorPlanResponse{Plan: *plan}, nil
}

func (stubPlanAPI) DeleteFloorPlan(ctx context.Context, areaID string) error {
	return nil
}

func (stubPlanAPI) CheckTableNumber(ctx context.Context, number string) (*backend.CheckTableNumberResponse, error) {
	return &backend.CheckTableNumberResponse{Available: true}, nil
}

func (stubPlanAPI) TablesWithOrders(ctx context.Context) ([]backend.TableWithOrders, error) {
	return nil, nil
}

func planContext(t *testing.T, method, body, areaID, objectID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	c.Params = gin.Params{{Key: "areaId", Value: areaID}}
	if objectID != "" {
		c.Params = append(c.Params, gin.Param{Key: "objectId", Value: objectID})
	}
	return c, w
}

func TestEditSessionRebindsAfterAreaDelete(t *testing.T) {
	manager := area.NewManager(stubPlanAPI{}, 900, 600, nil)
	h := NewFloorPlanHandler(manager)
	ctx := context.Background()

	scene, err := manager.Scene(ctx, "main")
	require.NoError(t, err)
	stale := scene.AddTable(floorplan.ShapeSquare, 60, 60)

	c, w := planContext(t, http.MethodPost, "", "main", stale.ID)
	h.OpenEdit(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = planContext(t, http.MethodDelete, "", "main", "")
	h.DeleteArea(c)
	// c.Status defers the write; outside the gin engine the recorder only
	// sees it after an explicit flush.
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	// The area reloads into a fresh scene instance; the session must follow.
	fresh, err := manager.Scene(ctx, "main")
	require.NoError(t, err)
	require.NotSame(t, scene, fresh)
	table := fresh.AddTable(floorplan.ShapeSquare, 120, 60)

	c, w = planContext(t, http.MethodPost, "", "main", table.ID)
	h.OpenEdit(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = planContext(t, http.MethodPut, `{"number":7,"capacity":4}`, "main", table.ID)
	h.SaveEdit(c)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"T07"}, fresh.TableNumbers())
}
