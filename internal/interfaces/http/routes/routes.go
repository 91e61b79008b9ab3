// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/barbuddie/pos-terminal/internal/domain/area"
	"github.com/barbuddie/pos-terminal/internal/domain/cart"
	"github.com/barbuddie/pos-terminal/internal/domain/workflow"
	"github.com/barbuddie/pos-terminal/internal/interfaces/http/handlers"
	"github.com/barbuddie/pos-terminal/internal/pkg/auth"
	"github.com/barbuddie/pos-terminal/internal/pkg/receipt"
)

// Deps carries the wired services the route handlers need.
type Deps struct {
	Cart     *cart.Service
	Areas    *area.Manager
	Workflow *workflow.Service
	Session  *auth.Session
	Pins     *auth.PinCache
	Receipt  *receipt.Service
	Logger   *logrus.Logger
}

// SetupRoutes registers all terminal routes on the group.
func SetupRoutes(rg *gin.RouterGroup, deps Deps) {
	setupAuthRoutes(rg, deps)
	setupCartRoutes(rg, deps)
	setupFloorPlanRoutes(rg, deps)
	setupOrderRoutes(rg, deps)
}

func setupAuthRoutes(rg *gin.RouterGroup, deps Deps) {
	authHandler := handlers.NewAuthHandler(deps.Session, deps.Pins, deps.Logger)

	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/pin-login", authHandler.PinLogin)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/session", authHandler.GetSession)
	}
}

func setupCartRoutes(rg *gin.RouterGroup, deps Deps) {
	cartHandler := handlers.NewCartHandler(deps.Cart)

	cartGroup := rg.Group("/cart")
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.DELETE("", cartHandler.Clear)
		cartGroup.POST("/items", cartHandler.AddItem)
		cartGroup.PUT("/items/:id", cartHandler.UpdateQuantity)
		cartGroup.PUT("/items/:id/notes", cartHandler.UpdateNotes)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveItem)
		cartGroup.PUT("/table", cartHandler.SetTable)
		cartGroup.PUT("/notes", cartHandler.SetOrderNotes)
	}
}

func setupFloorPlanRoutes(rg *gin.RouterGroup, deps Deps) {
	planHandler := handlers.NewFloorPlanHandler(deps.Areas)
	viewHandler := handlers.NewFloorViewHandler(deps.Areas)

	areas := rg.Group("/areas")
	{
		areas.GET("/:areaId/scene", planHandler.GetScene)
		areas.POST("/:areaId/tables", planHandler.AddTable)
		areas.POST("/:areaId/walls", planHandler.AddWall)
		areas.POST("/:areaId/doors", planHandler.AddDoor)
		areas.PUT("/:areaId/objects/:objectId/position", planHandler.MoveObject)
		areas.POST("/:areaId/objects/:objectId/copy", planHandler.CopyObject)
		areas.POST("/:areaId/paste", planHandler.Paste)
		areas.DELETE("/:areaId/objects/:objectId", planHandler.DeleteObject)
		areas.POST("/:areaId/save", planHandler.SaveArea)
		areas.DELETE("/:areaId", planHandler.DeleteArea)

		// Table edit session
		areas.POST("/:areaId/tables/:objectId/edit", planHandler.OpenEdit)
		areas.PUT("/:areaId/tables/:objectId/edit", planHandler.SaveEdit)
		areas.POST("/:areaId/tables/:objectId/edit/delete", planHandler.RequestDelete)
		areas.POST("/:areaId/tables/:objectId/edit/confirm", planHandler.ConfirmDelete)
		areas.POST("/:areaId/tables/:objectId/edit/cancel", planHandler.CancelEdit)
	}

	floor := rg.Group("/floor")
	{
		floor.GET("/:areaId", viewHandler.GetOccupancy)
		floor.POST("/:areaId/click", viewHandler.ClickTable)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, deps Deps) {
	orderHandler := handlers.NewOrderHandler(deps.Workflow, deps.Cart, deps.Receipt)

	rg.GET("/orders", orderHandler.ListOrders)
	rg.POST("/orders", orderHandler.SubmitOrder)
	rg.POST("/sales", orderHandler.SubmitSale)
	rg.POST("/tables/:costCenterId/settle", orderHandler.SettleTable)
	rg.GET("/prebill", orderHandler.Prebill)
}
