package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/talentsmy/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Order    *apiHandler.OrderHandler
	Supplier *apiHandler.SupplierHandler
	Package  *apiHandler.PackageHandler
	Tracking *apiHandler.TrackingHandler
	Activity *apiHandler.ActivityHandler
	Stats    *apiHandler.StatsHandler
	Health   *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public routes
	r.POST("/api/send-otp", handlers.Auth.SendOTP)
	r.POST("/api/verify-otp", handlers.Auth.VerifyOTP)
	r.GET("/api/track/{code}", handlers.Tracking.Track)

	// Protected routes
	r.GET("/api/v1/orders", authMiddleware(handlers.Order.List))
	r.POST("/api/v1/orders", authMiddleware(handlers.Order.Create))
	r.GET("/api/v1/orders/export", authMiddleware(handlers.Stats.ExportOrders))
	r.GET("/api/v1/orders/{id}", authMiddleware(handlers.Order.Get))
	r.PUT("/api/v1/orders/{id}", authMiddleware(handlers.Order.Update))
	r.DELETE("/api/v1/orders/{id}", authMiddleware(handlers.Order.Delete))

	r.POST("/api/v1/orders/{id}/progress", authMiddleware(handlers.Order.SetProgress))
	r.POST("/api/v1/orders/{id}/supplier-progress", authMiddleware(handlers.Order.SetSupplierProgress))
	r.POST("/api/v1/orders/{id}/payment/mark", authMiddleware(handlers.Order.MarkPayment))
	r.POST("/api/v1/orders/{id}/payment/verify", authMiddleware(handlers.Order.VerifyPayment))
	r.POST("/api/v1/orders/{id}/payment/dispute", authMiddleware(handlers.Order.DisputePayment))
	r.POST("/api/v1/orders/{id}/supplier", authMiddleware(handlers.Order.AssignSupplier))
	r.POST("/api/v1/orders/{id}/shipment-proof", authMiddleware(handlers.Order.SetShipmentProof))
	r.POST("/api/v1/orders/{id}/notes", authMiddleware(handlers.Order.AddNote))
	r.DELETE("/api/v1/orders/{id}/notes/{noteId}", authMiddleware(handlers.Order.DeleteNote))

	r.GET("/api/v1/suppliers", authMiddleware(handlers.Supplier.List))
	r.POST("/api/v1/suppliers", authMiddleware(handlers.Supplier.Create))
	r.GET("/api/v1/suppliers/{id}", authMiddleware(handlers.Supplier.Get))
	r.PUT("/api/v1/suppliers/{id}", authMiddleware(handlers.Supplier.Update))
	r.DELETE("/api/v1/suppliers/{id}", authMiddleware(handlers.Supplier.Delete))

	r.GET("/api/v1/packages", authMiddleware(handlers.Package.List))
	r.POST("/api/v1/packages", authMiddleware(handlers.Package.Create))
	r.GET("/api/v1/packages/{id}", authMiddleware(handlers.Package.Get))
	r.PUT("/api/v1/packages/{id}", authMiddleware(handlers.Package.Update))
	r.DELETE("/api/v1/packages/{id}", authMiddleware(handlers.Package.Delete))

	r.GET("/api/v1/activity", authMiddleware(handlers.Activity.List))
	r.GET("/api/v1/stats", authMiddleware(handlers.Stats.Dashboard))

	return r
}
