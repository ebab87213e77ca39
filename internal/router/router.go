package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/handler"
	"github.com/tutorhive/tutorhive-api/internal/middleware"
	"github.com/tutorhive/tutorhive-api/internal/service"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Auth     *handler.AuthHandler
	Packages *handler.PackageHandler
	Subjects *handler.SubjectHandler
	Bookings *handler.BookingHandler
	Reports  *handler.ReportHandler

	AuthService    *service.AuthService
	Metrics        *service.MetricsService
	ReportsEnabled bool
}

// Register wires the HTTP surface onto the engine. Three tiers: public
// catalog reads, session-authenticated booking routes, and admin writes.
func Register(r *gin.Engine, prefix string, deps Deps) {
	authed := middleware.Session(deps.AuthService)
	admin := middleware.RequireAdmin()

	api := r.Group(prefix)

	api.POST("/register", deps.Auth.Register)
	api.POST("/login", deps.Auth.Login)
	api.POST("/logout", authed, deps.Auth.Logout)
	api.GET("/user", authed, deps.Auth.CurrentUser)

	api.GET("/packages", deps.Packages.List)
	api.GET("/packages/:id", deps.Packages.Get)
	api.POST("/packages", authed, admin, deps.Packages.Create)

	api.GET("/subjects", deps.Subjects.List)
	api.GET("/subjects/:id", deps.Subjects.Get)
	api.POST("/subjects", authed, admin, deps.Subjects.Create)

	api.POST("/bookings", authed, deps.Bookings.Create)
	api.GET("/bookings", authed, deps.Bookings.List)
	api.GET("/bookings/:id", authed, deps.Bookings.Get)
	api.PATCH("/bookings/:id/status", authed, admin, deps.Bookings.UpdateStatus)

	adminGroup := api.Group("/admin", authed, admin)
	adminGroup.GET("/bookings", deps.Bookings.ListAll)
	if deps.ReportsEnabled && deps.Reports != nil {
		adminGroup.GET("/reports/bookings", deps.Reports.Bookings)
	}

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
}
