package router

import (
	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/handler"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/middleware"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/model"
)

// RegisterAdmin registers account management and exports, all restricted
// to ADMIN.
func RegisterAdmin(g *echo.Group, a *handler.AuthHandler, x *handler.ExportHandler) {
	admin := middleware.RequireRole(model.RoleAdmin)

	g.GET("/users", a.ListUsers, admin)
	g.GET("/users/:id", a.GetUser, admin)
	g.DELETE("/users/:id", a.DeleteUser, admin)

	g.GET("/admin/export/theses.xlsx", x.ThesesXLSX, admin)
}
