package api

import "github.com/labstack/echo/v4"

// RegisterRoutes binds the user endpoints to e. Unknown paths and methods
// fall through to echo's 404 and 405 handling.
func RegisterRoutes(e *echo.Echo, h *UserHandler) {
	e.GET("/", h.Index)
	e.POST("/users", h.CreateUser)
	e.GET("/users/:id", h.GetUser)
	e.PUT("/users/:id", h.UpdateUser)
	e.DELETE("/users/:id", h.DeleteUser)
}
