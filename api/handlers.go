// Package api serves the users table over HTTP with echo. Response bodies and
// messages keep the Spanish wire format existing clients depend on.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Skryldev/user-api/db"
	"github.com/Skryldev/user-api/models"
	"github.com/Skryldev/user-api/repo"
)

// Response messages.
const (
	msgWelcome    = "Bienvenido al servidor API!"
	msgCreated    = "Usuario creado con éxito"
	msgUpdated    = "Usuario actualizado con éxito"
	msgDeleted    = "Usuario eliminado"
	msgInvalidID  = "ID inválido"
	msgNotFound   = "Usuario no encontrado"
	msgQueryError = "Error al consultar la base de datos"
)

var errEmptyBody = errors.New("request body is empty")

// UserHandler holds the dependencies of the user endpoints. It is safe for
// concurrent use; all shared state lives in the repository's pool.
type UserHandler struct {
	repo   repo.UserRepository
	logger zerolog.Logger
}

// NewUserHandler creates a new instance of UserHandler
func NewUserHandler(r repo.UserRepository, logger zerolog.Logger) *UserHandler {
	return &UserHandler{repo: r, logger: logger}
}

// Index greets the caller --> GET /
func (h *UserHandler) Index(c echo.Context) error {
	return c.String(http.StatusOK, msgWelcome)
}

// CreateUser inserts a user --> POST /users
func (h *UserHandler) CreateUser(c echo.Context) error {
	var params models.NewUser
	if err := bindBody(c, &params); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(bindErrorMessage(err)))
	}

	id, err := h.repo.Insert(c.Request().Context(), params)
	if err != nil {
		h.log(c).Error().Err(err).Msg("create user")
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}

	h.log(c).Info().Int64("user_id", id).Msg("user created")
	return c.JSON(http.StatusCreated, map[string]any{
		"message": msgCreated,
		"id":      id,
	})
}

// GetUser returns one user --> GET /users/:id
// Failure bodies are bare JSON strings.
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, msgInvalidID)
	}

	user, err := h.repo.GetByID(c.Request().Context(), id)
	switch {
	case db.IsNotFound(err):
		return c.JSON(http.StatusNotFound, msgNotFound)
	case err != nil:
		h.log(c).Error().Err(err).Int64("user_id", id).Msg("get user")
		return c.JSON(http.StatusInternalServerError, msgQueryError)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser replaces name and email --> PUT /users/:id
// Answers 200 even when no row has the id.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, msgInvalidID)
	}
	var params models.UpdateUser
	if err := bindBody(c, &params); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(bindErrorMessage(err)))
	}

	n, err := h.repo.Update(c.Request().Context(), id, params)
	if err != nil {
		h.log(c).Error().Err(err).Int64("user_id", id).Msg("update user")
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	if n == 0 {
		h.log(c).Debug().Int64("user_id", id).Msg("update matched no rows")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msgUpdated})
}

// DeleteUser removes a user --> DELETE /users/:id
// Answers 200 even when no row has the id.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, msgInvalidID)
	}

	n, err := h.repo.Delete(c.Request().Context(), id)
	if err != nil {
		h.log(c).Error().Err(err).Int64("user_id", id).Msg("delete user")
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}
	if n == 0 {
		h.log(c).Debug().Int64("user_id", id).Msg("delete matched no rows")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": msgDeleted})
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// log prefers the request-scoped logger installed by the server middleware.
func (h *UserHandler) log(c echo.Context) *zerolog.Logger {
	if l := zerolog.Ctx(c.Request().Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &h.logger
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

// bindBody decodes the JSON body into v. echo skips empty bodies, which
// would otherwise leave v zero-valued.
func bindBody(c echo.Context, v any) error {
	if c.Request().ContentLength == 0 {
		return errEmptyBody
	}
	return c.Bind(v)
}

func bindErrorMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
