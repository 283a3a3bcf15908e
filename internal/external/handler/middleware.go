// Package handler exposes the external-service HTTP surface: the report
// intake API and the WebSocket attach endpoint, both behind API-key auth.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/bonghwa-lab/bonghwa-gateway/internal/external/repository"
)

const (
	headerSystemName = "x-system-name"
	headerAPIKey     = "x-api-key"

	ctxSystemKey = "external_system"
)

// APIKeyAuth authenticates each request against the subscriber registry and
// stashes the resolved system in the echo context.
func APIKeyAuth(store repository.Querier, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			name := c.Request().Header.Get(headerSystemName)
			apiKey := c.Request().Header.Get(headerAPIKey)
			if name == "" || apiKey == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing credentials"})
			}

			system, err := store.GetExternalSystemByCredentials(c.Request().Context(), name, apiKey)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
				}
				logger.Error("credential lookup failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
			}

			c.Set(ctxSystemKey, system)
			return next(c)
		}
	}
}

// systemFromContext retrieves the system stored by APIKeyAuth.
func systemFromContext(c echo.Context) (repository.ExternalSystem, bool) {
	system, ok := c.Get(ctxSystemKey).(repository.ExternalSystem)
	return system, ok
}
