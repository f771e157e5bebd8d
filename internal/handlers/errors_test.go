package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/resume-ranker/internal/models"
)

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(zap.New(core))})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.5:5432: secret detail")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "candidate not found")
	})
	app.Get("/unavailable", func(c *fiber.Ctx) error {
		return fiber.ErrServiceUnavailable
	})

	tests := []struct {
		path    string
		code    int
		message string
		logged  bool
	}{
		{path: "/boom", code: fiber.StatusInternalServerError, message: InternalErrorMessage, logged: true},
		{path: "/missing", code: fiber.StatusNotFound, message: "candidate not found"},
		{path: "/unavailable", code: fiber.StatusServiceUnavailable, message: InternalErrorMessage, logged: true},
		{path: "/nope", code: fiber.StatusNotFound, message: "Cannot GET /nope"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			before := logs.Len()

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.message, body.Error)

			if tt.logged {
				require.Equal(t, before+1, logs.Len())
				entry := logs.All()[logs.Len()-1]
				assert.Equal(t, "unhandled request error", entry.Message)
				assert.Equal(t, tt.path, entry.ContextMap()["path"])
			} else {
				assert.Equal(t, before, logs.Len())
			}
		})
	}
}
