package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-board/internal/domain"
	"quiz-board/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestLogger())
	app.Get("/fail", func(c *fiber.Ctx) error { return err })
	return app
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "quiz not found",
			err:        domain.NewQuizNotFoundError("abc"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"Quiz not found"}`,
		},
		{
			name:       "generic not found",
			err:        domain.NewNotFoundError("No users found"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"message":"No users found"}`,
		},
		{
			name:       "invalid input",
			err:        domain.NewInvalidInputError("Request body is not valid JSON"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Request body is not valid JSON"}`,
		},
		{
			name:       "store failure hides details",
			err:        domain.NewStoreError("record submission", errors.New("secret dsn"), true),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal Server Error",
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal Server Error",
		},
		{
			name:       "fiber error",
			err:        fiber.NewError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   `{"message":"Method Not Allowed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newTestApp(tt.err).Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	verrs := domain.ValidationErrors{domain.NewMissingFieldError("userId")}
	resp, err := newTestApp(verrs).Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body dto.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Request validation failed", body.Message)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "userId", body.Errors[0].Field)
	assert.Equal(t, domain.CodeMissingField, body.Errors[0].Code)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	resp, err := newTestApp(nil).Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
