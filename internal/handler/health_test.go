package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"quiz-board/internal/handler"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	healthy := handler.NewHealthHandler(map[string]handler.Pinger{
		"cache": handler.PingFunc(func(context.Context) error { return nil }),
	})
	app := fiber.New()
	app.Get("/healthz", healthy.Health)

	resp, raw := doJSON(t, app, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))

	down := handler.NewHealthHandler(map[string]handler.Pinger{
		"cache": handler.PingFunc(func(context.Context) error { return errors.New("refused") }),
	})
	app = fiber.New()
	app.Get("/healthz", down.Health)

	resp, raw = doJSON(t, app, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.JSONEq(t, `{"status":"cache unavailable"}`, string(raw))
}
