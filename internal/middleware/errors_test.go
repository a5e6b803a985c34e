package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestErrorHandlerRendersJSON(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/conflict", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusConflict, "error registering user") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("dial tcp 10.0.0.1:5432: refused") })

	cases := []struct {
		path   string
		status int
		msg    string
	}{
		{"/conflict", fiber.StatusConflict, "error registering user"},
		{"/boom", fiber.StatusInternalServerError, "internal error"},
		{"/missing", fiber.StatusNotFound, "Cannot GET /missing"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("%s: decode: %v", tc.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tc.status || body["message"] != tc.msg {
			t.Fatalf("%s: got %d %q", tc.path, resp.StatusCode, body["message"])
		}
	}
}
