package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/weight-pals/weight_pals/internal/config"
	"github.com/weight-pals/weight_pals/internal/logging"
	"github.com/weight-pals/weight_pals/internal/middleware"
	"github.com/weight-pals/weight_pals/internal/revocation"
)

func testConfig() config.Config {
	return config.Config{
		AppName:        "WeightPals",
		AppEnv:         "development",
		Secret:         "test-secret",
		TokenTTL:       24 * time.Hour,
		BcryptCost:     bcrypt.MinCost,
		SweepInterval:  24 * time.Minute,
		LoginRateLimit: 50,
		IdempotencyTTL: time.Hour,
	}
}

func newTestApp(t *testing.T) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	err = Setup(app, Deps{
		Cfg:      testConfig(),
		Cache:    client,
		Registry: revocation.NewRegistry(client),
		Logger:   logging.Discard(),
	})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return app, mr
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func registerAndLogin(t *testing.T, app *fiber.App, username, password string) (string, string) {
	t.Helper()
	status, body := do(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"username":  username,
		"email":     username + "@example.com",
		"full_name": map[string]string{"first_name": "James", "last_name": "May"},
		"password":  password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d body %v", username, status, body)
	}
	status, body = do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"username": username, "password": password})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", username, status, body)
	}
	token, _ := body["accessToken"].(string)
	id, _ := body["id"].(string)
	if token == "" || id == "" {
		t.Fatalf("login response missing token or id: %v", body)
	}
	if _, leaked := body["password_hash"]; leaked {
		t.Fatalf("login response leaks password hash: %v", body)
	}
	return token, id
}

func TestAuthLifecycle(t *testing.T) {
	app, mr := newTestApp(t)
	token, id := registerAndLogin(t, app, "u1", "p1")

	status, body := do(t, app, fiber.MethodGet, "/api/auth/validate", token, nil)
	if status != http.StatusOK || body["id"] != id || body["username"] != "u1" {
		t.Fatalf("validate: status %d body %v", status, body)
	}

	status, body = do(t, app, fiber.MethodPost, "/api/auth/logout", token, nil)
	if status != http.StatusOK || body["message"] != "User successfully logged out" {
		t.Fatalf("logout: status %d body %v", status, body)
	}
	if ok, _ := mr.SIsMember(revocation.DefaultKey, token); !ok {
		t.Fatalf("token should be in the revocation set")
	}

	// A revoked token no longer passes the bearer check.
	status, _ = do(t, app, fiber.MethodPost, "/api/auth/logout", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("second logout: expected 401, got %d", status)
	}
	status, _ = do(t, app, fiber.MethodGet, "/api/auth/validate", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("validate after logout: expected 401, got %d", status)
	}

	// The periodic reset forgets the revocation.
	mr.Del(revocation.DefaultKey)
	status, _ = do(t, app, fiber.MethodGet, "/api/auth/validate", token, nil)
	if status != http.StatusOK {
		t.Fatalf("validate after sweep: expected 200, got %d", status)
	}
}

func TestAuthFailures(t *testing.T) {
	app, _ := newTestApp(t)
	registerAndLogin(t, app, "u2", "p2")

	status, body := do(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"username":  "u2",
		"email":     "other@example.com",
		"full_name": map[string]string{"first_name": "X"},
		"password":  "pw",
	})
	if status != http.StatusConflict || body["message"] != "error registering user" {
		t.Fatalf("duplicate register: status %d body %v", status, body)
	}

	status, body = do(t, app, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"username":  "longpw",
		"email":     "longpw@example.com",
		"full_name": map[string]string{"first_name": "L"},
		"password":  strings.Repeat("a", 80),
	})
	if status != http.StatusBadRequest || body["message"] != "error registering user" {
		t.Fatalf("overlong password: status %d body %v", status, body)
	}

	status, wrong := do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"username": "u2", "password": "wrong"})
	if status != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", status)
	}
	status, unknown := do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"username": "nobody", "password": "p2"})
	if status != http.StatusUnauthorized || unknown["message"] != wrong["message"] {
		t.Fatalf("unknown user: status %d body %v vs %v", status, unknown, wrong)
	}

	status, _ = do(t, app, fiber.MethodGet, "/api/auth/validate", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("missing bearer: expected 401, got %d", status)
	}
	status, _ = do(t, app, fiber.MethodGet, "/api/auth/validate", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("garbage bearer: expected 401, got %d", status)
	}
}

func TestChangePasswordRoute(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerAndLogin(t, app, "u3", "old")

	status, _ := do(t, app, fiber.MethodPut, "/api/auth/password", token, map[string]string{"old_password": "bad", "new_password": "new"})
	if status != http.StatusUnauthorized {
		t.Fatalf("bad old password: expected 401, got %d", status)
	}
	status, body := do(t, app, fiber.MethodPut, "/api/auth/password", token, map[string]string{"old_password": "old", "new_password": "new"})
	if status != http.StatusOK || body["message"] != "Successfully changed password" {
		t.Fatalf("change password: status %d body %v", status, body)
	}
	status, _ = do(t, app, fiber.MethodPost, "/api/auth/login", "", map[string]string{"username": "u3", "password": "new"})
	if status != http.StatusOK {
		t.Fatalf("login with new password: got %d", status)
	}
}

func TestRegistryOutageFailsClosed(t *testing.T) {
	app, mr := newTestApp(t)
	token, _ := registerAndLogin(t, app, "u4", "p4")

	mr.SetError("LOADING")
	status, _ := do(t, app, fiber.MethodGet, "/api/auth/validate", token, nil)
	if status == http.StatusOK {
		t.Fatalf("protected route must not pass while the registry is failing")
	}
	mr.SetError("")

	status, body := do(t, app, fiber.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK {
		t.Fatalf("healthz: status %d body %v", status, body)
	}
}

func TestWeightsAndFriends(t *testing.T) {
	app, _ := newTestApp(t)
	james, _ := registerAndLogin(t, app, "jamesmay", "pw")
	richard, richardID := registerAndLogin(t, app, "hammond", "pw")

	status, body := do(t, app, fiber.MethodPost, "/api/users/me/weights", richard, map[string]any{"weight": 70.4})
	if status != http.StatusCreated {
		t.Fatalf("log weight: status %d body %v", status, body)
	}
	status, _ = do(t, app, fiber.MethodPost, "/api/users/me/weights", richard, map[string]any{"weight": 70.1})
	if status != http.StatusConflict {
		t.Fatalf("second weight same day: expected 409, got %d", status)
	}
	status, _ = do(t, app, fiber.MethodPost, "/api/users/me/weights", richard, map[string]any{"weight": -1})
	if status != http.StatusBadRequest {
		t.Fatalf("negative weight: expected 400, got %d", status)
	}

	status, body = do(t, app, fiber.MethodPost, "/api/users/me/friends", james, map[string]string{"friend_id": richardID})
	if status != http.StatusCreated || body["username"] != "hammond" {
		t.Fatalf("add friend: status %d body %v", status, body)
	}

	status, body = do(t, app, fiber.MethodGet, "/api/users/me/friends/weights", james, nil)
	if status != http.StatusOK {
		t.Fatalf("friend weights: status %d", status)
	}
	list, _ := body["friends"].([]any)
	if len(list) != 1 {
		t.Fatalf("expected one friend log, got %v", body)
	}
	logs, _ := list[0].(map[string]any)["weight_log"].([]any)
	if len(logs) != 1 {
		t.Fatalf("expected one weight entry, got %v", list[0])
	}

	status, body = do(t, app, fiber.MethodGet, "/api/users/"+richardID+"/name", james, nil)
	name, _ := body["full_name"].(map[string]any)
	if status != http.StatusOK || name["first_name"] != "James" {
		t.Fatalf("name lookup: status %d body %v", status, body)
	}

	status, _ = do(t, app, fiber.MethodDelete, "/api/users/me/friends/"+richardID, james, nil)
	if status != http.StatusNoContent {
		t.Fatalf("remove friend: expected 204, got %d", status)
	}
	status, _ = do(t, app, fiber.MethodDelete, "/api/users/me/friends/"+richardID, james, nil)
	if status != http.StatusNotFound {
		t.Fatalf("remove twice: expected 404, got %d", status)
	}
}

func TestSetupRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = "production"
	if err := Setup(fiber.New(), Deps{Cfg: cfg, Logger: logging.Discard()}); err == nil {
		t.Fatalf("expected error without a database in production")
	}
}
