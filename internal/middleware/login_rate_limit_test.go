package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/weight-pals/weight_pals/internal/logging"
)

func TestLoginRateLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Post("/login", LoginRateLimit(cache, 2, logging.Discard()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	send := func(username string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(`{"username":"`+username+`"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}

	for i := 0; i < 2; i++ {
		if got := send("u1"); got != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, got)
		}
	}
	if got := send("u1"); got != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", got)
	}
	if got := send("u2"); got != fiber.StatusOK {
		t.Fatalf("other usernames must not be limited, got %d", got)
	}
	if ttl := mr.TTL(loginRateLimitPrefix + "u1"); ttl <= 0 {
		t.Fatalf("expected counter to expire, ttl=%s", ttl)
	}

	mr.FastForward(mr.TTL(loginRateLimitPrefix + "u1"))
	if got := send("u1"); got != fiber.StatusOK {
		t.Fatalf("expected limit to reset after a minute, got %d", got)
	}
}

func TestLoginRateLimitWithoutCache(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimit(nil, 1, nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected pass-through without redis, got %d", resp.StatusCode)
		}
	}
}
