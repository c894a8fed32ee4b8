package middleware

import (
	"log"
	"time"

	"desaku-api/internal/adapters/cache"

	"github.com/gofiber/fiber/v2"
)

// ResponseCache serves public GET responses from the cache and bumps the
// resource version after every successful write through the same group.
func ResponseCache(store cache.Cache, resource string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		if c.Method() != fiber.MethodGet {
			err := c.Next()
			if err == nil && c.Response().StatusCode() < fiber.StatusBadRequest {
				if ierr := cache.Invalidate(ctx, store, resource); ierr != nil {
					log.Printf("⚠️ cache invalidate %s: %v", resource, ierr)
				}
			}
			return err
		}

		version, err := cache.Version(ctx, store, resource)
		if err != nil {
			log.Printf("⚠️ cache version %s: %v", resource, err)
			return c.Next()
		}

		query := make(map[string][]string)
		c.Context().QueryArgs().VisitAll(func(k, v []byte) {
			query[string(k)] = append(query[string(k)], string(v))
		})
		key := cache.ResponseKey(resource, version, c.Path(), query)

		if body, err := store.Get(ctx, key); err == nil {
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
			return c.Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		c.Set("X-Cache", "MISS")
		if c.Response().StatusCode() == fiber.StatusOK {
			body := append([]byte(nil), c.Response().Body()...)
			if err := store.Set(ctx, key, body, ttl); err != nil {
				log.Printf("⚠️ cache set %s: %v", resource, err)
			}
		}
		return nil
	}
}

// NoCacheHeaders sets no-cache headers
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")
		return c.Next()
	}
}
