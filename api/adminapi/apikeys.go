package adminapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/go-idp/keybridge/storage/model"
)

// HeaderAPIKey is the request header carrying the api key id.
const HeaderAPIKey = "X-API-Key"

// registerAPIKeys wires routes for managing scoped api keys.
func registerAPIKeys(r fiber.Router, apiKeys model.APIKeyStore) {
	g := r.Group("/api-keys")

	g.Get(
		"/", func(c *fiber.Ctx) error {
			list, err := apiKeys.List()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.JSON(list)
		},
	)

	g.Post(
		"/", func(c *fiber.Ctx) error {
			var req model.CreateAPIKey
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("invalid body"))
			}
			key, err := apiKeys.Create(req)
			if err != nil {
				return apiKeyError(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(key)
		},
	)

	g.Get(
		"/:id", func(c *fiber.Ctx) error {
			key, err := apiKeys.Get(c.Params("id"))
			if err != nil {
				return apiKeyError(c, err)
			}
			return c.JSON(key)
		},
	)

	g.Patch(
		"/:id", func(c *fiber.Ctx) error {
			var req model.UpdateAPIKey
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("invalid body"))
			}
			key, err := apiKeys.Update(c.Params("id"), req)
			if err != nil {
				return apiKeyError(c, err)
			}
			return c.JSON(key)
		},
	)

	g.Delete(
		"/:id", func(c *fiber.Ctx) error {
			if err := apiKeys.Delete(c.Params("id")); err != nil {
				return apiKeyError(c, err)
			}
			return c.SendStatus(fiber.StatusNoContent)
		},
	)
}

// RequireAPIKey returns a middleware enforcing api-key authorization. The key
// id is taken from the X-API-Key header; key-manager keys may do anything,
// scoped keys must carry an endpoint rule matching the request's method and
// path.
func RequireAPIKey(apiKeys model.APIKeyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderAPIKey)
		if id == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(errorUnauthorized("missing api key"))
		}
		key, err := apiKeys.Get(id)
		if err != nil {
			var notFound model.NotFoundError
			if errors.As(err, &notFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(errorUnauthorized("unknown api key"))
			}
			return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
		}
		if key.KeyManager {
			return c.Next()
		}
		if !key.Permissions.Authorizes(c.Method(), c.Path()) {
			return c.Status(fiber.StatusForbidden).JSON(errorForbidden("api key does not permit this endpoint"))
		}
		return c.Next()
	}
}

// apiKeyError maps store errors to HTTP responses.
func apiKeyError(c *fiber.Ctx, err error) error {
	var notFound model.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(errorNotFound(notFound.Error()))
	}
	var exists model.AlreadyExistsError
	if errors.As(err, &exists) {
		return c.Status(fiber.StatusConflict).JSON(errorConflict(exists.Error()))
	}
	var invalid model.InvalidArgumentError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest(invalid.Error()))
	}
	return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
}
