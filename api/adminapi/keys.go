package adminapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/go-idp/keybridge/keymat"
	"github.com/go-idp/keybridge/storage/model"
)

// registerSigningKeys wires routes for managing signing key material.
func registerSigningKeys(r fiber.Router, keys model.SigningKeyStore) {
	g := r.Group("/signing-keys")

	// GET: list all keys (public representation only)
	g.Get(
		"/", func(c *fiber.Ctx) error {
			list, err := keys.List()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.JSON(list)
		},
	)

	type createReq struct {
		ID        string `json:"id"`
		Algorithm string `json:"algorithm"`
		Name      string `json:"name"`
		Issuer    string `json:"issuer"`
	}
	// POST: generate a new key pair or secret
	g.Post(
		"/", func(c *fiber.Ctx) error {
			var req createReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("invalid body"))
			}
			if req.ID == "" {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("'id' is required"))
			}
			created, privJWK, err := keys.Generate(req.ID, req.Algorithm, req.Name, req.Issuer)
			if err != nil {
				return signingKeyError(c, err)
			}
			// The private JWK is returned exactly once, at creation time.
			return c.Status(fiber.StatusCreated).JSON(
				fiber.Map{
					"key": created,
					"jwk": privJWK,
				},
			)
		},
	)

	g.Get(
		"/:id", func(c *fiber.Ctx) error {
			key, err := keys.Get(c.Params("id"))
			if err != nil {
				return signingKeyError(c, err)
			}
			return c.JSON(key)
		},
	)

	type updateReq struct {
		Name *string `json:"name"`
	}
	g.Patch(
		"/:id", func(c *fiber.Ctx) error {
			var req updateReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("invalid body"))
			}
			key, err := keys.UpdateName(c.Params("id"), req.Name)
			if err != nil {
				return signingKeyError(c, err)
			}
			return c.JSON(key)
		},
	)

	g.Delete(
		"/:id", func(c *fiber.Ctx) error {
			if err := keys.Delete(c.Params("id")); err != nil {
				return signingKeyError(c, err)
			}
			return c.SendStatus(fiber.StatusNoContent)
		},
	)
}

// signingKeyError maps store errors to HTTP responses.
func signingKeyError(c *fiber.Ctx, err error) error {
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
	var unsupported keymat.UnsupportedAlgorithmError
	if errors.As(err, &unsupported) {
		return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest(unsupported.Error()))
	}
	return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
}
