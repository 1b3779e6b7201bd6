package adminapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/go-idp/keybridge/otp"
	"github.com/go-idp/keybridge/storage"
	"github.com/go-idp/keybridge/storage/model"
)

// registerOTP wires routes for issuing and validating one-time passwords and
// for the runtime settings persisted in the key-value store.
func registerOTP(r fiber.Router, manager *otp.Manager, kvStorage model.KeyValueStore) {
	g := r.Group("/otp")

	type issueReq struct {
		Subject string `json:"subject"`
		Length  int    `json:"length"`
	}
	g.Post(
		"/", func(c *fiber.Ctx) error {
			var req issueReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("invalid body"))
			}
			if req.Subject == "" {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("'subject' is required"))
			}
			code, err := manager.Issue(req.Subject, req.Length)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"code": code})
		},
	)

	type validateReq struct {
		Code    string `json:"code"`
		Subject string `json:"subject"`
	}
	// POST validate: a wrong or expired code is a regular negative result,
	// not an error status.
	g.Post(
		"/validate", func(c *fiber.Ctx) error {
			var req validateReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("invalid body"))
			}
			return c.JSON(fiber.Map{"valid": manager.Validate(req.Code, req.Subject)})
		},
	)

	type settings struct {
		TTLSeconds           int64 `json:"ttl_seconds"`
		CodeLength           int   `json:"code_length"`
		SweepIntervalSeconds int64 `json:"sweep_interval_seconds"`
	}
	readSettings := func() (settings, error) {
		ttl, err := storage.GetOTPTTL(kvStorage, otp.DefaultTTL)
		if err != nil {
			return settings{}, err
		}
		length, err := storage.GetOTPCodeLength(kvStorage, otp.DefaultCodeLength)
		if err != nil {
			return settings{}, err
		}
		interval, err := storage.GetOTPSweepInterval(kvStorage, otp.DefaultSweepInterval)
		if err != nil {
			return settings{}, err
		}
		return settings{
			TTLSeconds:           int64(ttl / time.Second),
			CodeLength:           length,
			SweepIntervalSeconds: int64(interval / time.Second),
		}, nil
	}

	g.Get(
		"/settings", func(c *fiber.Ctx) error {
			s, err := readSettings()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.JSON(s)
		},
	)

	type settingsReq struct {
		TTLSeconds           *int64 `json:"ttl_seconds"`
		CodeLength           *int   `json:"code_length"`
		SweepIntervalSeconds *int64 `json:"sweep_interval_seconds"`
	}
	g.Put(
		"/settings", func(c *fiber.Ctx) error {
			var req settingsReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("invalid body"))
			}
			if req.TTLSeconds != nil {
				if *req.TTLSeconds <= 0 {
					return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("'ttl_seconds' must be positive"))
				}
				ttl := time.Duration(*req.TTLSeconds) * time.Second
				if err := storage.SetOTPTTL(kvStorage, ttl); err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
				}
				manager.SetTTL(ttl)
			}
			if req.CodeLength != nil {
				if *req.CodeLength <= 0 {
					return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("'code_length' must be positive"))
				}
				if err := storage.SetOTPCodeLength(kvStorage, *req.CodeLength); err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
				}
				manager.SetCodeLength(*req.CodeLength)
			}
			if req.SweepIntervalSeconds != nil {
				if *req.SweepIntervalSeconds <= 0 {
					return c.Status(fiber.StatusBadRequest).JSON(errorInvalidRequest("'sweep_interval_seconds' must be positive"))
				}
				// Applied by the sweeper at its next start; the running
				// ticker keeps its current interval.
				if err := storage.SetOTPSweepInterval(
					kvStorage, time.Duration(*req.SweepIntervalSeconds)*time.Second,
				); err != nil {
					return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
				}
			}
			s, err := readSettings()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(errorServerError(err.Error()))
			}
			return c.JSON(s)
		},
	)

	// POST sweep: trigger an immediate cleanup of expired codes.
	g.Post(
		"/sweep", func(c *fiber.Ctx) error {
			manager.Sweep()
			return c.SendStatus(fiber.StatusNoContent)
		},
	)
}
