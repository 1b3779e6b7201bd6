package keybridge

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	log "github.com/sirupsen/logrus"

	"github.com/go-idp/keybridge/api/adminapi"
	"github.com/go-idp/keybridge/internal/cache"
	"github.com/go-idp/keybridge/otp"
	"github.com/go-idp/keybridge/storage/model"
)

const jwksCachePeriod = 5 * time.Second

// FiberServerConfig is the fiber.Config that is used to init the http fiber.App
var FiberServerConfig = fiber.Config{
	ReadTimeout:    3 * time.Second,
	WriteTimeout:   20 * time.Second,
	IdleTimeout:    150 * time.Second,
	ReadBufferSize: 8192,
	ErrorHandler:   handleError,
	Network:        "tcp",
}

func handleError(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if e, ok := err.(*fiber.Error); ok {
		fiberErr = e
		code = e.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	msg := err.Error()
	if fiberErr != nil {
		msg = fiberErr.Message
	}
	return ctx.Status(code).JSON(
		fiber.Map{
			"error":             http.StatusText(code),
			"error_description": msg,
		},
	)
}

// KeyBridge is the credential and key lifecycle server. It serves the public
// jwks endpoint and the admin API on a single fiber app.
type KeyBridge struct {
	server     *fiber.App
	serverConf ServerConf
	storages   model.Backends
}

// NewKeyBridge creates a new KeyBridge
func NewKeyBridge(
	serverConf ServerConf,
	storages model.Backends,
	otpManager *otp.Manager,
	opts *adminapi.Options,
) (*KeyBridge, error) {
	if tps := serverConf.TrustedProxies; len(tps) > 0 {
		FiberServerConfig.TrustedProxies = serverConf.TrustedProxies
		FiberServerConfig.EnableTrustedProxyCheck = true
	}
	FiberServerConfig.ProxyHeader = serverConf.ForwardedIPHeader
	server := fiber.New(FiberServerConfig)
	server.Use(recover.New())
	server.Use(compress.New())
	server.Use(logger.New())
	server.Use(requestid.New())

	kb := &KeyBridge{
		server:     server,
		serverConf: serverConf,
		storages:   storages,
	}

	server.Get(
		"/.well-known/jwks.json", func(ctx *fiber.Ctx) error {
			cacheKey := cache.Key(cache.KeyJWKS, "public")
			var cached []byte
			set, err := cache.Get(cacheKey, &cached)
			if err != nil {
				return ctx.Status(fiber.StatusInternalServerError).JSON(
					fiber.Map{"error": "server_error", "error_description": err.Error()},
				)
			}
			if set {
				ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return ctx.Send(cached)
			}
			rendered, err := kb.publicJWKS()
			if err != nil {
				return ctx.Status(fiber.StatusInternalServerError).JSON(
					fiber.Map{"error": "server_error", "error_description": err.Error()},
				)
			}
			if err = cache.Set(cacheKey, rendered, jwksCachePeriod); err != nil {
				log.WithError(err).Error("could not cache jwks")
			}
			ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return ctx.Send(rendered)
		},
	)

	if err := adminapi.Register(
		server.Group("/api/v1/admin"), storages, otpManager, opts,
	); err != nil {
		return nil, err
	}
	return kb, nil
}

// publicJWKS renders the public key set for all stored asymmetric keys.
// Symmetric keys have no public half and are never published.
func (kb *KeyBridge) publicJWKS() ([]byte, error) {
	keys, err := kb.storages.Keys.List()
	if err != nil {
		return nil, err
	}
	set := jwk.NewSet()
	for _, key := range keys {
		if key.PublicKeyPEM == "" {
			continue
		}
		pub, err := jwk.ParseKey([]byte(key.PublicKeyPEM), jwk.WithPEM(true))
		if err != nil {
			return nil, err
		}
		if err = pub.Set(jwk.KeyIDKey, key.KID); err != nil {
			return nil, err
		}
		if alg, ok := jwa.LookupSignatureAlgorithm(key.Algorithm); ok {
			if err = pub.Set(jwk.AlgorithmKey, alg); err != nil {
				return nil, err
			}
		}
		if err = pub.Set(jwk.KeyUsageKey, "sig"); err != nil {
			return nil, err
		}
		if err = set.AddKey(pub); err != nil {
			return nil, err
		}
	}
	return json.Marshal(set)
}

// HttpHandlerFunc returns an http.HandlerFunc for serving all the necessary endpoints
func (kb KeyBridge) HttpHandlerFunc() http.HandlerFunc {
	return adaptor.FiberApp(kb.server)
}

// Listen starts an http server at the specific address for serving all the
// necessary endpoints
func (kb KeyBridge) Listen(addr string) error {
	return kb.server.Listen(addr)
}

// Start runs the server according to its ServerConf, optionally with TLS and
// an http-to-https redirect server.
func (kb KeyBridge) Start() {
	conf := kb.serverConf
	if !conf.TLS.Enabled {
		log.WithField("port", conf.Port).Info("TLS is disabled starting http server")
		log.WithError(kb.server.Listen(fmt.Sprintf("%s:%d", conf.IPListen, conf.Port))).Fatal()
	}
	// TLS enabled
	if conf.TLS.RedirectHTTP {
		httpServer := fiber.New(FiberServerConfig)
		httpServer.All(
			"*", func(ctx *fiber.Ctx) error {
				//goland:noinspection HttpUrlsUsage
				return ctx.Redirect(
					strings.Replace(ctx.Request().URI().String(), "http://", "https://", 1),
					fiber.StatusPermanentRedirect,
				)
			},
		)
		log.Info("TLS and http redirect enabled, starting redirect server on port 80")
		go func() {
			log.WithError(httpServer.Listen(":80")).Fatal()
		}()
	}
	log.Info("TLS enabled, starting https server on port 443")
	log.WithError(kb.server.ListenTLS(":443", conf.TLS.Cert, conf.TLS.Key)).Fatal()
}
