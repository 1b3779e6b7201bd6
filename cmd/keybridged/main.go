package main

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/go-idp/keybridge"
	"github.com/go-idp/keybridge/api/adminapi"
	"github.com/go-idp/keybridge/cmd/keybridged/config"
	"github.com/go-idp/keybridge/internal/cache"
	"github.com/go-idp/keybridge/internal/logger"
	"github.com/go-idp/keybridge/internal/version"
	"github.com/go-idp/keybridge/otp"
	"github.com/go-idp/keybridge/storage"
)

func main() {
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	config.Load(configFile)
	c := config.Get()
	logger.Init(
		logger.Config{
			Level:  c.Logging.Internal.Level,
			Dir:    c.Logging.Internal.Dir,
			StdErr: c.Logging.Internal.StdErr,
		},
	)
	log.WithField("version", version.VERSION).Info("Loaded config")

	if redisAddr := c.Caching.RedisAddr; redisAddr != "" {
		if err := cache.UseRedis(
			&redis.Options{
				Addr:     redisAddr,
				Username: c.Caching.Username,
				Password: c.Caching.Password,
				DB:       c.Caching.RedisDB,
			},
		); err != nil {
			log.WithError(err).Fatal("could not init redis cache")
		}
		log.Info("Loaded redis cache")
	}

	backs, err := config.LoadStorageBackends(c.Storage, c.API.Admin.Argon2idParams)
	if err != nil {
		log.Fatal(err)
	}

	// Settings stored through the admin API override the config file.
	ttl, err := storage.GetOTPTTL(backs.KV, c.OTP.TTL.Duration())
	if err != nil {
		log.Fatal(err)
	}
	codeLength, err := storage.GetOTPCodeLength(backs.KV, c.OTP.CodeLength)
	if err != nil {
		log.Fatal(err)
	}
	sweepInterval, err := storage.GetOTPSweepInterval(backs.KV, c.OTP.SweepInterval.Duration())
	if err != nil {
		log.Fatal(err)
	}
	otpManager := otp.NewManager(
		otp.Config{
			TTL:        ttl,
			CodeLength: codeLength,
		},
	)
	go otpManager.RunSweeper(context.Background(), sweepInterval)
	log.Info("Loaded otp manager")

	kb, err := keybridge.NewKeyBridge(
		c.Server,
		backs,
		otpManager,
		&adminapi.Options{
			UsersEnabled: c.API.Admin.UsersEnabled,
		},
	)
	if err != nil {
		log.Fatal(err)
	}
	kb.Start()
}
