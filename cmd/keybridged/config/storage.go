package config

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/go-idp/keybridge/storage"
	"github.com/go-idp/keybridge/storage/model"
)

type storageConf struct {
	storage.Config `yaml:",inline"`
	storage.DSNConf
}

func (c *storageConf) validate() error {
	if c.Driver == storage.DriverSQLite {
		if c.DataDir == "" {
			return errors.New("error in storage conf: data_dir must be specified")
		}
		return nil
	}
	var err error
	if c.DSN == "" {
		c.DSN, err = storage.DSN(c.Driver, c.DSNConf)
	}
	return err
}

var defaultStorageConf = storage.Config{
	Driver: storage.DriverSQLite,
}

// LoadStorageBackends loads and returns the storage backends for the passed config
func LoadStorageBackends(c storageConf, hashParams storage.Argon2idParams) (model.Backends, error) {
	cfg := c.Config
	cfg.UsersHash = hashParams
	backs, err := storage.LoadStorageBackends(cfg)
	if err != nil {
		return model.Backends{}, err
	}
	log.Info("Loaded storage backend")
	return backs, nil
}
