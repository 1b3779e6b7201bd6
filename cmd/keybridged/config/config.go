package config

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/go-idp/keybridge"
)

// Config holds the complete server configuration.
type Config struct {
	Server  keybridge.ServerConf `yaml:"server"`
	Storage storageConf          `yaml:"storage"`
	Logging loggingConf          `yaml:"logging"`
	Caching cachingConf          `yaml:"caching"`
	OTP     otpConf              `yaml:"otp"`
	API     apiConf              `yaml:"api"`
}

var conf *Config

// possibleConfigLocations are checked in order when no file is given.
var possibleConfigLocations = []string{
	"config.yaml",
	"/etc/keybridge/config.yaml",
}

func defaultConfig() *Config {
	return &Config{
		Server: keybridge.ServerConf{
			Port: 8765,
		},
		Storage: storageConf{Config: defaultStorageConf},
		Logging: defaultLoggingConf,
		OTP:     defaultOTPConf,
		API:     defaultAPIConf,
	}
}

// Get returns the loaded Config
func Get() *Config {
	return conf
}

// Load loads the configuration from the passed file, or from one of the
// default locations when file is empty.
func Load(file string) {
	conf = defaultConfig()
	data, err := readConfigFile(file)
	if err != nil {
		log.WithError(err).Fatal("could not read config file")
	}
	if err = yaml.Unmarshal(data, conf); err != nil {
		log.WithError(err).Fatal("could not parse config file")
	}
	if err = conf.validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
}

func readConfigFile(file string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file)
	}
	for _, loc := range possibleConfigLocations {
		data, err := os.ReadFile(loc)
		if err == nil {
			return data, nil
		}
	}
	return nil, errors.Errorf(
		"no config file found in any of the default locations",
	)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be positive")
	}
	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Logging.validate(); err != nil {
		return err
	}
	return c.OTP.validate()
}
