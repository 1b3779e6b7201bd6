package config

import (
	"github.com/pkg/errors"
	"github.com/zachmann/go-utils/duration"

	"github.com/go-idp/keybridge/otp"
)

// otpConf seeds the one-time password settings. Values stored in the
// key-value store through the admin API take precedence over these.
type otpConf struct {
	TTL           duration.DurationOption `yaml:"ttl"`
	CodeLength    int                     `yaml:"code_length"`
	SweepInterval duration.DurationOption `yaml:"sweep_interval"`
}

func (c *otpConf) validate() error {
	if c.CodeLength < 0 {
		return errors.New("otp.code_length must not be negative")
	}
	return nil
}

var defaultOTPConf = otpConf{
	TTL:           duration.DurationOption(otp.DefaultTTL),
	CodeLength:    otp.DefaultCodeLength,
	SweepInterval: duration.DurationOption(otp.DefaultSweepInterval),
}
