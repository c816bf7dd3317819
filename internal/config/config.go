// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable holding a JSON document merged over the TOML file.
const EnvConfigJSON = "GOBAZAAR_CONFIG_JSON"

const (
	defaultShutDownTime  = 5
	defaultQueryTimeout  = 5 * time.Second
	defaultSlowThreshold = 200 * time.Millisecond
	defaultTokenTTL      = 12 * time.Hour
	defaultLimit         = 20
	defaultMaxLimit      = 100
	defaultIssuer        = "gobazaar"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode json config override")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can not start without and fills in defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.DB.GormEngine == "" {
		c.DB.GormEngine = EngineSQLite
	}

	if !slices.Contains([]string{EngineMySQL, EnginePostgres, EngineSQLite}, c.DB.GormEngine) {
		return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
	}

	if c.Auth.JWTSecret == "" {
		return errors.Wrap(ErrEmptyJWTSecret, invalidErrMessage)
	}

	if len(c.Marketplace.States) == 0 {
		return errors.Wrap(ErrNoStates, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.DB.QueryTimeout == 0 {
		c.DB.QueryTimeout = defaultQueryTimeout
	}

	if c.DB.SlowThreshold == 0 {
		c.DB.SlowThreshold = defaultSlowThreshold
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}

	if c.Auth.Issuer == "" {
		c.Auth.Issuer = defaultIssuer
	}

	if c.Marketplace.DefaultLimit <= 0 {
		c.Marketplace.DefaultLimit = defaultLimit
	}

	if c.Marketplace.MaxLimit < c.Marketplace.DefaultLimit {
		c.Marketplace.MaxLimit = max(defaultMaxLimit, c.Marketplace.DefaultLimit)
	}

	return nil
}
