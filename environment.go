package enumfields

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// An Environment is a different context in which an application using enumfields operates.
type Environment string

const (
	Development Environment = "DEVELOPMENT"
	Production  Environment = "PRODUCTION"
	Staging     Environment = "STAGING"
	Testing     Environment = "TESTING"
)

func (e Environment) String() string { return string(e) }

func (e Environment) Valid() error {
	switch e {
	case Development, Production, Staging, Testing:
		return nil
	default:
		return ErrNotValid
	}
}

func (e Environment) IsDevelopment() bool { return e == Development }

func (e Environment) IsProduction() bool { return e == Production }

func (e Environment) IsTesting() bool { return e == Testing }

// EnvVarOrBool gets the environment variable for the provided key and
// returns whether it matches "true" or "false" (after lower casing it)
// or the default value.
func EnvVarOrBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "true":
		return true
	case "false":
		return false
	default:
		return def
	}
}

// EnvVarOrEnv gets the environment variable for the provided key,
// casts it into an [Environment],
// or returns the provided default [Environment] if key is not a valid [Environment].
func EnvVarOrEnv(key string, def Environment) Environment {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	env := Environment(strings.ToUpper(val))
	if err := env.Valid(); err != nil {
		return def
	}

	return env
}

// EnvVarOrInt gets the environment variable for the provided key,
// creates an int from the retrieved value,
// or returns the provided default
// if the value is not a valid int.
func EnvVarOrInt(key string, def int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}

	return val
}

// EnvVarOrLogLevel gets the environment variable for the provided key,
// creates a [log/slog.Level] from the retrieved value,
// or returns the provided default [log/slog.Level].
func EnvVarOrLogLevel(key string, def slog.Level) slog.Level {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(val)); err != nil {
		return def
	}

	return lvl
}

// EnvVarOrString gets the environment variable for the provided key or the provided default string.
func EnvVarOrString(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}

	return val
}
