package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// LoadDotEnv returns the value of a required environment variable and
// fatals when it is not set. godotenv.Load must run before this.
func LoadDotEnv(varName string) string {
	envVar := os.Getenv(varName)
	if envVar == "" {
		log.Fatal().Msgf("Environment variable %s not set", varName)
	}
	return envVar
}

// LoadDotEnvOr returns the value of an optional environment variable,
// falling back to the given default when it is unset or empty.
func LoadDotEnvOr(varName string, fallback string) string {
	envVar := os.Getenv(varName)
	if envVar == "" {
		return fallback
	}
	return envVar
}

func LoadDotEnvInt(varName string, fallback int) int {
	envVar := os.Getenv(varName)
	if envVar == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(envVar)
	if err != nil {
		log.Fatal().Err(err).Msgf("Environment variable %s is not an integer", varName)
	}
	return parsed
}

func LoadDotEnvBool(varName string, fallback bool) bool {
	envVar := os.Getenv(varName)
	if envVar == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(envVar)
	if err != nil {
		log.Fatal().Err(err).Msgf("Environment variable %s is not a boolean", varName)
	}
	return parsed
}

// LoadDotEnvMinutes reads a duration expressed in whole minutes.
func LoadDotEnvMinutes(varName string, fallback time.Duration) time.Duration {
	envVar := os.Getenv(varName)
	if envVar == "" {
		return fallback
	}
	minutes, err := strconv.Atoi(envVar)
	if err != nil || minutes <= 0 {
		log.Fatal().Err(err).Msgf("Environment variable %s is not a positive number of minutes", varName)
	}
	return time.Duration(minutes) * time.Minute
}
