package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file into the process environment when one
// exists. Deployments without a file rely on real environment variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}
}

// GetEnv returns the named variable, or fallback when unset or empty.
func GetEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

// GetIntEnv returns the named variable parsed as an int, or fallback
// when unset or unparseable.
func GetIntEnv(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

// IsProduction reports whether ENV is set to "production".
func IsProduction() bool {
	return GetEnv("ENV", "development") == "production"
}
