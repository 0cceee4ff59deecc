package env

import (
	"os"

	"github.com/joho/godotenv"
)

var Env map[string]string

func GetEnv(key, def string) string {
	// First check our loaded Env map
	if val, ok := Env[key]; ok && val != "" {
		return val
	}
	// Fallback to OS environment variables (for Docker/tests)
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the first .env file it finds. Missing files are fine;
// containerized deployments pass configuration through the OS environment.
func SetupEnvFile() {
	envFiles := []string{
		".env",          // Current directory
		"../../.env",    // From cmd/civiceye to project root
		"../../../.env", // Fallback for deeper nesting
	}

	for _, envFile := range envFiles {
		if m, err := godotenv.Read(envFile); err == nil {
			Env = m
			return
		}
	}
}

func IsProd() bool {
	return GetEnv("APP_ENV", "prod") == "prod"
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
