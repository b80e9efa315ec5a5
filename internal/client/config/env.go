package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// parseEnv overlays Config with values from the environment. A variable set
// in the process environment wins over the same variable in .env.
//
// Supported variables:
//
//	ORDERDESK_API_URL   API base URL
func parseEnv(cfg *Config) {
	// a missing or unreadable .env is not an error
	fileEnv, _ := godotenv.Read(dotEnvFile)

	if v := lookupEnv(EnvAPIURL, fileEnv); v != "" {
		cfg.APIBaseURL = v
	}
}

func lookupEnv(key string, fileEnv map[string]string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(fileEnv[key])
}
