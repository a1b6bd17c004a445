package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the environment-driven settings of the front end.
type Config struct {
	// APIBaseURL is the rental backend the client talks to.
	APIBaseURL string
	// HomeURL is where closing the contact popup navigates to.
	HomeURL string
	// Port is the listen port of the stub API server.
	Port string
	// SearchDebounce is the quiet period for catalog search input.
	SearchDebounce time.Duration
}

// Load reads the environment, with a .env file honored when present.
func Load() Config {
	godotenv.Load()
	return Config{
		APIBaseURL:     getEnv("VELORENT_API_URL", "http://localhost:8080"),
		HomeURL:        getEnv("VELORENT_HOME_URL", "/"),
		Port:           getEnv("PORT", "8080"),
		SearchDebounce: getEnvMillis("VELORENT_SEARCH_DEBOUNCE_MS", 300*time.Millisecond),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvMillis(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
