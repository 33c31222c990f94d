package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	FirebaseProject string
	FirebaseApiKey  string
	StorageBucket   string
	Environment     string

	// Media relay server
	MediaPort    string
	MediaDataDir string
	MediaMaxSize int64

	// Messaging economy
	StartingCoins int64

	// Call lifecycle
	RingTimeoutSeconds int64
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseApiKey:  getEnv("FIREBASE_API_KEY", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET", ""),
		Environment:     getEnv("ENVIRONMENT", "development"),

		MediaPort:    getEnv("MEDIA_PORT", "3000"),
		MediaDataDir: getEnv("MEDIA_DATA_DIR", "."),
		MediaMaxSize: getEnvAsInt64("MEDIA_MAX_SIZE", 50*1024*1024),

		StartingCoins: getEnvAsInt64("STARTING_COINS", 100),

		RingTimeoutSeconds: getEnvAsInt64("RING_TIMEOUT_SECONDS", 30),
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
