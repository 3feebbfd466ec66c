package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Session SessionConfig
	Relay   RelayConfig
}

type AppConfig struct {
	Environment string
	LogFilePath string
}

type SessionConfig struct {
	MaxSessionsPerOwner    int
	DefaultMaxParticipants int
	IdleTimeout            time.Duration
	ReaperInterval         time.Duration
}

type RelayConfig struct {
	NatsURL       string
	EventTopic    string
	ChannelBuffer int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "collab.log"),
		},
		Session: SessionConfig{
			MaxSessionsPerOwner:    getEnvAsInt("MAX_SESSIONS_PER_OWNER", 10),
			DefaultMaxParticipants: getEnvAsInt("DEFAULT_MAX_PARTICIPANTS", 50),
			IdleTimeout:            getEnvAsDuration("SESSION_IDLE_TIMEOUT", time.Hour),
			ReaperInterval:         getEnvAsDuration("SESSION_REAPER_INTERVAL", 10*time.Minute),
		},
		Relay: RelayConfig{
			NatsURL:       getEnv("NATS_URL", ""),
			EventTopic:    getEnv("COLLAB_EVENT_TOPIC_NAME", "COLLAB_SESSION_EVENTS"),
			ChannelBuffer: getEnvAsInt("COLLAB_EVENT_BUFFER", 256),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
