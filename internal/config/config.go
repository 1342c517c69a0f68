package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int

	EmailSender   string
	EmailReceiver string
	EmailPassword string
	SMTPHost      string
	SMTPPort      int
	SMTPTimeout   time.Duration

	AnalyzerURL     string
	AnalyzerTimeout time.Duration
	DetectorBackend string // DeepFace detector_backend (opencv, retinaface, mtcnn, ...)

	ShayariDirectory string // <root>/<emotion lower-case>/*.txt
	MusicDirectory   string // <root>/<Emotion capitalized>/*.mp3

	DatabasePath    string
	LogDirectory    string
	StaticDirectory string

	MaxUploadSize        int64 // bytes
	SuggestionsPerMinute int

	SessionTTL           time.Duration // idle sessions are forgotten after this
	SessionSweepInterval time.Duration

	LogsToken string // guards /logs and /admin; empty disables them
}

// Load reads an optional .env file from the working directory and builds
// the config from the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Could not parse .env file: %v", err)
	}

	return &Config{
		Port:                 getEnvAsInt("PORT", 8080),
		EmailSender:          os.Getenv("EMAIL_SENDER"),
		EmailReceiver:        os.Getenv("EMAIL_RECEIVER"),
		EmailPassword:        os.Getenv("EMAIL_PASSWORD"),
		SMTPHost:             getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:             getEnvAsInt("SMTP_PORT", 587),
		SMTPTimeout:          getEnvAsSeconds("SMTP_TIMEOUT", 30),
		AnalyzerURL:          getEnv("ANALYZER_URL", "http://localhost:5000"),
		AnalyzerTimeout:      getEnvAsSeconds("ANALYZER_TIMEOUT", 60),
		DetectorBackend:      getEnv("DETECTOR_BACKEND", "opencv"),
		ShayariDirectory:     getEnv("SHAYARI_DIR", filepath.Join(".", "content", "shayri")),
		MusicDirectory:       getEnv("MUSIC_DIR", filepath.Join(".", "content", "music")),
		DatabasePath:         getEnv("DB_PATH", filepath.Join(".", "data", "emotion.db")),
		LogDirectory:         getEnv("LOG_DIR", filepath.Join(".", "logs")),
		StaticDirectory:      getEnv("STATIC_DIR", filepath.Join(".", "static")),
		MaxUploadSize:        getEnvAsInt64("MAX_UPLOAD_MB", 10) << 20,
		SuggestionsPerMinute: getEnvAsInt("SUGGESTIONS_PER_MINUTE", 3),
		SessionTTL:           time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SessionSweepInterval: time.Duration(getEnvAsInt("SESSION_SWEEP_MINUTES", 10)) * time.Minute,
		LogsToken:            os.Getenv("LOGS_TOKEN"),
	}
}

// MailConfigured reports whether all three email values are present.
func (c *Config) MailConfigured() bool {
	return c.EmailSender != "" && c.EmailReceiver != "" && c.EmailPassword != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue)) * time.Second
}
