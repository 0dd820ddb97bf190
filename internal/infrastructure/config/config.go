package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SearchURL      string
	SearchIndex    string
	SearchUser     string
	SearchPassword string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	NLUURL      string
	NLUBotName  string
	NLUBotAlias string

	SessionHashKey   []byte // base64
	SessionBlockKey  []byte // base64
	ChatPasswordHash string // bcrypt

	PollInterval time.Duration
	ReceiveWait  time.Duration
	ClaimTTL     time.Duration
}

// FromEnv reads configuration from the environment (a .env file is loaded
// if present). Malformed values are errors here; each command checks the
// presence of the fields it actually needs.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:    envDefault("HTTP_ADDR", ":8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),

		RedisAddr:     envDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SearchURL:      strings.TrimSpace(os.Getenv("SEARCH_URL")),
		SearchIndex:    envDefault("SEARCH_INDEX", "restaurants"),
		SearchUser:     os.Getenv("SEARCH_USER"),
		SearchPassword: os.Getenv("SEARCH_PASSWORD"),

		SMTPHost:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     strings.TrimSpace(os.Getenv("MAIL_FROM")),

		NLUURL:      strings.TrimSpace(os.Getenv("NLU_URL")),
		NLUBotName:  envDefault("NLU_BOT_NAME", "DiningConcierge"),
		NLUBotAlias: envDefault("NLU_BOT_ALIAS", "prod"),

		ChatPasswordHash: strings.TrimSpace(os.Getenv("CHAT_PASSWORD_HASH")),
	}

	var err error
	if cfg.RedisDB, err = envInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.SMTPPort, err = envInt("SMTP_PORT", 587); err != nil {
		return Config{}, err
	}

	pollSec, err := envInt("WORKER_POLL_SECONDS", 5)
	if err != nil || pollSec < 1 {
		return Config{}, fmt.Errorf("invalid WORKER_POLL_SECONDS")
	}
	cfg.PollInterval = time.Duration(pollSec) * time.Second

	waitSec, err := envInt("QUEUE_RECEIVE_SECONDS", 2)
	if err != nil || waitSec < 1 {
		return Config{}, fmt.Errorf("invalid QUEUE_RECEIVE_SECONDS")
	}
	cfg.ReceiveWait = time.Duration(waitSec) * time.Second

	claimSec, err := envInt("QUEUE_CLAIM_SECONDS", 120)
	if err != nil || claimSec < 1 {
		return Config{}, fmt.Errorf("invalid QUEUE_CLAIM_SECONDS")
	}
	cfg.ClaimTTL = time.Duration(claimSec) * time.Second

	if v := os.Getenv("SESSION_HASH_KEY"); v != "" {
		if cfg.SessionHashKey, err = decodeB64("SESSION_HASH_KEY", v); err != nil {
			return Config{}, err
		}
	}
	if v := os.Getenv("SESSION_BLOCK_KEY"); v != "" {
		if cfg.SessionBlockKey, err = decodeB64("SESSION_BLOCK_KEY", v); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}

func envInt(k string, d int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return n, nil
}

func decodeB64(k, v string) ([]byte, error) {
	v = strings.TrimSpace(v)
	if b, err := base64.StdEncoding.DecodeString(v); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	return b, nil
}
