// Package config loads process configuration from the environment
// (optionally seeded from a .env file via godotenv), the way the teacher's
// db client resolves its Postgres DSN from DB_* variables.
package config

import (
	"fmt"

	"github.com/joho/godotenv"

	"soundmark/utils"
)

// Config holds every environment-derived setting the binary needs.
type Config struct {
	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	AWSRegion string
	S3Bucket  string

	LogLevel string
	LogFile  string

	HTTPAddr string
}

// Load reads .env (if present; a missing file is not an error) and then
// the process environment, applying defaults for anything unset.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		DBUser: utils.GetEnv("DB_USER", "postgres"),
		DBPass: utils.GetEnv("DB_PASS", ""),
		DBHost: utils.GetEnv("DB_HOST", "localhost"),
		DBPort: utils.GetEnv("DB_PORT", "5432"),
		DBName: utils.GetEnv("DB_NAME", "soundmark"),

		AWSRegion: utils.GetEnv("AWS_REGION", "us-east-1"),
		S3Bucket:  utils.GetEnv("S3_BUCKET", "soundmark-audio"),

		LogLevel: utils.GetEnv("LOG_LEVEL", "info"),
		LogFile:  utils.GetEnv("LOG_FILE", "soundmark.log"),

		HTTPAddr: utils.GetEnv("HTTP_ADDR", ":8080"),
	}
}

// DSN builds the Postgres connection string pgx/stdlib expects.
func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}
