package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Nightscout API
const NIGHTSCOUT_ENTRIES_PATH = "api/v1/entries.json"
const NIGHTSCOUT_TREATMENTS_PATH = "api/v1/treatments.json"
const NIGHTSCOUT_API_SECRET_HEADER = "api-secret"
const NIGHTSCOUT_ENTRIES_COUNT = 100
const NIGHTSCOUT_DATE_FILTER_FORMAT = "2006-01-02"
const INSULIN_EVENT_TYPE = "Insulin Injection"
const CARB_EVENT_TYPE = "Carb Correction"

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// Preferences
const DEFAULT_ADJUSTMENT_LIMIT_PERCENT = 10.0
const MAX_ADJUSTMENT_LIMIT_PERCENT = 50.0

// Loop settings
const LOOP_SETTINGS_FILE_NAME = "freeaps_settings.json"
const LOOP_ADVISOR_SIGNATURE_KEY = "iAPSAdvisorLastTouched"

// HTTP server
const HTTP_SERVER_ADDR = ":8080"
const HTTP_SHUTDOWN_TIMEOUT_SECONDS = 5

// Summary refresher
const SUMMARY_REFRESHER_SCHEDULE_MINUTES = 5

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const ENTRIES_RESPONSE_RESOURCE = "entries_response.json"
const INSULIN_TREATMENTS_RESPONSE_RESOURCE = "insulin_treatments_response.json"
const CARB_TREATMENTS_RESPONSE_RESOURCE = "carb_treatments_response.json"

// Config holds the runtime settings read from the environment.
type Config struct {
	Env                string
	Debug              bool
	HTTPAddr           string
	NightscoutURL      string
	NightscoutAPIToken string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	LoopSettingsDir    string
	Timezone           string
	RefreshMinutes     int
}

// IsProd reports whether the real Nightscout API and Redis should be used.
func (c *Config) IsProd() bool {
	return c.Env == "prod"
}

// Load reads a .env file if present, then the environment, falling back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Env:                getEnv("APP_ENV", "dev"),
		Debug:              getEnvAsBool("DEBUG", false),
		HTTPAddr:           getEnv("HTTP_ADDR", HTTP_SERVER_ADDR),
		NightscoutURL:      strings.TrimSpace(getEnv("NIGHTSCOUT_URL", "")),
		NightscoutAPIToken: getEnv("NIGHTSCOUT_API_SECRET", ""),
		RedisAddr:          getEnv("REDIS_ADDR", REDIS_DB_ADDRESS),
		RedisPassword:      getEnv("REDIS_PASSWORD", REDIS_DB_PASSWORD),
		RedisDB:            getEnvAsInt("REDIS_DB", REDIS_DB),
		LoopSettingsDir:    getEnv("LOOP_SETTINGS_DIR", ""),
		Timezone:           getEnv("TIMEZONE", ""),
		RefreshMinutes:     getEnvAsInt("SUMMARY_REFRESH_MINUTES", SUMMARY_REFRESHER_SCHEDULE_MINUTES),
	}, nil
}

// Location resolves Timezone, defaulting to the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resourceFile string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resourceFile)
}
