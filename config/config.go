package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Source kinds accepted in DASHBOARD_SOURCE.
const (
	SourceSheets    = "sheets"
	SourcePublished = "published"
	SourceWorkbook  = "workbook"
	SourcePostgres  = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Source string `validate:"oneof=sheets published workbook postgres"`

	SpreadsheetID         string `validate:"required_if=Source sheets"`
	SheetRange            string `validate:"required_if=Source sheets"`
	SheetsAPIKey          string
	GoogleCredentialsFile string

	PublishedURL string `validate:"required_if=Source published"`
	ChromeBin    string

	WorkbookPath  string `validate:"required_if=Source workbook"`
	WorkbookSheet string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MirrorToPostgres bool

	PageSize       int `validate:"min=1"`
	MaxRetries     int `validate:"min=1"`
	RetryBaseDelay time.Duration
	FetchTimeout   time.Duration `validate:"gt=0"`

	HTTPAddr        string `validate:"required"`
	RefreshInterval time.Duration

	CSVOutputPath  string
	XLSXOutputPath string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Source: strings.ToLower(getEnv("DASHBOARD_SOURCE", SourceSheets)),

		SpreadsheetID:         getEnv("SPREADSHEET_ID", ""),
		SheetRange:            getEnv("SHEET_RANGE", "Master!A:O"),
		SheetsAPIKey:          getEnv("GOOGLE_SHEETS_API_KEY", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),

		PublishedURL: getEnv("PUBLISHED_URL", ""),
		ChromeBin:    getEnv("CHROME_BIN", ""),

		WorkbookPath:  getEnv("WORKBOOK_PATH", ""),
		WorkbookSheet: getEnv("WORKBOOK_SHEET", "Master"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard"),
		PostgresDB:       getEnv("POSTGRES_DB", "creator_dashboard"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		MirrorToPostgres: getEnvBool("MIRROR_TO_POSTGRES", false),

		PageSize:       getEnvInt("PAGE_SIZE", 20),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		RetryBaseDelay: time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 2000)) * time.Millisecond,
		FetchTimeout:   getEnvDuration("FETCH_TIMEOUT", 60*time.Second),

		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", time.Hour),

		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/dashboard_export.csv"),
		XLSXOutputPath: getEnv("XLSX_OUTPUT_PATH", "./output/dashboard_export.xlsx"),
	}
}

var validate = validator.New()

// Validate checks that the selected source has what it needs.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
