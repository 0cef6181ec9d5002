package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	pkgcfg "github.com/Skotchmaster/inventory/pkg/config"
)

type Config struct {
	ServiceName string
	ServerPort  int

	DBDriver    string
	DatabaseURL string

	UploadDir string

	SessionSecret []byte
	SessionTTL    time.Duration
	CookieSecure  bool

	FontPaths      []string
	WatermarkLabel string

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel string
	LogMode  string
	LogFile  string
}

var defaultFontPaths = []string{"DG-Rafah-Bold.ttf", "Tajawal-Bold.ttf"}

// LoadEnvFile reads a dotenv file into the process environment. A missing file is not an error.
func LoadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded: %v, using system environment", path, err)
	}
}

func Load() (Config, error) {
	cfg := Config{
		ServiceName: pkgcfg.EnvDefault("SERVICE_NAME", "inventory"),
		ServerPort:  pkgcfg.EnvIntDefault("SERVER_PORT", 8080),

		DBDriver:    pkgcfg.EnvDefault("DB_DRIVER", "sqlite"),
		DatabaseURL: pkgcfg.EnvDefault("DATABASE_URL", "inventory.db"),

		UploadDir: pkgcfg.EnvDefault("UPLOAD_DIR", "static/uploads"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    pkgcfg.EnvDurationDefault("SESSION_TTL", 12*time.Hour),
		CookieSecure:  pkgcfg.EnvBoolDefault("COOKIE_SECURE", false),

		FontPaths:      pkgcfg.EnvCSVDefault("FONT_PATHS", defaultFontPaths),
		WatermarkLabel: pkgcfg.EnvDefault("WATERMARK_LABEL", "UNAVAILABLE"),

		KafkaBrokers: pkgcfg.CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   pkgcfg.EnvDefault("KAFKA_TOPIC", "product_events"),

		LogLevel: pkgcfg.EnvDefault("LOG_LEVEL", "info"),
		LogMode:  pkgcfg.EnvDefault("LOG_MODE", "production"),
		LogFile:  os.Getenv("LOG_FILE"),
	}

	if err := pkgcfg.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
