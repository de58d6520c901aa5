package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting. Values come from the environment
// (optionally seeded by a .env file) and an optional CONFIG_FILE.
type Config struct {
	Port string

	DB DatabaseConfig

	LogFile  string
	LogLevel string

	UploadDir          string
	UploadURLPrefix    string
	UploadMaxDimension int

	AllowedOrigins []string

	AuthEnabled       bool
	JWTSecret         string
	JWTTTL            time.Duration
	AdminEmail        string
	AdminPasswordHash string
}

type DatabaseConfig struct {
	Driver     string // postgres, pq, mysql or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	TimeZone   string
	SQLitePath string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "shipments")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("SQLITE_PATH", "shipments.db")

	v.SetDefault("LOG_FILE", "./logs/app.log")
	v.SetDefault("LOG_LEVEL", "debug")

	v.SetDefault("UPLOAD_DIR", "./uploads/trucks")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads/trucks")
	v.SetDefault("UPLOAD_MAX_DIMENSION", 1280)

	v.SetDefault("ALLOWED_ORIGINS", "*")

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("ADMIN_EMAIL", "admin@example.com")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
}

// Load reads configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found – relying on env vars")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	origins := strings.Split(v.GetString("ALLOWED_ORIGINS"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Port: v.GetString("PORT"),
		DB: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			TimeZone:   v.GetString("DB_TIMEZONE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		LogFile:            v.GetString("LOG_FILE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		UploadDir:          v.GetString("UPLOAD_DIR"),
		UploadURLPrefix:    strings.TrimRight(v.GetString("UPLOAD_URL_PREFIX"), "/"),
		UploadMaxDimension: v.GetInt("UPLOAD_MAX_DIMENSION"),
		AllowedOrigins:     origins,
		AuthEnabled:        v.GetBool("AUTH_ENABLED"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             v.GetDuration("JWT_TTL"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
		AdminPasswordHash:  v.GetString("ADMIN_PASSWORD_HASH"),
	}
}
