package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

type Configuration struct {
	ApiPort string `json:"api_port"`
	LogPath string `json:"log_path"`

	Database string `json:"database"` // "sqlite3", "mysql" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Redis struct {
		Address  string `json:"address"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`

	Stripe struct {
		SecretKey     string `json:"secret_key"`
		WebhookSecret string `json:"webhook_secret"`
	} `json:"stripe"`

	Security struct {
		SessionMaxValidDays int `json:"session_max_valid_days"`
		LoginMaxAttempts    int `json:"login_max_attempts"`
		RegisterMaxAttempts int `json:"register_max_attempts"`
		LoginWindowSeconds  int `json:"login_window_seconds"`
	} `json:"security"`
}

func Get(path string) Configuration {
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	var c Configuration
	if err := json.Unmarshal(b, &c); err != nil {
		log.Fatal(err)
	}
	return withDefaults(c)
}

// Default monta uma configuração sem arquivo, apenas com env e defaults.
func Default() Configuration {
	var c Configuration
	c.Database = os.Getenv("DATABASE")
	c.DbHost = os.Getenv("DB_HOST")
	c.DbPort = os.Getenv("DB_PORT")
	c.DbUser = os.Getenv("DB_USER")
	c.DbName = os.Getenv("DB_NAME")
	c.DbPass = os.Getenv("DB_PASSWORD")
	c.Redis.Address = os.Getenv("REDIS_ADDRESS")
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	c.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	c.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")
	return withDefaults(c)
}

func withDefaults(c Configuration) Configuration {
	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.DbName == "" {
		c.DbName = "cupomzone"
	}
	if v, err := strconv.Atoi(os.Getenv("SESSION_MAX_VALID_DAYS")); err == nil && v > 0 {
		c.Security.SessionMaxValidDays = v
	}
	if c.Security.SessionMaxValidDays <= 0 {
		c.Security.SessionMaxValidDays = 7
	}
	if c.Security.LoginMaxAttempts <= 0 {
		c.Security.LoginMaxAttempts = 10
	}
	if c.Security.RegisterMaxAttempts <= 0 {
		c.Security.RegisterMaxAttempts = 5
	}
	if c.Security.LoginWindowSeconds <= 0 {
		c.Security.LoginWindowSeconds = 300
	}
	// env tem prioridade sobre o arquivo para segredos
	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		c.Stripe.SecretKey = v
	}
	if v := os.Getenv("STRIPE_WEBHOOK_SECRET"); v != "" {
		c.Stripe.WebhookSecret = v
	}
	return c
}
