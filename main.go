package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"cupomzone/config"
	"cupomzone/db"
	"cupomzone/payments"
	"cupomzone/ratelimit"
	"cupomzone/router"
	"cupomzone/workers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	// .env ausente não é erro em produção
	_ = godotenv.Load()

	log.SetFormatter(&log.JSONFormatter{})

	var cfg config.Configuration
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		cfg = config.Get(path)
	} else {
		cfg = config.Default()
	}

	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err == nil {
			if f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				log.SetOutput(io.MultiWriter(os.Stdout, f))
			} else {
				log.WithError(err).Warn("sem arquivo de log, usando apenas stdout")
			}
		}
	}

	db.SetConfigurations(cfg)
	database, err := db.Connect()
	if err != nil {
		log.WithError(err).Fatal("falha ao conectar no banco")
	}
	defer database.Close()

	if err := db.SeedPlans(database); err != nil {
		log.WithError(err).Fatal("falha ao semear planos")
	}

	// limiter distribuído quando há redis; senão, por processo
	var limiter ratelimit.Limiter
	if cfg.Redis.Address != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		limiter = ratelimit.NewRedisLimiter(client)
		log.WithField("address", cfg.Redis.Address).Info("rate limiting via redis")
	} else {
		limiter = ratelimit.NewLocalLimiter()
		log.Info("rate limiting em memória (sem redis)")
	}

	var stripeClient *payments.Client
	if cfg.Stripe.SecretKey != "" {
		stripeClient, err = payments.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
		if err != nil {
			log.WithError(err).Fatal("falha ao configurar stripe")
		}
	} else {
		log.Warn("STRIPE_SECRET_KEY ausente: checkout e webhook desabilitados")
	}

	stop := workers.StartSubscriptionExpirer(database, time.Hour)
	defer close(stop)

	r := gin.New()
	r.Use(db.SetDBtoContext(database))
	r.Use(ratelimit.SetToContext(limiter))
	r.Use(payments.SetToContext(stripeClient))
	router.Initialize(r, cfg)

	log.WithField("port", cfg.ApiPort).Info("servidor iniciado")
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		log.WithError(err).Fatal("servidor encerrado")
	}
}
