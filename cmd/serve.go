package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmer/config"
	httpapi "farmer/internal/api/http"
	"farmer/internal/service"
	"farmer/internal/storage"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := config.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}

		var cache service.CatalogCache
		if cfg.Redis.Addr != "" {
			client, err := config.OpenRedis(ctx, cfg.Redis.Addr)
			if err != nil {
				log.WithError(err).Warn("catalog cache disabled")
			} else {
				defer client.Close()
				cache = storage.NewRedisCache(client, cfg.Redis.TTL)
			}
		}

		var publisher service.OrderPublisher
		if len(cfg.Kafka.Brokers) > 0 {
			writer := config.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
			defer writer.Close()
			publisher = storage.NewKafkaPublisher(writer)
		}

		notifier := storage.NewSMTPNotifier(cfg.Mail.Addr, cfg.Mail.From, cfg.Mail.To, cfg.Mail.Timeout)
		qr := service.DefaultQRGenerator{BaseURL: cfg.PublicURL}

		catalogSvc := service.NewCatalogService(repo, repo, cache, log)
		orderSvc := service.NewOrderService(repo, notifier, publisher, qr, log)
		authSvc := service.NewAuthService(service.AuthConfig{
			User:   cfg.DefaultUser,
			Pass:   cfg.DefaultPass,
			Secret: cfg.SecretKey,
			Issuer: cfg.JWTIssuer,
			TTL:    cfg.TokenTTL,
		})

		handler := httpapi.NewHandler(catalogSvc, orderSvc, authSvc, log)
		limiter := httpapi.NewRateLimiter(cfg.LoginRate.RPS, cfg.LoginRate.Burst, log)
		limiter.StartCleanup(ctx, time.Minute, 10*time.Minute)
		return httpapi.StartServer(ctx, cfg.ListenAddr, httpapi.NewRouter(handler, limiter), log)
	},
}

