package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmer/config"
	"farmer/internal/storage"
	"farmer/internal/worker"

	"github.com/spf13/cobra"
)

var (
	maxAttempts  int
	retryBackoff time.Duration
)

var notifyWorkerCmd = &cobra.Command{
	Use:   "notify-worker",
	Short: "Retry order notifications queued on Kafka",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Kafka.Brokers) == 0 {
			return errors.New("notify-worker needs kafka.brokers")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := config.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()

		reader := config.NewKafkaReader(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID)
		defer reader.Close()
		writer := config.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer writer.Close()

		consumer := worker.NewConsumer(
			reader,
			storage.NewPostgresRepository(db),
			storage.NewSMTPNotifier(cfg.Mail.Addr, cfg.Mail.From, cfg.Mail.To, cfg.Mail.Timeout),
			storage.NewKafkaPublisher(writer),
			log.WithField("component", "notify-worker"),
		)
		consumer.MaxAttempts = maxAttempts
		consumer.Backoff = retryBackoff
		return consumer.Start(ctx)
	},
}

func init() {
	notifyWorkerCmd.Flags().IntVar(&maxAttempts, "max-attempts", worker.DefaultMaxAttempts, "Give up on a notification after this many retries")
	notifyWorkerCmd.Flags().DurationVar(&retryBackoff, "backoff", worker.DefaultBackoff, "Wait before the first retry, doubled on each further attempt")
}
