package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hqtrung/vnshop/internal/behavior"
	"github.com/hqtrung/vnshop/internal/config"
	"github.com/hqtrung/vnshop/internal/events"
	kafkax "github.com/hqtrung/vnshop/internal/kafka"
	"github.com/hqtrung/vnshop/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &behavior.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-behavior",
	}

	topics := []string{
		events.TopicProductViewed,
		events.TopicSearchPerformed,
		events.TopicOrderPlaced,
	}
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.WorkerGroup, topic, cfg.WorkerCount)
		go func(topic string) {
			logrus.WithFields(logrus.Fields{
				"group":   cfg.WorkerGroup,
				"topic":   topic,
				"workers": cfg.WorkerCount,
			}).Info("behavior consumer started")
			if err := cons.Start(ctx, svc.Handle); err != nil {
				logrus.WithError(err).WithField("topic", topic).Error("consumer exit")
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		logrus.Info("shutting down consumers...")
	case <-ctx.Done():
	}
	cancel()
	time.Sleep(500 * time.Millisecond)
}
