package app

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/school-library/library/config"
	"github.com/Astemirdum/school-library/library/internal/handler"
	"github.com/Astemirdum/school-library/library/internal/repository"
	"github.com/Astemirdum/school-library/library/internal/server"
	"github.com/Astemirdum/school-library/library/internal/service"
	"github.com/Astemirdum/school-library/library/migrations"
	cb "github.com/Astemirdum/school-library/pkg/circuit_breaker"
	"github.com/Astemirdum/school-library/pkg/kafka"
	"github.com/Astemirdum/school-library/pkg/logger"
	"github.com/Astemirdum/school-library/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	var publisher service.EventPublisher = service.NopPublisher{}
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
		p := kafka.NewPublisher(producer, kafka.RentEventsTopic, cb.NewFromConfig(cfg.Breaker))
		defer func() {
			if err := p.Close(); err != nil {
				log.Error("producer close", zap.Error(err))
			}
		}()
		publisher = p
	} else {
		log.Warn("kafka is not configured, loan events are dropped")
	}

	svc := service.NewService(repo, publisher, log)
	h := handler.New(svc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr", net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	if cfg.Kafka.Enabled() {
		group, err := kafka.NewConsumer(cfg.Kafka, kafka.LendingConsumerGroup)
		if err != nil {
			log.Fatal("kafka.NewConsumer", zap.Error(err))
		}
		g.Go(func() error {
			kafka.Consume(gctx, group, handler.NewConsumer(svc, log), log, kafka.RentCommandsTopic)
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return group.Close()
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("app stopped", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
