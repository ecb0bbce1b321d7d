package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hqtrung/vnshop/internal/cart"
	"github.com/hqtrung/vnshop/internal/catalog"
	"github.com/hqtrung/vnshop/internal/config"
	"github.com/hqtrung/vnshop/internal/coupon"
	"github.com/hqtrung/vnshop/internal/events"
	"github.com/hqtrung/vnshop/internal/httpx"
	kafkax "github.com/hqtrung/vnshop/internal/kafka"
	"github.com/hqtrung/vnshop/internal/orders"
	"github.com/hqtrung/vnshop/internal/postgres"
	"github.com/hqtrung/vnshop/internal/redisx"
	"github.com/hqtrung/vnshop/internal/review"
	"github.com/hqtrung/vnshop/internal/suggest"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logrus.WithError(err).Fatal("db connect")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		logrus.WithError(err).Fatal("db migrate")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pViews := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicProductViewed, 1024)
	pViews.Start(ctx)
	pSearch := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicSearchPerformed, 1024)
	pSearch.Start(ctx)
	pOrders := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderPlaced, 1024)
	pOrders.Start(ctx)

	// Repos
	catalogRepo := &catalog.Repo{DB: db}
	couponRepo := &coupon.Repo{DB: db}
	cartRepo := &cart.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	reviewRepo := &review.Repo{DB: db}

	// Handlers
	router := httpx.NewRouter()
	(&httpx.CatalogHandler{Repo: catalogRepo, Producer: pViews, Service: cfg.ServiceName}).Register(router)
	(&httpx.CouponHandler{Coupons: couponRepo, Carts: cartRepo}).Register(router)
	(&httpx.CartHandler{Carts: cartRepo, Coupons: couponRepo}).Register(router)
	(&httpx.OrdersHandler{Repo: orderRepo, Producer: pOrders, Redis: rdb, Service: cfg.ServiceName}).Register(router)
	(&httpx.ReviewHandler{Reviews: reviewRepo, Catalog: catalogRepo}).Register(router)
	(&httpx.SuggestHandler{
		Suggester: suggest.NewService(catalogRepo, rdb),
		Catalog:   catalogRepo,
		Redis:     rdb,
		Producer:  pSearch,
		Service:   cfg.ServiceName,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("listen")
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logrus.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range []*kafkax.Producer{pViews, pSearch, pOrders} {
		p.Close() // stop accepting, flush remainder
	}
	for _, p := range []*kafkax.Producer{pViews, pSearch, pOrders} {
		p.WaitClosed()
	}
}
