package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopmobile/internal/account"
	"shopmobile/internal/address"
	"shopmobile/internal/admin"
	"shopmobile/internal/catalog"
	"shopmobile/internal/coupon"
	"shopmobile/internal/handler"
	"shopmobile/internal/model"
	"shopmobile/internal/order"
	"shopmobile/internal/promotion"
	"shopmobile/pkg/config"
	"shopmobile/pkg/database"
	"shopmobile/pkg/discovery"
	"shopmobile/pkg/jwt"
	"shopmobile/pkg/tracer"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	jwt.SetSecret(cfg.Auth.Secret)

	if cfg.Jaeger.Endpoint != "" {
		tp, err := tracer.InitTracer(cfg.Service.Name, cfg.Jaeger.Endpoint)
		if err != nil {
			log.Fatalf("init tracer: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Printf("tracer shutdown: %v", err)
			}
		}()
	}

	db, err := database.InitMySQL(cfg.Mysql)
	if err != nil {
		log.Fatalf("init mysql: %v", err)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("init redis: %v", err)
	}

	if cfg.Consul.Address != "" {
		if err := discovery.RegisterService(cfg.Service.Name, cfg.Service.Port, cfg.Consul.Address); err != nil {
			log.Fatalf("register service: %v", err)
		}
	}

	h := handler.New(
		catalog.NewStore(db),
		catalog.NewQuery(db),
		promotion.NewEngine(db),
		coupon.NewService(db),
		account.NewService(db, account.NewRedisTokenStore(rdb)),
		address.NewManager(db),
		order.NewLedger(db),
		admin.NewService(db),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Service.Port),
		Handler: h.Router(),
	}

	go func() {
		log.Printf("%s listening on %s", cfg.Service.Name, srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
