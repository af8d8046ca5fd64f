// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/gin-gonic/gin"
	"github.com/juju/errors"

	"footy-stadia/config"
	"footy-stadia/logger"
	"footy-stadia/middleware"
	"footy-stadia/services"
	"footy-stadia/store"
	"footy-stadia/store/memory"
	"footy-stadia/store/mongo"
)

const (
	mongoDialTimeout = 10 * time.Second
	shutdownTimeout  = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error.Fatalf("Invalid config: %v", err)
	}
	if err := logger.InitLogger(cfg.LogDir); err != nil {
		logger.Error.Fatalf("Failed to initialise logging: %v", err)
	}
	logger.SetLogLevel(cfg.Env)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := openStore(cfg)
	if err != nil {
		logger.Error.Fatalf("Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer st.Close()

	var awsSess *session.Session
	if cfg.GeocoderProvider == config.GeocoderAWS || cfg.MetricsEnabled {
		awsSess, err = session.NewSession(&aws.Config{Region: aws.String(cfg.AWSRegion)})
		if err != nil {
			logger.Error.Fatalf("Failed to create AWS session: %v", err)
		}
	}

	geocoder, err := newGeocoder(cfg, awsSess)
	if err != nil {
		logger.Error.Fatalf("Failed to create geocoder: %v", err)
	}

	router := setupRouter(cfg, deps{
		Store:    st,
		Geocoder: geocoder,
		Metrics:  newMetrics(cfg, awsSess),
		Accounts: services.NewAccountService(st),
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           middleware.MethodOverride(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info.Printf("Footy Stadia listening on %s (env=%s, store=%s)", cfg.Addr(), cfg.Env, cfg.StoreDriver)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Printf("Failed to run server: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info.Println("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("Shutdown error: %v", err)
		}
	}
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		logger.Warn.Println("Using the in-memory store; data is lost on restart")
		return memory.New(), nil
	default:
		return mongo.Dial(cfg.MongoURL, mongoDialTimeout)
	}
}

func newGeocoder(cfg *config.Config, sess *session.Session) (services.Geocoder, error) {
	switch cfg.GeocoderProvider {
	case config.GeocoderAWS:
		return services.NewAWSGeocoder(sess, cfg.AWSPlaceIndex), nil
	default:
		return services.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	}
}

func newMetrics(cfg *config.Config, sess *session.Session) services.Metrics {
	if !cfg.MetricsEnabled {
		return services.NoopMetrics{}
	}
	return services.NewCloudWatchMetrics(sess, cfg.MetricsNamespace, cfg.Env)
}
