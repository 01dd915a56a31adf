package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/roomcraft/designer/internal/budget"
	"github.com/roomcraft/designer/internal/catalog"
	"github.com/roomcraft/designer/internal/config"
	"github.com/roomcraft/designer/internal/detect"
	"github.com/roomcraft/designer/internal/events"
	"github.com/roomcraft/designer/internal/genai"
	"github.com/roomcraft/designer/internal/httpserver"
	"github.com/roomcraft/designer/internal/replace"
	"github.com/roomcraft/designer/internal/service"
	"github.com/roomcraft/designer/internal/storage"
	"github.com/roomcraft/designer/internal/vendor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	ctx := context.Background()

	var cat catalog.Catalog = catalog.NewDefaultStatic()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		if err := db.Ping(); err != nil {
			log.Fatalf("db ping: %v", err)
		}
		cat = catalog.NewPGCatalog(db)
		log.Printf("[startup] using postgres catalog")
	} else {
		log.Printf("[startup] no database configured, using static catalog")
	}

	detector, err := detect.NewHTTPClient(detect.HTTPClientConfig{
		BaseURL: cfg.DetectorURL,
		Retries: 1,
	})
	if err != nil {
		log.Fatalf("detector client init: %v", err)
	}

	source, err := vendor.NewHTTPSource(vendor.HTTPSourceConfig{
		BaseURL: cfg.VendorURL,
		Timeout: 5 * time.Second,
		Retries: 2,
	})
	if err != nil {
		log.Fatalf("vendor source init: %v", err)
	}
	vendorCache := vendor.NewCache(vendor.CacheConfig{
		Source:     source,
		TTL:        cfg.VendorCacheTTL,
		MaxEntries: cfg.VendorCacheMax,
	})

	providers := genai.NewRegistry()
	if cfg.GeneratorURL != "" {
		for _, name := range []string{"offline", "replicate", "hf"} {
			gen, err := genai.NewHTTPGenerator(genai.HTTPGeneratorConfig{
				Name:    name,
				BaseURL: cfg.GeneratorURL,
				Path:    "/generate/" + name,
			})
			if err != nil {
				log.Fatalf("generator init (%s): %v", name, err)
			}
			providers.Register(name, gen)
		}
	}

	var store storage.Store
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Fatalf("s3 store init: %v", err)
		}
		store = s3Store
		log.Printf("[startup] storing uploads in s3://%s/%s", cfg.S3Bucket, cfg.S3Prefix)
	} else {
		local, err := storage.NewLocal(cfg.StorageDir)
		if err != nil {
			log.Fatalf("local store init: %v", err)
		}
		store = local
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(events.KafkaPublisherConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatalf("kafka publisher init: %v", err)
		}
		defer kp.Close()
		publisher = kp
	}

	svc := service.New(
		store,
		detector,
		replace.New(cat),
		vendorCache,
		budget.New(cfg.TightMargin),
		providers,
		publisher,
	)
	server := httpserver.New(cfg, svc)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("designer service listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	waitForShutdown(httpServer)
}

func waitForShutdown(srv *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
