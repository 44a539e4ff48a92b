package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"voyage/internal/catalog"
	"voyage/internal/events"
	"voyage/internal/httpapi"
	"voyage/internal/notify"
	"voyage/internal/payment"
	"voyage/internal/wizard"
	"voyage/pkg/catalogapi"
	"voyage/pkg/config"
	"voyage/pkg/db"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.UsesDatabase() {
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer conn.Close()
		pool = conn

		if cfg.MigrationsPath != "" {
			if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
	}

	cat := newCatalog(cfg, pool)

	loc, err := time.LoadLocation(cfg.Wizard.Timezone)
	if err != nil {
		log.Fatalf("wizard timezone %q: %v", cfg.Wizard.Timezone, err)
	}

	store := wizard.NewStore(cfg.Wizard.SessionTTL)
	svc := wizard.NewService(cat, store)
	svc.Location = loc
	svc.Payments = payment.NewProcessor(payment.ScaledSleep(cfg.Payment.DelayScale))

	if cfg.EventStore == config.EventStorePostgres {
		svc.Events = events.NewRepository(pool)
	} else {
		mem := events.NewMemory()
		svc.Events = mem
		store.OnExpire = mem.Forget
	}

	nc, ns := connectNATS(cfg)
	defer func() {
		if err := notify.Shutdown(nc, ns); err != nil {
			log.Printf("nats shutdown: %v", err)
		}
	}()
	if nc != nil {
		pub, err := notify.NewJetStream(ctx, nc, cfg.NATS.SubjectPrefix)
		if err != nil {
			log.Fatalf("nats jetstream: %v", err)
		}
		svc.Publisher = pub
	}

	go sweepSessions(ctx, store, cfg.Wizard.SessionTTL)

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:     cfg,
		Catalog: cat,
		Wizard:  svc,
		Now:     time.Now,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http listening on %s catalog=%s events=%s", cfg.HTTPAddr, cfg.CatalogSource, cfg.EventStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}

func newCatalog(cfg config.Config, pool *pgxpool.Pool) catalog.Provider {
	switch cfg.CatalogSource {
	case config.CatalogPostgres:
		return catalog.NewRepository(pool)
	case config.CatalogHTTP:
		return catalog.NewRemote(catalogapi.Client{
			HTTPClient: &http.Client{Timeout: cfg.CatalogAPI.Timeout},
			BaseURL:    cfg.CatalogAPI.BaseURL,
			APIKey:     cfg.CatalogAPI.APIKey,
		})
	case config.CatalogMock, "":
		return catalog.NewMock()
	default:
		log.Fatalf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
		return nil
	}
}

// connectNATS returns nil, nil when booking hand-off is not configured.
func connectNATS(cfg config.Config) (*nats.Conn, *server.Server) {
	if !cfg.NATS.Enabled() {
		log.Printf("nats not configured, completed bookings are not published")
		return nil, nil
	}
	if cfg.NATS.Embedded {
		ns, err := notify.StartEmbedded(cfg.NATS.StoreDir)
		if err != nil {
			log.Fatalf("nats embedded: %v", err)
		}
		nc, err := notify.ConnectInProcess(ns)
		if err != nil {
			log.Fatalf("nats connect: %v", err)
		}
		return nc, ns
	}
	nc, err := notify.Connect(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats connect %s: %v", cfg.NATS.URL, err)
	}
	return nc, nil
}

func sweepSessions(ctx context.Context, store *wizard.Store, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := store.Sweep(now); n > 0 {
				log.Printf("wizard sessions expired count=%d", n)
			}
		}
	}
}
