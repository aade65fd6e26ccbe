package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"jobs-portal/internal/backend"
	"jobs-portal/internal/config"
	"jobs-portal/internal/events"
	"jobs-portal/internal/httpapi"
	"jobs-portal/internal/logging"
	"jobs-portal/internal/poll"
	"jobs-portal/internal/portal"
	"jobs-portal/internal/store"
)

func main() {
	// Data dir: env if provided, else the working directory.
	dataDir := os.Getenv("PORTAL_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	boot := logging.New("info")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		boot.Fatal(err)
	}

	lock := flock.New(filepath.Join(dataDir, "portal.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		boot.Fatalf("lock data dir: %v", err)
	}
	if !locked {
		boot.Fatalf("another portal is already running with data dir %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		boot.Fatalf("config bootstrap failed: %v", err)
	}

	categoriesPath := filepath.Join(dataDir, "categories.yml")
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return config.Config{}, err
		}
		if err := config.OverlayCategories(&cfg, categoriesPath); err != nil {
			return config.Config{}, err
		}
		cfg, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			boot.WithField("path", userCfgPath).Warn(w)
		}
		if !vr.OK() {
			return config.Config{}, errors.New("invalid config: " + vr.Errors[0])
		}
		return cfg, nil
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	cfg, err := loadCfg()
	if err != nil {
		boot.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	log := logging.New(cfg.App.LogLevel)

	dbPath := filepath.Join(dataDir, "portal.db")
	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("open overlay store: %v", err)
	}
	defer db.Close()

	client := backend.NewFromConfig(cfg.Backend, log)
	hub := events.NewHub()
	svc := portal.NewService(client, db.Pool, hub, portal.OptionsFromConfig(cfg), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pollStatus atomic.Value
	pollStatus.Store(poll.Status{})
	poll.Start(ctx, svc, &cfgVal, &pollStatus, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Portal:      svc,
		Store:       db,
		Hub:         hub,
		Log:         log,
		CfgVal:      &cfgVal,
		PollStatus:  &pollStatus,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	tokenPath := filepath.Join(dataDir, "shutdown.token")
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		log.Fatalf("write shutdown token: %v", err)
	}
	defer os.Remove(tokenPath)
	router.With(httpapi.LocalOnly).Post("/shutdown", shutdownHandler(token, srv))

	addr := cfg.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	pending, _ := svc.PendingCount(ctx)
	log.WithFields(logrus.Fields{
		"addr":       "http://" + addr,
		"db":         dbPath,
		"backend":    client.BaseURL(),
		"categories": humanize.Comma(int64(len(svc.Categories()))),
		"pending":    pending,
	}).Info("portal listening")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Info("portal stopped")
}
