// sidekeyd is the key issuance daemon: it owns the profile database and
// serves the one-time key generation API the dashboard calls.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/sidelith/side/internal/apikey"
	"github.com/sidelith/side/internal/config"
	"github.com/sidelith/side/internal/httpserver"
	"github.com/sidelith/side/internal/issuer"
	"github.com/sidelith/side/internal/profile"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML config file")
		listenAddr = flag.String("listen", "", "Override the configured listen address")
		dbPath     = flag.String("db", "", "Override the configured database path")
		seed       = flag.Bool("seed", false, "Insert a demo profile and exit (development only)")
	)
	flag.Parse()

	log := logrus.New()

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	if *listenAddr != "" {
		cfg.ListenAddr = *listenAddr
	}
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	store, err := profile.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("opening profile store")
	}
	defer store.Close()

	if *seed {
		p := &profile.Profile{Email: "demo@sidelith.com", Tier: apikey.TierHobby}
		if err := store.Create(context.Background(), p); err != nil {
			log.WithError(err).Fatal("seeding profile")
		}
		log.WithField("profile", p.ID).Info("seeded demo profile")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := httpserver.New(httpserver.Config{
		ListenAddr:   cfg.ListenAddr,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		Log:          log,
	}, issuer.New(store, log), store)

	if err := srv.ListenAndServe(ctx); err != nil {
		log.WithError(err).Fatal("serving")
	}
	log.Info("shut down cleanly")
}
