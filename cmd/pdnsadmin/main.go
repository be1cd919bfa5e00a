package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"

	"pdnsadmin/internal/config"
	"pdnsadmin/internal/db"
	"pdnsadmin/internal/server/rest"
)

// Version is set via -ldflags "-X main.Version=<version>" during build.
var Version = "dev"

func main() {
	// Normalize GNU-style flags ("--flag") to Go's default ("-flag")
	// so both -c and --config work without extra deps.
	if len(os.Args) > 1 {
		norm := make([]string, 0, len(os.Args))
		norm = append(norm, os.Args[0])
		for i := 1; i < len(os.Args); i++ {
			a := os.Args[i]
			if a == "--" {
				norm = append(norm, a)
				norm = append(norm, os.Args[i+1:]...)
				break
			}
			if strings.HasPrefix(a, "--") {
				a = "-" + strings.TrimPrefix(a, "--")
			}
			norm = append(norm, a)
		}
		os.Args = norm
	}

	var (
		cfgPath  string
		testOnly bool
		token    string
		showVer  bool
	)
	flag.StringVar(&cfgPath, "c", "", "path to config file (yaml)")
	flag.StringVar(&cfgPath, "config", "", "path to config file (yaml)")
	flag.BoolVar(&testOnly, "t", false, "validate config and exit")
	flag.BoolVar(&testOnly, "test", false, "validate config and exit")
	flag.StringVar(&token, "g", "", "generate bcrypt hash for api token and exit")
	flag.StringVar(&token, "gen-token", "", "generate bcrypt hash for api token and exit")
	flag.BoolVar(&showVer, "v", false, "print version and exit")
	flag.BoolVar(&showVer, "version", false, "print version and exit")
	flag.Parse()

	if showVer {
		fmt.Println(Version)
		return
	}

	logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          "pdnsadmin",
	})

	if token != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
		if err != nil {
			logger.Fatal("generate bcrypt", "err", err)
		}
		fmt.Printf("Bcrypt hash for API token '%s':\n%s\n", token, string(hash))
		fmt.Println("\nAdd this to your config.yaml:")
		fmt.Printf("api_token_hash: \"%s\"\n", string(hash))
		return
	}

	// Config path precedence: -c/--config > env > default
	if cfgPath == "" {
		cfgPath = os.Getenv("PDNSADMIN_CONFIG")
	}
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("load config", "path", cfgPath, "err", err)
	}
	if cfg.Debug {
		logger.SetLevel(charmlog.DebugLevel)
	}

	if testOnly {
		fmt.Printf("Config OK: %s\n", cfgPath)
		return
	}

	gormDB, err := db.OpenWithDebug(cfg.DB, cfg.Debug)
	if err != nil {
		logger.Fatal("open db", "driver", cfg.DB.Driver, "err", err)
	}
	if err := db.AutoMigrate(gormDB); err != nil {
		logger.Fatal("migrate db", "err", err)
	}

	srv, err := rest.NewServer(cfg, gormDB, logger)
	if err != nil {
		logger.Fatal("rest server", "err", err)
	}

	go func() {
		logger.Info("listening", "addr", cfg.Listen, "version", Version)
		if err := srv.Start(); err != nil {
			logger.Fatal("rest start", "err", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}
