package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/scanstation/api"
	"github.com/danielhkuo/scanstation/auth"
	"github.com/danielhkuo/scanstation/cliparse"
	"github.com/danielhkuo/scanstation/db"
	"github.com/danielhkuo/scanstation/journal"
	"github.com/danielhkuo/scanstation/middleware"
	"github.com/danielhkuo/scanstation/router"
	"github.com/danielhkuo/scanstation/scan"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Restore the operator session
	store := auth.NewFileStore(cfg.TokenFile)
	session := auth.NewSession()
	if err := session.Load(store); err != nil {
		slog.Warn("ignoring stored session", "file", cfg.TokenFile, "error", err)
	}

	client := api.New(cfg.APIURL, session)
	slog.Info("Events backend", "url", client.BaseURL)

	if cfg.Email != "" {
		loginCtx, cancel := context.WithTimeout(context.Background(), cfg.ValidateTimeout)
		_, err := client.Login(loginCtx, cfg.Email, cfg.Password)
		cancel()
		if err != nil {
			slog.Error("login failed", "email", cfg.Email, "error", err)
			os.Exit(1)
		}
		if err := session.Save(store); err != nil {
			slog.Warn("failed to persist session", "error", err)
		}
		slog.Info("Logged in", "email", cfg.Email)
	} else if !session.LoggedIn() {
		slog.Warn("no operator session; validations will be rejected until POST /session")
	}

	// Open the scan journal
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	j := journal.New(dbConn, cfg.DatabaseType)

	// Build the gate
	sink := scan.MultiSink{scan.LogSink{}, scan.NewWriterSink(os.Stdout), j}
	gate := scan.NewGate(scan.NewRemoteValidator(client), sink,
		scan.WithValidateTimeout(cfg.ValidateTimeout))
	demo := scan.NewDemoSource(cfg.DemoPayload)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	go func() {
		if err := scan.Pump(ctx, gate, demo); err != nil {
			slog.Error("demo source stopped", "error", err)
		}
	}()

	if cfg.Source == cliparse.SourceStdin {
		go func() {
			if err := scan.Pump(ctx, gate, scan.NewReaderSource(os.Stdin)); err != nil {
				slog.Error("stdin source stopped", "error", err)
				return
			}
			slog.Info("stdin source closed")
		}()
		slog.Info("Reading scans from stdin")
	}

	// Create router
	mux := router.NewRouter(router.Deps{
		Gate:    gate,
		Demo:    demo,
		Journal: j,
		Client:  client,
		Store:   store,
		Config:  cfg,
	})

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		stop()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}

	// Drop whatever is still in flight before the journal closes
	gate.Deactivate()
	gate.Wait()
}
