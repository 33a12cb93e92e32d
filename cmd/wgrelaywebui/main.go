package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"wg-relay-webui/internal/auth"
	"wg-relay-webui/internal/autostart"
	"wg-relay-webui/internal/database"
	"wg-relay-webui/internal/diaglog"
	"wg-relay-webui/internal/enroll"
	"wg-relay-webui/internal/events"
	"wg-relay-webui/internal/firewall"
	"wg-relay-webui/internal/profiles"
	"wg-relay-webui/internal/registration"
	"wg-relay-webui/internal/relays"
	"wg-relay-webui/internal/server"
	"wg-relay-webui/internal/settings"
	"wg-relay-webui/internal/tunnel"
	"wg-relay-webui/internal/util"
	"wg-relay-webui/internal/version"
)

func main() {
	addr := flag.String("addr", ":8092", "listen address")
	wireguardDir := flag.String("wireguard-dir", profiles.DefaultDir, "directory holding WireGuard profiles")
	dataDir := flag.String("data-dir", "/var/lib/wg-relay-webui", "directory for settings, cache and logs")
	cleanupInterval := flag.Duration("cleanup-interval", 24*time.Hour, "interval between database cleanup runs")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Current().String())
		return
	}

	if err := os.MkdirAll(*dataDir, 0o700); err != nil {
		log.Fatalf("failed to create data directory: %v", err)
	}

	diag := diaglog.New(filepath.Join(*dataDir, "debug.log"))
	defer diag.Close()

	settingsManager := settings.NewManager(filepath.Join(*dataDir, "settings.json"))
	storedSettings, err := settingsManager.Get()
	if err != nil {
		log.Printf("warning: failed to load settings: %v", err)
	}
	diag.SetLevel(storedSettings.DebugLogLevel)

	authManager := auth.NewManager(settingsManager)
	if err := authManager.EnsureDefaults(); err != nil {
		log.Fatalf("failed to initialise auth credentials: %v", err)
	}

	db, err := database.Open(filepath.Join(*dataDir, "wg-relay.db"))
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	profileStore := profiles.NewStore(*wireguardDir)
	firewallManager := firewall.NewManager(nil, diag)
	eventLog := events.NewLog(db)
	controller := tunnel.NewController(nil, profileStore, firewallManager, eventLog, diag)
	registry := autostart.NewRegistry(nil, diag)
	relayCache := relays.NewStore(db)
	relayClient := relays.NewClient(nil)
	registrar := registration.NewClient(nil)
	enroller := enroll.NewEnroller(profileStore, controller, registrar, relayClient, relayCache, diag)

	srv := server.New(server.Deps{
		Tunnel:    controller,
		Profiles:  profileStore,
		Autostart: registry,
		Directory: relayClient,
		Cache:     relayCache,
		Enroller:  enroller,
		Events:    eventLog,
		Settings:  settingsManager,
		Auth:      authManager,
		Log:       diag,
	})

	listenAddr := resolveListenAddress(*addr, storedSettings.ListenInterface)

	stop := make(chan struct{})
	go runCleanup(db, *cleanupInterval, stop, diag)

	httpServer := &http.Server{
		Addr:         listenAddr,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("wg-relay web ui listening on %s", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	log.Println("shutting down...")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// runCleanup prunes old event history on a timer until stop is closed.
func runCleanup(db *sql.DB, interval time.Duration, stop <-chan struct{}, diag *diaglog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := database.Cleanup(db); err != nil {
				diag.Warnf("database cleanup failed: %v", err)
			}
		case <-stop:
			return
		}
	}
}

func resolveListenAddress(defaultAddr, listenInterface string) string {
	host, port, err := net.SplitHostPort(defaultAddr)
	if err != nil {
		trimmed := strings.TrimPrefix(defaultAddr, ":")
		if trimmed == "" {
			port = "8092"
		} else {
			port = trimmed
		}
		host = ""
	}
	if listenInterface == "" {
		if host == "" {
			return ":" + port
		}
		return net.JoinHostPort(host, port)
	}
	ip, err := util.InterfaceIPv4(listenInterface)
	if err != nil || ip == "" {
		log.Printf("warning: unable to resolve IP for interface %s: %v", listenInterface, err)
		if host == "" {
			return ":" + port
		}
		return net.JoinHostPort(host, port)
	}
	return net.JoinHostPort(ip, port)
}
