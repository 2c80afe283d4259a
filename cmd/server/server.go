package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/martinsuchenak/netorg/internal/api"
	"github.com/martinsuchenak/netorg/internal/classify"
	"github.com/martinsuchenak/netorg/internal/config"
	"github.com/martinsuchenak/netorg/internal/health"
	"github.com/martinsuchenak/netorg/internal/identify"
	"github.com/martinsuchenak/netorg/internal/log"
	"github.com/martinsuchenak/netorg/internal/mcp"
	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/organize"
	"github.com/martinsuchenak/netorg/internal/storage"
	"github.com/martinsuchenak/netorg/internal/unifi"
	"github.com/martinsuchenak/netorg/internal/worker"
	"github.com/paularlott/cli"
)

// logObserver streams per-client events into the structured log.
type logObserver struct{}

func (logObserver) ClientOrganized(entry model.OrganizedEntry) {
	log.Debug("Client organized", "mac", entry.MAC, "name", entry.Name, "category", entry.Category, "ip", entry.AssignedIP)
}

func (logObserver) ClientUnclassified(entry model.UnclassifiedEntry) {
	log.Debug("Client unclassified", "mac", entry.MAC, "name", entry.Name, "guess", entry.Guess)
}

func (logObserver) ClientRejected(entry model.RejectedEntry) {
	log.Warn("Client rejected", "mac", entry.MAC, "reason", entry.Reason)
}

// ServerConfig holds configuration for running the server
type ServerConfig struct {
	Config     *config.Config
	Store      storage.Storage
	APIHandler *api.Handler
	MCPServer  *mcp.Server
	Scheduler  *worker.Scheduler
	Pool       *worker.WorkerPool
}

// RunServer starts the netorg server with the given configuration
func RunServer(cfg *ServerConfig) error {
	mux := http.NewServeMux()

	// API routes
	cfg.APIHandler.RegisterRoutes(mux)

	// MCP endpoint
	mux.HandleFunc("/mcp", cfg.MCPServer.HandleRequest)

	// Apply middleware
	var handler http.Handler = mux
	if cfg.Config.IsAPIAuthEnabled() {
		handler = api.AuthMiddleware(cfg.Config.APIAuthToken, handler)
	}
	handler = api.SecurityHeadersMiddleware(handler)

	server := &http.Server{
		Addr:    cfg.Config.ListenAddr,
		Handler: handler,
	}

	// Handle shutdown gracefully
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("Shutting down server...")
		server.Close()
	}()

	log.Info("Starting netorg server", "addr", cfg.Config.ListenAddr)
	log.Info("API available", "url", "http://localhost"+cfg.Config.ListenAddr+"/api/")
	log.Info("MCP available", "url", "http://localhost"+cfg.Config.ListenAddr+"/mcp")
	if cfg.Config.IsMCPEnabled() {
		log.Info("MCP authentication enabled")
	}
	if cfg.Config.IsAPIAuthEnabled() {
		log.Info("API authentication enabled")
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server error", "error", err)
		return err
	}

	log.Info("Server stopped")
	return nil
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "server",
		Usage:       "Start the netorg server",
		Description: "Start the HTTP server with the organization API and MCP endpoint",
		Flags:       config.GetFlags(),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.Load(cmd)

			if cfg.ControllerURL == "" {
				return errors.New("controller URL is required (set --controller-url or NETORG_CONTROLLER_URL)")
			}

			log.Info("Configuration loaded", "source", cfg.String(), "data_dir", cfg.DataDir, "listen_addr", cfg.ListenAddr)

			store, err := storage.NewSQLiteStorage(cfg.DataDir)
			if err != nil {
				log.Error("Failed to initialize storage", "error", err)
				return err
			}
			defer store.Close()
			log.Info("Storage initialized", "path", store.GetDatabasePath())

			scheme, rules, err := config.LoadScheme(cfg.SchemeFile)
			if err != nil {
				log.Error("Failed to load scheme", "error", err)
				return err
			}

			classifier, err := classify.New(rules)
			if err != nil {
				log.Error("Invalid rule table", "error", err)
				return err
			}
			identifier := identify.New(identify.DefaultThresholds())

			organizer, err := organize.New(scheme, classifier, identifier, logObserver{})
			if err != nil {
				return err
			}

			var opts []unifi.Option
			if cfg.ControllerInsecure {
				opts = append(opts, unifi.WithInsecureTLS())
			}
			controller := unifi.NewClient(cfg.ControllerURL, cfg.ControllerSite, cfg.ControllerAPIKey, opts...)

			advisor := health.New(health.DefaultConfig())

			apiHandler := api.NewHandler(store, controller, organizer, advisor, classifier, identifier, scheme)
			mcpServer := mcp.NewServer(store, controller, organizer, advisor, classifier, identifier, cfg.MCPAuthToken)

			serverConfig := &ServerConfig{
				Config:     cfg,
				Store:      store,
				APIHandler: apiHandler,
				MCPServer:  mcpServer,
			}

			// Scheduled dry-run passes
			if cfg.OrganizeCron != "" {
				pool := worker.NewWorkerPool(1)
				pool.Start()
				defer pool.Stop()

				pass := func(ctx context.Context) error {
					clients, err := controller.FetchClients(ctx)
					if err != nil {
						return err
					}
					devices, err := controller.FetchDevices(ctx)
					if err != nil {
						return err
					}
					unifi.ResolveUplinks(clients, devices)

					result, err := organizer.Run(ctx, clients, organize.Options{})
					if err != nil {
						return err
					}
					return store.SaveRun(result)
				}

				scheduler, err := worker.NewScheduler(cfg.OrganizeCron, pool, pass)
				if err != nil {
					log.Error("Failed to create scheduler", "error", err)
					return err
				}
				scheduler.Start()
				defer scheduler.Stop()

				serverConfig.Pool = pool
				serverConfig.Scheduler = scheduler
				log.Info("Scheduled passes enabled", "cron", cfg.OrganizeCron)
			}

			return RunServer(serverConfig)
		},
	}
}
