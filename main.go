// Command mergetile starts the Merge Tile game server.
//
// It supports two modes:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket
//     feed and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server against an existing API, or spins up an
//     internal loopback API if none answers
//
// Flags (with environment fallbacks) control host/port, the preset directory,
// logging, and optional ngrok tunneling for external access during
// development. A .env file in the working directory is loaded first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/mergetile/api"
	"github.com/wricardo/mcp-training/mergetile/game/config"
	"github.com/wricardo/mcp-training/mergetile/game/service"
	"github.com/wricardo/mcp-training/mergetile/game/session"
	"github.com/wricardo/mcp-training/mergetile/transport/mcp"
	"github.com/wricardo/mcp-training/mergetile/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Merge Tile Server"
)

const (
	cleanupInterval = time.Hour
	shutdownTimeout = 10 * time.Second
)

// options holds the resolved command line configuration
type options struct {
	Port        int
	Host        string
	ConfigDir   string
	Debug       bool
	LogFile     string
	SessionTTL  time.Duration
	APIURL      string
	NgrokOn     bool
	NgrokAuth   string
	NgrokDomain string
}

// Addr returns host:port for the HTTP listener
func (o options) Addr() string {
	return net.JoinHostPort(o.Host, fmt.Sprint(o.Port))
}

func main() {
	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("mergetile exited")
	}
}

// newCommand builds the command tree. Flags are shared by every subcommand.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "mergetile",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP server port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "host",
				Value:   "localhost",
				Usage:   "HTTP server host",
				Sources: cli.EnvVars("HOST"),
			},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing game presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("DEBUG"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "also write JSON logs to this file, rotated by size",
				Sources: cli.EnvVars("LOG_FILE"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Value:   24 * time.Hour,
				Usage:   "remove sessions idle for longer than this",
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "REST API for the mcp command (default http://localhost:<port>)",
				Sources: cli.EnvVars("MERGETILE_API_URL"),
			},
			&cli.BoolFlag{
				Name:    "ngrok",
				Usage:   "enable ngrok tunnel",
				Sources: cli.EnvVars("NGROK_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "ngrok-domain",
				Usage:   "custom ngrok domain (optional)",
				Sources: cli.EnvVars("NGROK_DOMAIN"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			opts := optionsFrom(cmd)
			return ctx, setupLogging(opts.Debug, opts.LogFile)
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Action:  runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server",
				Action:  runMCP,
			},
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintf(cmd.Root().Writer, "%s v%s\n", AppName, Version)
					return err
				},
			},
		},
	}
}

// optionsFrom reads flags from cmd or its ancestors
func optionsFrom(cmd *cli.Command) options {
	opts := options{
		Port:        cmd.Int("port"),
		Host:        cmd.String("host"),
		ConfigDir:   cmd.String("config-dir"),
		Debug:       cmd.Bool("debug"),
		LogFile:     cmd.String("log-file"),
		SessionTTL:  cmd.Duration("session-ttl"),
		APIURL:      cmd.String("api-url"),
		NgrokOn:     cmd.Bool("ngrok"),
		NgrokAuth:   cmd.String("ngrok-auth"),
		NgrokDomain: cmd.String("ngrok-domain"),
	}
	if opts.APIURL == "" {
		opts.APIURL = fmt.Sprintf("http://localhost:%d", opts.Port)
	}
	return opts
}

// setupLogging configures the standard logrus logger. Text goes to stderr so
// stdout stays free for the MCP stdio transport.
func setupLogging(debug bool, logFile string) error {
	level := logrus.InfoLevel
	if debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if logFile == "" {
		return nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Level:      level,
		Formatter:  &logrus.JSONFormatter{TimestampFormat: time.RFC3339},
	})
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logFile, err)
	}
	logrus.AddHook(hook)
	return nil
}

// initializeServices wires the config and session managers into the game
// service. Idle hints are pushed to notifier when it is non-nil.
func initializeServices(configDir string, notifier service.HintNotifier) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager()

	var opts []service.Option
	if notifier != nil {
		opts = append(opts, service.WithHintNotifier(notifier))
	}

	logrus.WithFields(logrus.Fields{
		"config_dir": configDir,
		"presets":    configManager.Count(),
	}).Info("services initialized")

	return service.NewGameService(sessionManager, configManager, opts...), sessionManager, nil
}

// newHandler mounts the REST API at the root and the MCP proxy at /mcp
func newHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", apiServer)
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
	return mux
}

// cleanupSessions removes idle sessions until ctx is done
func cleanupSessions(ctx context.Context, manager *session.Manager, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			manager.CleanupExpiredSessions(ttl)
		}
	}
}

// runServe starts the HTTP server, the WebSocket hub, session cleanup and the
// optional ngrok tunnel, and stops them all on SIGINT or SIGTERM.
func runServe(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := websocket.NewHub()
	gameService, sessions, err := initializeServices(opts.ConfigDir, hub)
	if err != nil {
		return err
	}

	addr := opts.Addr()
	mcpClient := mcp.NewClient("http://" + addr)
	handler := newHandler(api.NewServer(gameService, hub), mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	logrus.Infof("starting %s v%s", AppName, Version)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gCtx)
		return nil
	})

	g.Go(func() error {
		cleanupSessions(gCtx, sessions, cleanupInterval, opts.SessionTTL)
		return nil
	})

	g.Go(func() error {
		logrus.WithFields(logrus.Fields{
			"api":       fmt.Sprintf("http://%s/api", addr),
			"websocket": fmt.Sprintf("ws://%s/ws?session=<id>", addr),
			"mcp":       fmt.Sprintf("http://%s/mcp", addr),
		}).Infof("ready to serve @ %s", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if opts.NgrokOn {
		g.Go(func() error {
			runNgrok(gCtx, handler, opts)
			return nil
		})
	}

	err = g.Wait()
	logrus.Info("server stopped")
	return err
}

// runNgrok serves handler through an ngrok tunnel until ctx is done. Tunnel
// failures are logged and leave the local server running.
func runNgrok(ctx context.Context, handler http.Handler, opts options) {
	if opts.NgrokAuth == "" {
		logrus.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var endpoint ngrokConfig.Tunnel
	if opts.NgrokDomain != "" {
		endpoint = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(opts.NgrokDomain))
	} else {
		endpoint = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, endpoint, ngrok.WithAuthtoken(opts.NgrokAuth))
	if err != nil {
		logrus.WithError(err).Error("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logrus.WithError(err).Warn("failed to close ngrok tunnel")
		}
	}()

	url := tun.URL()
	logrus.WithFields(logrus.Fields{
		"api":       url + "/api",
		"websocket": url + "/ws?session=<id>",
		"mcp":       url + "/mcp",
	}).Infof("ngrok tunnel established: %s", url)

	if err := http.Serve(tun, handler); err != nil && ctx.Err() == nil {
		logrus.WithError(err).Error("ngrok server error")
	}
	logrus.Info("ngrok tunnel closed")
}

// apiAvailable reports whether a Merge Tile API answers at baseURL
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// startInternalAPI serves a private API on a random loopback port. The
// returned function stops it.
func startInternalAPI(ctx context.Context, configDir string) (string, func(), error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub()
	gameService, sessions, err := initializeServices(configDir, hub)
	if err != nil {
		listener.Close()
		return "", nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	go hub.Run(ctx)
	go cleanupSessions(ctx, sessions, cleanupInterval, 24*time.Hour)

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("internal HTTP server error")
		}
	}()

	baseURL := "http://" + listener.Addr().String()
	logrus.WithField("url", baseURL).Info("internal API started for MCP stdio")

	shutdown := func() {
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		httpServer.Shutdown(shutdownCtx)
	}
	return baseURL, shutdown, nil
}

// runMCP serves MCP over stdio, proxying to an external API when one answers
// and to an internal loopback API otherwise
func runMCP(ctx context.Context, cmd *cli.Command) error {
	opts := optionsFrom(cmd)

	baseURL := opts.APIURL
	if apiAvailable(ctx, baseURL) {
		logrus.WithField("url", baseURL).Info("using external API for MCP")
	} else {
		logrus.WithField("url", baseURL).Info("no external API found, starting internal HTTP server")

		internalURL, shutdown, err := startInternalAPI(ctx, opts.ConfigDir)
		if err != nil {
			return err
		}
		defer shutdown()
		baseURL = internalURL
	}

	logrus.Info("MCP stdio server ready")
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
