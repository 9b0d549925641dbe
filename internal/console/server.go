package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/inctrack/console-mcp-server/pkg/console"
	mcplog "github.com/inctrack/console-mcp-server/pkg/log"
	"github.com/inctrack/console-mcp-server/pkg/trace"
)

type ConsoleConfig struct {
	// Version of the server
	Version string

	// Incident tracker base URL
	BaseURL string

	// SessionToken authenticates against the incident tracker backend
	SessionToken string

	// EnabledToolsets is a list of toolsets to enable
	EnabledToolsets []string

	// ReadOnly indicates if we should only offer read-only tools
	ReadOnly bool

	// ToolLogger receives one line per tool call; nil disables it
	ToolLogger *slog.Logger
}

func NewMCPServer(cfg ConsoleConfig) (*server.MCPServer, error) {
	// When a client sends an initialize request, fold its client info into
	// the user agent of outgoing tracker requests.
	beforeInit := func(ctx context.Context, _ any, message *mcp.InitializeRequest) {
		_, session, err := getSession(ctx, cfg, cfg.Version)
		if err != nil {
			// For the HTTP transport the token arrives per request, so it
			// may be absent during initialize. The session is created
			// on-demand at the first tool call instead.
			logrus.Warnf("could not get session during initialization: %v", err)
			return
		}

		session.SetUserAgent(fmt.Sprintf(
			"console-mcp-server/%s (%s/%s)",
			cfg.Version,
			message.Params.ClientInfo.Name,
			message.Params.ClientInfo.Version,
		))
	}

	if len(cfg.EnabledToolsets) == 0 {
		cfg.EnabledToolsets = []string{"all"}
	}

	hooks := &server.Hooks{
		OnBeforeInitialize: []server.OnBeforeInitializeFunc{beforeInit},
	}
	if cfg.ToolLogger != nil {
		hooks.OnBeforeCallTool = []server.OnBeforeCallToolFunc{
			func(ctx context.Context, _ any, message *mcp.CallToolRequest) {
				traceID := "-"
				if tc := trace.FromContext(ctx); tc != nil {
					traceID = tc.TraceID
				}
				cfg.ToolLogger.Info("tool call",
					slog.String("trace_id", traceID),
					slog.String("tool", message.Params.Name),
				)
			},
		}
	}

	consoleServer := server.NewMCPServer("console-mcp-server", cfg.Version, server.WithHooks(hooks))

	getSessionFn := func(ctx context.Context) (context.Context, *console.Session, error) {
		return getSession(ctx, cfg, cfg.Version)
	}

	tsg := console.DefaultToolsetGroup(getSessionFn, cfg.ReadOnly)
	if err := tsg.EnableToolsets(cfg.EnabledToolsets); err != nil {
		return nil, fmt.Errorf("failed to enable toolsets: %w", err)
	}
	tsg.RegisterTools(consoleServer)

	return consoleServer, nil
}

type StdioServerConfig struct {
	// Version of the server
	Version string

	// Incident tracker base URL
	BaseURL string

	// SessionToken authenticates against the incident tracker backend
	SessionToken string

	// EnabledToolsets is a list of toolsets to enable
	EnabledToolsets []string

	// ReadOnly indicates if we should only register read-only tools
	ReadOnly bool

	// EnableCommandLogging indicates if we should log stdio frames
	EnableCommandLogging bool

	// Path to the log file if not stderr
	LogFilePath string
}

// RunStdioServer is not concurrent safe.
func RunStdioServer(cfg StdioServerConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logrusLogger := logrus.New()
	logOutput := io.Writer(os.Stderr)
	if cfg.LogFilePath != "" {
		file, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logrusLogger.SetLevel(logrus.DebugLevel)
		logrusLogger.SetOutput(file)
		logOutput = file
	}

	consoleServer, err := NewMCPServer(ConsoleConfig{
		Version:         cfg.Version,
		BaseURL:         cfg.BaseURL,
		SessionToken:    cfg.SessionToken,
		EnabledToolsets: cfg.EnabledToolsets,
		ReadOnly:        cfg.ReadOnly,
		ToolLogger:      NewToolLogger(logOutput, slog.LevelInfo),
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	stdioServer := server.NewStdioServer(consoleServer)
	stdioServer.SetErrorLogger(log.New(logrusLogger.Writer(), "stdioserver", 0))

	errC := make(chan error, 1)
	go func() {
		in, out := io.Reader(os.Stdin), io.Writer(os.Stdout)

		if cfg.EnableCommandLogging {
			loggedIO := mcplog.NewIOLogger(in, out, logrusLogger)
			in, out = loggedIO, loggedIO
		}
		errC <- stdioServer.Listen(ctx, in, out)
	}()

	_, _ = fmt.Fprintf(os.Stderr, "Incident Console MCP Server running on stdio\n")

	select {
	case <-ctx.Done():
		logrusLogger.Infof("shutting down server...")
	case err := <-errC:
		if err != nil {
			return fmt.Errorf("error running server: %w", err)
		}
	}

	return nil
}

type HTTPServerConfig struct {
	// Version of the server
	Version string
	// Commit of the server
	Commit string
	// Date of the server
	Date string

	// Incident tracker base URL
	BaseURL string

	// Port to listen on
	Port string

	// Path to the log file if not stderr
	LogFilePath string
}

// httpContextFunc extracts per-session configuration from the HTTP request
// and injects it into the context. Trace headers, when present, are carried
// through to the tracker requests of this call.
func httpContextFunc(ctx context.Context, r *http.Request, defaultBaseURL string) context.Context {
	var sessionToken string
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			sessionToken = parts[1]
		}
	}

	queryParams := r.URL.Query()
	if sessionToken == "" {
		sessionToken = queryParams.Get("session_token")
	}

	var enabledToolsets []string
	if toolsets := queryParams.Get("toolsets"); toolsets != "" {
		enabledToolsets = strings.Split(toolsets, ",")
	}
	readOnly := queryParams.Get("read_only") == "true"
	baseURL := queryParams.Get("base_url")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	if tc := trace.FromHTTPHeaders(r.Header); tc != nil {
		ctx = trace.ContextWith(ctx, tc)
	}

	return ContextWithConfig(ctx, ConsoleConfig{
		BaseURL:         baseURL,
		SessionToken:    sessionToken,
		EnabledToolsets: enabledToolsets,
		ReadOnly:        readOnly,
	})
}

func RunHTTPServer(cfg HTTPServerConfig) error {
	logrusLogger := logrus.New()
	logOutput := io.Writer(os.Stderr)
	if cfg.LogFilePath != "" {
		// #nosec G304
		file, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logrusLogger.SetOutput(file)
		logrusLogger.SetLevel(logrus.DebugLevel)
		logOutput = file
	} else {
		logrusLogger.SetOutput(os.Stderr)
		logrusLogger.SetLevel(logrus.InfoLevel)
	}

	// One MCP server instance for all sessions; per-session config arrives
	// through the request context.
	mcpServer, err := NewMCPServer(ConsoleConfig{
		Version:         cfg.Version,
		EnabledToolsets: []string{"all"},
		ToolLogger:      NewToolLogger(logOutput, slog.LevelInfo),
	})
	if err != nil {
		logrusLogger.Fatalf("failed to create MCP server: %v", err)
	}

	httpServer := server.NewStreamableHTTPServer(
		mcpServer,
		server.WithLogger(logrusLogger),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return httpContextFunc(ctx, r, cfg.BaseURL)
		}),
	)

	mux := http.NewServeMux()
	mux.Handle("/console", httpServer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 30 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0, // No timeout for streaming
	}

	go func() {
		logrusLogger.Infof("Server listening on http://0.0.0.0:%s, version: %s, commit: %s, date: %s",
			cfg.Port, cfg.Version, cfg.Commit, cfg.Date)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrusLogger.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrusLogger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logrusLogger.Info("server exiting")
	return nil
}
