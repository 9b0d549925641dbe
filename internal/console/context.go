package console

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/inctrack/console-mcp-server/pkg/console"
	"github.com/inctrack/console-mcp-server/pkg/tracker"
	"github.com/inctrack/console-mcp-server/pkg/trace"
)

type contextKey string

const (
	configKey  = contextKey("consoleConfig")
	sessionKey = contextKey("consoleSession")
)

// ContextWithConfig adds the console config to the context.
func ContextWithConfig(ctx context.Context, cfg ConsoleConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// ConfigFromContext returns the console config from the context.
func ConfigFromContext(ctx context.Context) (ConsoleConfig, bool) {
	cfg, ok := ctx.Value(configKey).(ConsoleConfig)
	return cfg, ok
}

func sessionFromContext(ctx context.Context) (*console.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*console.Session)
	return s, ok
}

func contextWithSession(ctx context.Context, s *console.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// sessionCache maps MCP session + backend token to live console sessions.
// The console is stateful (pagination, expanded rows, assignment rosters), so
// the same caller must keep resolving to the same session across tool calls,
// while two MCP clients sharing a token still get independent view state.
// Stdio has a single MCP session, so the cache degenerates to a singleton.
var sessionCache = &sync.Map{} // map[string]*console.Session

// getSession resolves the console session for a tool call: from the call
// context if a previous call in the same request attached one, otherwise from
// the token-keyed cache, creating client and session on first use. The
// returned context additionally carries trace identifiers for the call.
func getSession(ctx context.Context, defaultCfg ConsoleConfig, version string) (context.Context, *console.Session, error) {
	ctx, _ = trace.EnsureContext(ctx)

	if s, ok := sessionFromContext(ctx); ok {
		return ctx, s, nil
	}

	cfg, ok := ConfigFromContext(ctx)
	if !ok {
		cfg = defaultCfg
	}

	if cfg.SessionToken == "" {
		return ctx, nil, fmt.Errorf("tracker session token is not configured")
	}

	cacheKey := cfg.SessionToken
	if cs := server.ClientSessionFromContext(ctx); cs != nil {
		cacheKey = cs.SessionID() + "|" + cfg.SessionToken
	}

	if s, ok := sessionCache.Load(cacheKey); ok {
		session := s.(*console.Session)
		return contextWithSession(ctx, session), session, nil
	}

	userAgent := fmt.Sprintf("console-mcp-server/%s", version)
	client, err := tracker.NewClient(cfg.BaseURL, cfg.SessionToken, userAgent)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to create tracker client: %w", err)
	}

	session := console.NewSession(client)
	sessionCache.Store(cacheKey, session)
	ctx = contextWithSession(ctx, session)

	return ctx, session, nil
}
