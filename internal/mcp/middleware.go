package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const identityKey contextKey = iota

// Identity is the authenticated caller attached to every request.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Avatar string
}

// identityFromContext extracts the caller identity from context.
func identityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey).(Identity)
	return id
}

// IdentityResolver resolves a caller identity from a bearer token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (Identity, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver IdentityResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			identity, err := resolver.ResolveIdentity(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if identity.UserID == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			ctx = context.WithValue(ctx, identityKey, identity)
			return next(ctx, method, req)
		}
	}
}

// noAuthMiddleware injects a fixed identity when auth is disabled.
func noAuthMiddleware(identity Identity) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, identityKey, identity)
			return next(ctx, method, req)
		}
	}
}
