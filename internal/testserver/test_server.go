// Package testserver boots a fully wired padsync stack for tests: real
// SQLite storage, domain services, the MCP tool surface and the websocket
// stream routes, all sharing one hub.
package testserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/padsync/padsync/internal/domain/access"
	"github.com/padsync/padsync/internal/domain/collaborator"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/domain/project"
	"github.com/padsync/padsync/internal/live"
	"github.com/padsync/padsync/internal/mcp"
	"github.com/padsync/padsync/internal/sqlite"
	"github.com/padsync/padsync/internal/stream"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Hub    *live.Hub

	Projects      *project.Service
	Collaborators *collaborator.Service
	Files         *file.Service
	Presence      *presence.Service

	mcpServer *sdkmcp.Server
}

// New boots a stack with auth disabled: MCP calls run as the "local"
// identity and the stream routes accept unauthenticated connections.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	hub := live.NewHub()
	collabRepo := sqlite.NewCollaboratorRepository(db)
	authority := access.NewAuthority(collabRepo)
	fileRepo := sqlite.NewFileRepository(db)

	projectSvc := project.NewService(sqlite.NewProjectRepository(db), authority, nil)
	collabSvc := collaborator.NewService(collabRepo, authority, hub, nil)
	fileSvc := file.NewService(fileRepo, authority, hub, nil)
	presenceSvc := presence.NewService(sqlite.NewPresenceRepository(db), fileRepo, authority, hub, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:      projectSvc,
			Collaborators: collabSvc,
			Files:         fileSvc,
			Presence:      presenceSvc,
		},
		AuthEnabled:   false,
		TransportMode: "http",
	})

	router := http.NewServeMux()
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: false},
	)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	stream.NewServer(fileSvc, presenceSvc, hub, nil, nil).Register(router)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:        server,
		DB:            db,
		Hub:           hub,
		Projects:      projectSvc,
		Collaborators: collabSvc,
		Files:         fileSvc,
		Presence:      presenceSvc,
		mcpServer:     mcpServer,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// ClientSession connects an in-memory MCP client to the server.
func (ts *TestServer) ClientSession(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := ts.mcpServer.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		clientSession.Close()
		serverSession.Close()
		cancel()
	})

	return clientSession
}

// AddAPIToken seeds a bearer token resolving to the given user.
func (ts *TestServer) AddAPIToken(token, userID, email, name string) error {
	sum := sha256.Sum256([]byte(token))
	_, err := ts.DB.Exec(
		`INSERT INTO api_tokens (token_hash, user_id, email, display_name, created_at) VALUES (?, ?, ?, ?, ?)`,
		hex.EncodeToString(sum[:]), userID, email, name, time.Now().UTC(),
	)
	return err
}
