package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/padsync/padsync/internal/config"
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
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("PADSYNC_LOG_PATH"); logPath != "" {
		fileWriter, logFile, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer logFile.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	hub := live.NewHub()

	projectRepo := sqlite.NewProjectRepository(db)
	collabRepo := sqlite.NewCollaboratorRepository(db)
	fileRepo := sqlite.NewFileRepository(db)
	presenceRepo := sqlite.NewPresenceRepository(db)

	authority := access.NewAuthority(collabRepo)

	projectSvc := project.NewService(projectRepo, authority, logger)
	collabSvc := collaborator.NewService(collabRepo, authority, hub, logger)
	fileSvc := file.NewService(fileRepo, authority, hub, logger)
	presenceSvc := presence.NewService(presenceRepo, fileRepo, authority, hub, logger)

	resolver := &apiTokenResolver{db: db}
	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects:      projectSvc,
			Collaborators: collabSvc,
			Files:         fileSvc,
			Presence:      presenceSvc,
		},
		Resolver:      resolver,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Presence.ReapInterval > 0 {
		go runPresenceReaper(ctx, logger, presenceRepo, cfg.Presence.ReapInterval)
	}

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(ctx, cancel, logger, mcpServer)
	} else {
		runHTTPMode(logger, mcpServer, streamServer(cfg, fileSvc, presenceSvc, hub, resolver, logger), cfg.Server.Host, cfg.Server.Port)
	}
}

func streamServer(cfg config.Config, fileSvc *file.Service, presenceSvc *presence.Service, hub *live.Hub, resolver *apiTokenResolver, logger *slog.Logger) *stream.Server {
	var streamResolver stream.IdentityResolver
	if cfg.Auth.Enabled {
		streamResolver = streamTokenResolver{inner: resolver}
	}
	return stream.NewServer(fileSvc, presenceSvc, hub, streamResolver, logger)
}

func runStdioMode(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	transport := &sdkmcp.StdioTransport{}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, streams *stream.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	streams.Register(router)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// runPresenceReaper periodically deletes presence rows old enough that no
// read window could still return them. Purging is an optimization; reads
// filter by recency regardless.
func runPresenceReaper(ctx context.Context, logger *slog.Logger, rows *sqlite.PresenceRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-presence.ViewerWindow)
			purged, err := rows.PurgeStale(ctx, cutoff)
			if err != nil {
				logger.Warn("presence reap failed", "error", err)
				continue
			}
			if purged > 0 {
				logger.Debug("presence reaped", "rows", purged)
			}
		}
	}
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: logFile}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, logFile, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}

// apiTokenResolver maps bearer tokens to identities via the api_tokens
// table. Tokens are stored hashed; the plaintext never touches disk.
type apiTokenResolver struct {
	db *sqlite.DB
}

func (r *apiTokenResolver) ResolveIdentity(ctx context.Context, token string) (mcp.Identity, error) {
	hash := hashToken(token)
	var identity mcp.Identity
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, email, display_name, avatar_url
		FROM api_tokens WHERE token_hash = ?
	`, hash).Scan(&identity.UserID, &identity.Email, &identity.Name, &identity.Avatar)
	if err != nil || identity.UserID == "" {
		return mcp.Identity{}, fmt.Errorf("unauthorized: invalid token")
	}

	_, _ = r.db.ExecContext(ctx, `UPDATE api_tokens SET last_used = ? WHERE token_hash = ?`, time.Now().UTC(), hash)
	return identity, nil
}

// streamTokenResolver adapts apiTokenResolver to the stream package's
// identity type.
type streamTokenResolver struct {
	inner *apiTokenResolver
}

func (r streamTokenResolver) ResolveIdentity(ctx context.Context, token string) (stream.Identity, error) {
	id, err := r.inner.ResolveIdentity(ctx, token)
	if err != nil {
		return stream.Identity{}, err
	}
	return stream.Identity{UserID: id.UserID, Email: id.Email, Name: id.Name, Avatar: id.Avatar}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
