// Package stream serves live subscriptions over websockets. Each socket is
// scoped to one file: the file socket pushes fresh content after every
// committed write, the presence socket pushes the live cursor list and
// accepts inbound cursor reports. Events carry no payload; on every wake the
// socket re-reads current state through the domain services so subscribers
// can never observe a stale payload ordered after a fresh one.
package stream

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/padsync/padsync/internal/domain/file"
	"github.com/padsync/padsync/internal/domain/presence"
	"github.com/padsync/padsync/internal/live"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	// presencePushPeriod bounds how long a faded-out cursor stays on
	// screen: rows age out silently, so pushes cannot be purely
	// event-driven.
	presencePushPeriod = time.Second
)

// Identity is the authenticated caller on a stream connection.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Avatar string
}

// IdentityResolver resolves a caller identity from a bearer token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (Identity, error)
}

// FileService defines the file reads needed by stream subscriptions.
type FileService interface {
	Read(ctx context.Context, fileID, callerID string) (*file.Snapshot, error)
}

// PresenceService defines the presence operations needed by stream
// subscriptions.
type PresenceService interface {
	Report(ctx context.Context, req presence.ReportRequest, now time.Time, callerID string) error
	Heartbeat(ctx context.Context, fileID string, now time.Time, callerID string) error
	ListLive(ctx context.Context, fileID string, now time.Time, window time.Duration, callerID string) ([]presence.Presence, error)
}

// Server upgrades HTTP requests to websocket subscriptions.
type Server struct {
	files    FileService
	presence PresenceService
	hub      *live.Hub
	resolver IdentityResolver
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a stream server. A nil resolver disables auth and every
// connection runs as the given fallback identity.
func NewServer(files FileService, presenceSvc PresenceService, hub *live.Hub, resolver IdentityResolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		files:    files,
		presence: presenceSvc,
		hub:      hub,
		resolver: resolver,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Register adds the stream routes to a mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/files/{id}", s.serveFile)
	mux.HandleFunc("GET /ws/files/{id}/presence", s.servePresence)
}

// authenticate resolves the caller from the Authorization header or, for
// browser clients that cannot set headers on websocket dials, a token query
// parameter.
func (s *Server) authenticate(r *http.Request) (Identity, error) {
	if s.resolver == nil {
		return Identity{UserID: "local", Name: "Local User"}, nil
	}

	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return Identity{}, errors.New("missing bearer token")
	}
	identity, err := s.resolver.ResolveIdentity(r.Context(), token)
	if err != nil {
		return Identity{}, err
	}
	if identity.UserID == "" {
		return Identity{}, errors.New("invalid bearer token")
	}
	return identity, nil
}

// fileMessage is the payload pushed on the file socket.
type fileMessage struct {
	Type         string    `json:"type"`
	FileID       string    `json:"file_id"`
	Content      string    `json:"content"`
	Language     string    `json:"language"`
	LastEditedBy string    `json:"last_edited_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("id")
	caller, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// Authorize before upgrading so unauthorized callers get a plain 403.
	snap, err := s.files.Read(r.Context(), fileID, caller.UserID)
	if err != nil {
		s.writeRefusal(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := s.hub.Subscribe(live.FileTopic(fileID))
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go s.discardInbound(conn, stop)

	if err := s.pushFile(conn, fileID, snap); err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			snap, err := s.files.Read(ctx, fileID, caller.UserID)
			if err != nil {
				s.logger.Debug("file re-read failed", "file", fileID, "error", err)
				return
			}
			if err := s.pushFile(conn, fileID, snap); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) pushFile(conn *websocket.Conn, fileID string, snap *file.Snapshot) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(fileMessage{
		Type:         "file",
		FileID:       fileID,
		Content:      snap.Content,
		Language:     snap.Language,
		LastEditedBy: snap.LastEditedBy,
		UpdatedAt:    snap.UpdatedAt,
	})
}

// presenceMessage is the payload pushed on the presence socket. Users never
// includes the receiving caller's own row.
type presenceMessage struct {
	Type   string         `json:"type"`
	FileID string         `json:"file_id"`
	Users  []presenceUser `json:"users"`
}

type presenceUser struct {
	UserID   string          `json:"user_id"`
	Name     string          `json:"name"`
	Avatar   string          `json:"avatar,omitempty"`
	Cursor   presence.Cursor `json:"cursor"`
	LastSeen time.Time       `json:"last_seen"`
}

// cursorReport is the inbound message accepted on the presence socket. A
// "heartbeat" type bumps lastSeen without moving the cursor; anything else
// is a full cursor report.
type cursorReport struct {
	Type   string          `json:"type,omitempty"`
	Cursor presence.Cursor `json:"cursor"`
	Name   string          `json:"name,omitempty"`
	Avatar string          `json:"avatar,omitempty"`
}

func (s *Server) servePresence(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("id")
	caller, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := s.presence.ListLive(r.Context(), fileID, time.Now().UTC(), presence.CursorWindow, caller.UserID); err != nil {
		s.writeRefusal(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := s.hub.Subscribe(live.PresenceTopic(fileID))
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go s.readCursorReports(ctx, conn, fileID, caller, stop)

	if err := s.pushPresence(ctx, conn, fileID, caller.UserID); err != nil {
		return
	}

	// The periodic push doubles as a liveness signal, so no separate ping
	// ticker here.
	ticker := time.NewTicker(presencePushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			if err := s.pushPresence(ctx, conn, fileID, caller.UserID); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.pushPresence(ctx, conn, fileID, caller.UserID); err != nil {
				return
			}
		}
	}
}

func (s *Server) pushPresence(ctx context.Context, conn *websocket.Conn, fileID, callerID string) error {
	rows, err := s.presence.ListLive(ctx, fileID, time.Now().UTC(), presence.CursorWindow, callerID)
	if err != nil {
		s.logger.Debug("presence re-read failed", "file", fileID, "error", err)
		return err
	}

	users := make([]presenceUser, 0, len(rows))
	for _, row := range rows {
		if row.UserID == callerID {
			continue
		}
		users = append(users, presenceUser{
			UserID:   row.UserID,
			Name:     row.Name,
			Avatar:   row.Avatar,
			Cursor:   row.Cursor,
			LastSeen: row.LastSeen,
		})
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(presenceMessage{Type: "presence", FileID: fileID, Users: users})
}

// readCursorReports consumes inbound cursor messages. Report failures are
// dropped: a rejected cursor move must never tear down the subscription the
// caller is using to watch everyone else.
func (s *Server) readCursorReports(ctx context.Context, conn *websocket.Conn, fileID string, caller Identity, stop context.CancelFunc) {
	defer stop()
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var report cursorReport
		if err := conn.ReadJSON(&report); err != nil {
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		if report.Type == "heartbeat" {
			if err := s.presence.Heartbeat(ctx, fileID, time.Now().UTC(), caller.UserID); err != nil {
				s.logger.Debug("heartbeat dropped", "file", fileID, "user", caller.UserID, "error", err)
			}
			continue
		}

		name := report.Name
		if name == "" {
			name = caller.Name
		}
		avatar := report.Avatar
		if avatar == "" {
			avatar = caller.Avatar
		}
		err := s.presence.Report(ctx, presence.ReportRequest{
			FileID: fileID,
			Name:   name,
			Avatar: avatar,
			Cursor: report.Cursor,
		}, time.Now().UTC(), caller.UserID)
		if err != nil {
			s.logger.Debug("cursor report dropped", "file", fileID, "user", caller.UserID, "error", err)
		}
	}
}

// discardInbound drains the read side so pongs and close frames are
// processed, cancelling the write loop when the peer goes away.
func (s *Server) discardInbound(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeRefusal(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, file.ErrFileNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		http.Error(w, "forbidden", http.StatusForbidden)
	}
}
