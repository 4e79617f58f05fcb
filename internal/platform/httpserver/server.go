package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	notificationservice "electra/contexts/election-ops/notification-service"
	notificationerrors "electra/contexts/election-ops/notification-service/domain/errors"
	sessionservice "electra/contexts/election-ops/session-service"
	sessionerrors "electra/contexts/election-ops/session-service/domain/errors"
	"electra/internal/platform/push"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Server exposes the notification and session HTTP surface. Authentication
// runs upstream; the trusted identity arrives in the X-User-ID header and
// admin access in X-Audience.
type Server struct {
	mux           *http.ServeMux
	logger        *slog.Logger
	addr          string
	sessions      sessionservice.Module
	notifications notificationservice.Module
	hub           *push.Hub
	upgrader      websocket.Upgrader
}

func New(
	sessions sessionservice.Module,
	notifications notificationservice.Module,
	hub *push.Hub,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:           http.NewServeMux(),
		logger:        logger,
		addr:          addr,
		sessions:      sessions,
		notifications: notifications,
		hub:           hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /notifications", s.handleListNotifications)
	s.mux.HandleFunc("POST /notifications/{notification_id}/read", s.handleMarkRead)
	s.mux.HandleFunc("POST /notifications/{notification_id}/clear", s.handleClear)
	s.mux.HandleFunc("POST /notifications/mark-all-read", s.handleMarkAllRead)
	s.mux.HandleFunc("POST /notifications/clear-all", s.handleClearAll)
	s.mux.HandleFunc("GET /notifications/stream", s.handleStream)

	s.mux.HandleFunc("POST /sessions", s.handleCreateSession)
	s.mux.HandleFunc("GET /sessions", s.handleListSessions)
	s.mux.HandleFunc("POST /sessions/{session_id}/force-end", s.handleForceEnd)
	s.mux.HandleFunc("POST /sessions/{session_id}/publish-results", s.handlePublishResults)
}

// identity returns the authenticated user id injected by the upstream auth
// middleware, failing the request when it is missing.
func (s *Server) identity(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing authenticated user identity")
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sessionerrors.ErrSessionNotFound),
		errors.Is(err, notificationerrors.ErrNotificationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sessionerrors.ErrInvalidSessionInput),
		errors.Is(err, notificationerrors.ErrInvalidNotification),
		errors.Is(err, notificationerrors.ErrUserRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, sessionerrors.ErrSessionAlreadyEnded),
		errors.Is(err, sessionerrors.ErrResultsAlreadyPublished),
		errors.Is(err, sessionerrors.ErrResultsBeforeClose),
		errors.Is(err, sessionerrors.ErrConflict),
		errors.Is(err, notificationerrors.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed",
			"event", "http_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
