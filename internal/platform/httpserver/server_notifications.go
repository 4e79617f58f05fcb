package httpserver

import "net/http"

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	audience := r.URL.Query().Get("audience")

	response, err := s.notifications.Handler.ListNotificationsHandler(r.Context(), userID, audience)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	if err := s.notifications.Handler.MarkReadHandler(r.Context(), r.PathValue("notification_id"), userID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	if err := s.notifications.Handler.ClearHandler(r.Context(), r.PathValue("notification_id"), userID); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	response, err := s.notifications.Handler.MarkAllReadHandler(r.Context(), userID, r.URL.Query().Get("audience"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	response, err := s.notifications.Handler.ClearAllHandler(r.Context(), userID, r.URL.Query().Get("audience"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleStream upgrades to a websocket and parks the connection on the push
// hub until the peer goes away. The read loop only drains control frames;
// this channel is server-to-client.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(w, r)
	if !ok {
		return
	}
	if s.hub == nil {
		writeError(w, http.StatusServiceUnavailable, "push channel is not available")
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		return
	}
	detach := s.hub.Register(userID, ws)
	defer detach()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			return
		}
	}
}
