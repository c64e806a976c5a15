// Package server implements the demo save service the designer posts
// strategies to. Saved strategies are kept in memory and every save is
// broadcast to connected websocket clients, so a dashboard can refresh
// its strategy list live.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-designer/internal/logger"
	"github.com/rxtech-lab/argo-designer/internal/persist"
	"go.uber.org/zap"
)

// SavedStrategy is one stored strategy.
type SavedStrategy struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Format     string    `json:"format"`
	Code       string    `json:"code"`
	ReceivedAt time.Time `json:"received_at"`
}

// Server is the demo save service.
type Server struct {
	logger   *logger.Logger
	router   *mux.Router
	upgrader websocket.Upgrader

	mu         sync.Mutex
	strategies []SavedStrategy
	clients    map[*websocket.Conn]struct{}
}

// New creates a server with its routes registered.
func New(log *logger.Logger) *Server {
	s := &Server{
		logger:  log,
		router:  mux.NewRouter(),
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.router.HandleFunc("/strategies/save", s.handleSave).Methods(http.MethodPost)
	s.router.HandleFunc("/strategies", s.handleList).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.handleWebSocket)

	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("save service listening", zap.String("addr", addr))

	return http.ListenAndServe(addr, s.router)
}

// handleSave validates and stores a posted strategy. Validation
// failures answer 422 with the detail-list shape the designer knows how
// to unpack.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var request persist.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusBadRequest, "corps de requête JSON invalide")

		return
	}

	if err := request.Validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "stratégie invalide: nom, format et code sont requis")

		return
	}

	saved := SavedStrategy{
		ID:         uuid.New().String(),
		Name:       request.Name,
		Format:     string(request.Format),
		Code:       request.Code,
		ReceivedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.strategies = append(s.strategies, saved)
	s.mu.Unlock()

	s.logger.Info("strategy stored",
		zap.String("id", saved.ID),
		zap.String("name", saved.Name),
		zap.String("format", saved.Format))

	s.broadcast(saved)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(saved)
}

// handleList returns every stored strategy in save order.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := append([]SavedStrategy{}, s.strategies...)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"strategies": list})
}

// handleWebSocket upgrades the connection and registers it for save
// broadcasts.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))

		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Drain incoming frames until the client disconnects.
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			_ = conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast pushes a saved-strategy event to every connected client.
// Dead connections are dropped.
func (s *Server) broadcast(saved SavedStrategy) {
	event := map[string]any{
		"type":     "strategy_saved",
		"strategy": saved,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(event); err != nil {
			delete(s.clients, conn)
			_ = conn.Close()
		}
	}
}

// writeDetail answers an error payload in the {"detail": [{"msg": …}]}
// shape.
func writeDetail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"detail": []map[string]string{{"msg": message}},
	})
}
