package notify

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/pawpals/pawpals-api/internal/middleware"
	"github.com/pawpals/pawpals-api/internal/pkg/logger"
	"github.com/pawpals/pawpals-api/internal/pkg/response"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Stream relays the authenticated caller's notification channel over a WebSocket.
type Stream struct {
	redis    *redis.Client
	upgrader websocket.Upgrader
}

// NewStream creates the stream handler. Empty allowedOrigins accepts any origin.
func NewStream(redisClient *redis.Client, allowedOrigins []string) *Stream {
	return &Stream{
		redis: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if len(allowedOrigins) == 0 || origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || origin == allowed {
						return true
					}
				}
				logger.LogWarn(r.Context(), "WebSocket origin rejected", "origin", origin)
				return false
			},
		},
	}
}

// ServeHTTP handles GET /ws/notifications
func (s *Stream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		response.Unauthorized(w, "Authentication required")
		return
	}
	if s.redis == nil {
		response.Error(w, http.StatusServiceUnavailable, "STREAM_UNAVAILABLE", "Notification stream is not configured")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.LogError(r.Context(), err, "WebSocket upgrade failed")
		return
	}

	ctx := r.Context()
	pubsub := s.redis.Subscribe(ctx, Channel(userID))
	defer pubsub.Close()
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(maxMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logger.LogError(ctx, err, "WebSocket read error")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	messages := pubsub.Channel()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
