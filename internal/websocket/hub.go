package websocket

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jmpark/gocheol-backend/pkg/logger"
)

// 시세판 구독 허브. 토픽은 시세 하나뿐이라 방 구분 없이
// 연결된 모든 클라이언트에 같은 페이로드를 전파한다

// Client 시세판 구독 클라이언트
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub WebSocket 연결 관리자
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	mu         sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte, 256),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Ticker subscriber connected", map[string]interface{}{
				"total_clients": total,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			logger.Info("Ticker subscriber disconnected", map[string]interface{}{
				"total_clients": total,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// send 버퍼가 막힌 클라이언트는 비동기로 정리
					go func(c *Client) { h.unregister <- c }(client)
					logger.Warn("Client send buffer full, disconnecting", nil)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastMarketUpdate 시세 변경 페이로드를 전체 구독자에게 전파한다
// 채널이 가득 차면 메시지를 버린다 (다음 조회로 복구 가능)
func (h *Hub) BroadcastMarketUpdate(payload []byte) {
	select {
	case h.broadcast <- payload:
	default:
		logger.Warn("Broadcast channel full, market update dropped", nil)
	}
}

// ClientCount 현재 구독자 수
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 시세판은 공개 데이터이므로 origin 제한은 CORS 설정에 맡긴다
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS GET /ws/ticker 핸들러. 연결을 업그레이드하고 펌프를 시작한다
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Failed to upgrade websocket connection", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
