package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBufferSize = 64
)

type EventType string

const (
	EventQuestionUpdated EventType = "question_updated"
	EventQuestionDeleted EventType = "question_deleted"
	EventQuestionVoted   EventType = "question_voted"
	EventAnswerCreated   EventType = "answer_created"
	EventAnswerUpdated   EventType = "answer_updated"
	EventAnswerDeleted   EventType = "answer_deleted"
	EventAnswerVoted     EventType = "answer_voted"
)

// Event 推送給訂閱某個問題的客戶端
type Event struct {
	Type       EventType `json:"type"`
	QuestionID uint      `json:"question_id"`
	AnswerID   uint      `json:"answer_id,omitempty"`
	UserID     uint      `json:"user_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Client 代表一個 WebSocket 客戶端連接
type Client struct {
	conn       *websocket.Conn
	questionID uint
	send       chan *Event // 消息發送通道，只在 hub 持有寫鎖時關閉
}

// EventHub 依問題 ID 管理 WebSocket 訂閱者並廣播事件
type EventHub struct {
	clients    map[uint]map[*Client]bool // questionID -> client -> bool
	clientsMux sync.RWMutex
	log        zerolog.Logger
	now        func() time.Time
}

func NewEventHub(log zerolog.Logger) *EventHub {
	return &EventHub{
		clients: make(map[uint]map[*Client]bool),
		log:     log.With().Str("component", "events").Logger(),
		now:     time.Now,
	}
}

// Serve 接管一條已升級的連線，直到客戶端斷線才返回
func (h *EventHub) Serve(conn *websocket.Conn, questionID uint) {
	client := &Client{
		conn:       conn,
		questionID: questionID,
		send:       make(chan *Event, sendBufferSize),
	}

	h.addClient(client)
	defer h.removeClient(client)

	go h.writePump(client)
	h.readPump(client)
}

// readPump 只處理 pong 與斷線，客戶端送來的內容會被丟棄
func (h *EventHub) readPump(client *Client) {
	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn().Err(err).Uint("question_id", client.questionID).Msg("websocket unexpected close")
			}
			return
		}
	}
}

func (h *EventHub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case event, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				h.log.Error().Err(err).Msg("event encoding error")
				continue
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish 廣播事件給訂閱該問題的客戶端，不會阻塞
// 客戶端隊列已滿時該事件對此客戶端直接丟棄
func (h *EventHub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = h.now()
	}

	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	for client := range h.clients[event.QuestionID] {
		select {
		case client.send <- &event:
		default:
			h.log.Warn().Uint("question_id", event.QuestionID).Str("type", string(event.Type)).Msg("client queue full, event dropped")
		}
	}
}

// Subscribers 回傳訂閱某個問題的連線數
func (h *EventHub) Subscribers(questionID uint) int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	return len(h.clients[questionID])
}

func (h *EventHub) addClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if h.clients[client.questionID] == nil {
		h.clients[client.questionID] = make(map[*Client]bool)
	}
	h.clients[client.questionID][client] = true
}

func (h *EventHub) removeClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	clients, ok := h.clients[client.questionID]
	if !ok || !clients[client] {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.questionID)
	}
}
