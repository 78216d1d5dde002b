package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/xhad/versewise/internal/models"
)

// Message is the websocket envelope in both directions.
type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	MessageChat     = "chat"
	MessageStatus   = "status"
	MessageResponse = "response"
	MessageError    = "error"
)

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	principal := principalFrom(r)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxBodyBytes)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("Error reading message", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendMessage(conn, MessageError, "malformed message", nil)
			continue
		}

		// Messages are handled in order; gorilla connections allow only one
		// concurrent writer.
		s.handleMessage(r, conn, principal, msg)
	}
}

func (s *Server) handleMessage(r *http.Request, conn *websocket.Conn, principal models.Principal, msg Message) {
	if msg.Type != MessageChat {
		s.sendMessage(conn, MessageError, "unsupported message type: "+msg.Type, nil)
		return
	}
	if strings.TrimSpace(msg.Content) == "" {
		s.sendMessage(conn, MessageError, "message is required", nil)
		return
	}

	s.sendMessage(conn, MessageStatus, "Searching the scriptures...", nil)

	reply, err := s.assistant.Chat(r.Context(), principal, msg.Content)
	if err != nil {
		s.logger.Warn("Chat exchange not persisted", zap.String("id", reply.ID), zap.Error(err))
	}
	s.sendMessage(conn, MessageResponse, reply.Response, reply)
}

func (s *Server) sendMessage(conn *websocket.Conn, msgType, content string, data interface{}) {
	msg := Message{
		Type:    msgType,
		Content: content,
		Data:    data,
	}
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("Error sending message", zap.Error(err))
	}
}
