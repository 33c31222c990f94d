package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"chatapp/internal/adapter/api/middleware"
	ws "chatapp/internal/infrastructure/websocket"
	"chatapp/internal/usecase"
	"chatapp/pkg/errors"
	"chatapp/pkg/logger"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	authMiddleware *middleware.AuthMiddleware
	chatUseCase    *usecase.ChatUseCase
	callUseCase    *usecase.CallUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
	chatUseCase *usecase.ChatUseCase,
	callUseCase *usecase.CallUseCase,
) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		authMiddleware: authMiddleware,
		chatUseCase:    chatUseCase,
		callUseCase:    callUseCase,
	}
}

// wsCommand is the inbound client protocol: subscribe/unsubscribe
// commands referencing a chat or call.
type wsCommand struct {
	Action string `json:"action"`
	ChatID string `json:"chat_id,omitempty"`
	CallID string `json:"call_id,omitempty"`
}

// HandleWebSocket authenticates via the token query param, upgrades the
// connection and bridges store subscriptions onto it until disconnect.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Token query parameter is required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
	h.wsManager.Register <- client

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	unsubscribes := make(map[string]func())

	// Chat-list updates are pushed for the whole session.
	if unsub, err := h.chatUseCase.ObserveChatList(ctx, userID); err == nil {
		unsubscribes["chat_list"] = unsub
	} else {
		logger.Error("Chat list subscription failed for %s: %v", userID, err)
	}

	onMessage := func(senderID string, raw []byte) {
		var cmd wsCommand
		if err := json.Unmarshal(raw, &cmd); err != nil {
			return
		}

		mu.Lock()
		defer mu.Unlock()

		switch cmd.Action {
		case "join_chat":
			if cmd.ChatID == "" {
				return
			}
			h.wsManager.JoinRoom(cmd.ChatID, senderID)
			if _, ok := unsubscribes["chat:"+cmd.ChatID]; !ok {
				if unsub, err := h.chatUseCase.ObserveMessages(ctx, senderID, cmd.ChatID); err == nil {
					unsubscribes["chat:"+cmd.ChatID] = unsub
				}
			}
		case "leave_chat":
			if cmd.ChatID == "" {
				return
			}
			h.wsManager.LeaveRoom(cmd.ChatID, senderID)
			if unsub, ok := unsubscribes["chat:"+cmd.ChatID]; ok {
				unsub()
				delete(unsubscribes, "chat:"+cmd.ChatID)
			}
		case "observe_call":
			if cmd.CallID == "" {
				return
			}
			if _, ok := unsubscribes["call:"+cmd.CallID]; !ok {
				if unsub, err := h.callUseCase.ObserveCall(ctx, senderID, cmd.CallID); err == nil {
					unsubscribes["call:"+cmd.CallID] = unsub
				}
			}
		case "unobserve_call":
			if unsub, ok := unsubscribes["call:"+cmd.CallID]; ok {
				unsub()
				delete(unsubscribes, "call:"+cmd.CallID)
			}
		}
	}

	go func() {
		client.ReadPump(h.wsManager, onMessage)

		// Connection is gone; tear down every live subscription.
		mu.Lock()
		for _, unsub := range unsubscribes {
			unsub()
		}
		unsubscribes = map[string]func(){}
		mu.Unlock()
		cancel()
	}()
	go client.WritePump()

	return nil
}
