package handler

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/usecase"
	"chatapp/pkg/response"
	"chatapp/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type sendMessageRequest struct {
	ReceiverID    string `json:"receiver_id" validate:"omitempty"`
	ChatID        string `json:"chat_id" validate:"omitempty"`
	Message       string `json:"message" validate:"required,max=4000"`
	AttachmentURL string `json:"attachment_url" validate:"omitempty,url"`
}

type createGroupChatRequest struct {
	Name         string   `json:"name" validate:"required,min=1,max=100"`
	Photo        string   `json:"photo" validate:"omitempty,url"`
	Participants []string `json:"participants" validate:"required,min=1"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	message, err := h.chatUseCase.SendMessage(c.Request().Context(), uid, usecase.SendMessageInput{
		ReceiverID:    req.ReceiverID,
		ChatID:        req.ChatID,
		Content:       req.Message,
		AttachmentURL: req.AttachmentURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) CreateGroupChat(c echo.Context) error {
	var req createGroupChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	chat, err := h.chatUseCase.CreateGroupChat(c.Request().Context(), uid, usecase.CreateGroupChatInput{
		Name:         req.Name,
		Photo:        req.Photo,
		Participants: req.Participants,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, chat)
}

func (h *ChatHandler) GetChats(c echo.Context) error {
	uid := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	items, total, err := h.chatUseCase.GetUserChats(c.Request().Context(), uid, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, items, total, params.Page, params.PageSize)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	uid := c.Get("uid").(string)
	chatID := c.Param("chatId")
	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatUseCase.GetChatMessages(c.Request().Context(), uid, chatID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, params.Page, params.PageSize)
}

func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	uid := c.Get("uid").(string)
	chatID := c.Param("chatId")

	if err := h.chatUseCase.MarkChatAsRead(c.Request().Context(), uid, chatID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "read"})
}

func (h *ChatHandler) MarkMessageRead(c echo.Context) error {
	uid := c.Get("uid").(string)
	chatID := c.Param("chatId")
	messageID := c.Param("messageId")

	if err := h.chatUseCase.MarkMessageRead(c.Request().Context(), uid, chatID, messageID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "read"})
}
