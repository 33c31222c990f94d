package handler

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/domain/entity"
	"chatapp/internal/usecase"
	"chatapp/pkg/response"
	"chatapp/pkg/utils"
)

type CallHandler struct {
	callUseCase *usecase.CallUseCase
}

func NewCallHandler(callUseCase *usecase.CallUseCase) *CallHandler {
	return &CallHandler{
		callUseCase: callUseCase,
	}
}

type initiateCallRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	CallType   string `json:"call_type" validate:"omitempty,oneof=video audio"`
}

type initiateGroupCallRequest struct {
	Participants []string `json:"participants" validate:"required,min=1"`
	CallType     string   `json:"call_type" validate:"omitempty,oneof=video audio"`
}

type endCallRequest struct {
	Duration int64 `json:"duration" validate:"omitempty,min=0"`
}

func (h *CallHandler) Initiate(c echo.Context) error {
	var req initiateCallRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	call, err := h.callUseCase.Initiate(c.Request().Context(), uid, usecase.InitiateCallInput{
		ReceiverID: req.ReceiverID,
		CallType:   entity.CallType(req.CallType),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, call)
}

func (h *CallHandler) Answer(c echo.Context) error {
	uid := c.Get("uid").(string)
	callID := c.Param("callId")

	call, err := h.callUseCase.Answer(c.Request().Context(), uid, callID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, call)
}

func (h *CallHandler) Decline(c echo.Context) error {
	uid := c.Get("uid").(string)
	callID := c.Param("callId")

	call, err := h.callUseCase.Decline(c.Request().Context(), uid, callID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, call)
}

func (h *CallHandler) End(c echo.Context) error {
	var req endCallRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	callID := c.Param("callId")

	call, err := h.callUseCase.End(c.Request().Context(), uid, callID, req.Duration)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, call)
}

func (h *CallHandler) MarkAsMissed(c echo.Context) error {
	uid := c.Get("uid").(string)
	callID := c.Param("callId")

	if err := h.callUseCase.MarkAsMissed(c.Request().Context(), uid, callID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "processed"})
}

func (h *CallHandler) InitiateGroupCall(c echo.Context) error {
	var req initiateGroupCallRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	call, err := h.callUseCase.InitiateGroupCall(c.Request().Context(), uid, usecase.InitiateGroupCallInput{
		ParticipantIDs: req.Participants,
		CallType:       entity.CallType(req.CallType),
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, call)
}

func (h *CallHandler) JoinGroupCall(c echo.Context) error {
	uid := c.Get("uid").(string)
	callID := c.Param("callId")

	call, err := h.callUseCase.JoinGroupCall(c.Request().Context(), uid, callID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, call)
}

func (h *CallHandler) LeaveGroupCall(c echo.Context) error {
	uid := c.Get("uid").(string)
	callID := c.Param("callId")

	call, err := h.callUseCase.LeaveGroupCall(c.Request().Context(), uid, callID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, call)
}

func (h *CallHandler) GetCall(c echo.Context) error {
	uid := c.Get("uid").(string)
	callID := c.Param("callId")

	call, err := h.callUseCase.GetCall(c.Request().Context(), uid, callID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, call)
}

func (h *CallHandler) GetCallHistory(c echo.Context) error {
	uid := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	calls, total, err := h.callUseCase.ListCallHistory(c.Request().Context(), uid, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, calls, total, params.Page, params.PageSize)
}
