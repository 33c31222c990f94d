package handler

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/usecase"
	"chatapp/pkg/errors"
	"chatapp/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type updateProfileRequest struct {
	Username string `json:"username" validate:"omitempty,min=3"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Bio      string `json:"bio" validate:"omitempty,max=500"`
}

type reportRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	uid := c.Get("uid").(string)
	targetID := c.Param("userId")

	user, err := h.userUseCase.GetProfile(c.Request().Context(), targetID)
	if err != nil {
		return response.Error(c, err)
	}

	// Blocked viewers get the same answer as a missing user
	for _, blocked := range user.BlockedUsers {
		if blocked == uid {
			return response.Error(c, errors.NotFound("User", nil))
		}
	}

	return response.Success(c, map[string]interface{}{
		"id":         user.ID,
		"username":   user.Username,
		"bio":        user.Bio,
		"avatar_url": user.AvatarURL,
		"followers":  len(user.Followers),
		"following":  len(user.Following),
	})
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), uid, usecase.UpdateProfileInput{
		Username: req.Username,
		Phone:    req.Phone,
		Bio:      req.Bio,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

func (h *UserHandler) UploadAvatar(c echo.Context) error {
	uid := c.Get("uid").(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("No file provided", err))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to open uploaded file", err))
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	user, err := h.userUseCase.UploadAvatar(c.Request().Context(), uid, file, contentType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"avatar_url": user.AvatarURL})
}

func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return response.Error(c, errors.BadRequest("Query parameter q is required", nil))
	}

	users, err := h.userUseCase.SearchUsers(c.Request().Context(), query, 20)
	if err != nil {
		return response.Error(c, err)
	}

	results := make([]map[string]interface{}, 0, len(users))
	for _, user := range users {
		results = append(results, map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"avatar_url": user.AvatarURL,
		})
	}

	return response.Success(c, results)
}

func (h *UserHandler) Follow(c echo.Context) error {
	uid := c.Get("uid").(string)
	targetID := c.Param("userId")

	if err := h.userUseCase.Follow(c.Request().Context(), uid, targetID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "following"})
}

func (h *UserHandler) Unfollow(c echo.Context) error {
	uid := c.Get("uid").(string)
	targetID := c.Param("userId")

	if err := h.userUseCase.Unfollow(c.Request().Context(), uid, targetID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "unfollowed"})
}

func (h *UserHandler) Block(c echo.Context) error {
	uid := c.Get("uid").(string)
	targetID := c.Param("userId")

	if err := h.userUseCase.Block(c.Request().Context(), uid, targetID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "blocked"})
}

func (h *UserHandler) Unblock(c echo.Context) error {
	uid := c.Get("uid").(string)
	targetID := c.Param("userId")

	if err := h.userUseCase.Unblock(c.Request().Context(), uid, targetID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "unblocked"})
}

func (h *UserHandler) Mute(c echo.Context) error {
	uid := c.Get("uid").(string)
	targetID := c.Param("userId")

	if err := h.userUseCase.Mute(c.Request().Context(), uid, targetID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "muted"})
}

func (h *UserHandler) Unmute(c echo.Context) error {
	uid := c.Get("uid").(string)
	targetID := c.Param("userId")

	if err := h.userUseCase.Unmute(c.Request().Context(), uid, targetID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "unmuted"})
}

func (h *UserHandler) Report(c echo.Context) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	targetID := c.Param("userId")

	if err := h.userUseCase.ReportUser(c.Request().Context(), uid, targetID, req.Reason); err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, map[string]string{"status": "reported"})
}

func (h *UserHandler) DeleteAccount(c echo.Context) error {
	uid := c.Get("uid").(string)

	if err := h.userUseCase.DeleteAccount(c.Request().Context(), uid); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "account deleted"})
}
