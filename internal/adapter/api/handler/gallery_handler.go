package handler

import (
	"github.com/labstack/echo/v4"

	"chatapp/internal/usecase"
	"chatapp/pkg/response"
	"chatapp/pkg/utils"
)

type GalleryHandler struct {
	galleryUseCase *usecase.GalleryUseCase
}

func NewGalleryHandler(galleryUseCase *usecase.GalleryUseCase) *GalleryHandler {
	return &GalleryHandler{
		galleryUseCase: galleryUseCase,
	}
}

type createPostRequest struct {
	MediaURL  string `json:"media_url" validate:"required,url"`
	MediaType string `json:"media_type" validate:"required,oneof=image video"`
	Caption   string `json:"caption" validate:"omitempty,max=2000"`
}

func (h *GalleryHandler) CreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	post, err := h.galleryUseCase.CreatePost(c.Request().Context(), uid, usecase.CreatePostInput{
		MediaURL:  req.MediaURL,
		MediaType: req.MediaType,
		Caption:   req.Caption,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, post)
}

func (h *GalleryHandler) ListByUser(c echo.Context) error {
	uid := c.Get("uid").(string)
	userID := c.Param("userId")
	params := utils.GetPaginationParams(c)

	posts, total, err := h.galleryUseCase.ListByUser(c.Request().Context(), uid, userID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, posts, total, params.Page, params.PageSize)
}

func (h *GalleryHandler) DeletePost(c echo.Context) error {
	uid := c.Get("uid").(string)
	postID := c.Param("postId")

	if err := h.galleryUseCase.DeletePost(c.Request().Context(), uid, postID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"status": "deleted"})
}
