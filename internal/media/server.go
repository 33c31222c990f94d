package media

import (
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"chatapp/pkg/errors"
	"chatapp/pkg/logger"
)

// Server is the stateless media relay: multipart uploads onto local
// disk, static retrieval, nothing else. It has no auth and no knowledge
// of the document store.
type Server struct {
	store   *Store
	maxSize int64
}

func NewServer(store *Store, maxSize int64) *Server {
	return &Server{
		store:   store,
		maxSize: maxSize,
	}
}

// RegisterRoutes mounts the relay endpoints on an Echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Use(middleware.BodyLimit(formatBodyLimit(s.maxSize)))

	e.POST("/upload", s.handleChatUpload)
	e.POST("/upload-gallery", s.handleGalleryUpload)
	e.GET("/media/:chatId/:filename", s.serveChatMedia)
	e.GET("/gallery/:userId/:filename", s.serveGalleryMedia)
	e.GET("/health", s.handleHealth)
	e.GET("/debug/files", s.handleDebugFiles)
	e.GET("/debug/gallery", s.handleDebugGallery)
}

func formatBodyLimit(bytes int64) string {
	mib := bytes / (1024 * 1024)
	if mib <= 0 {
		mib = 50
	}
	return strconv.FormatInt(mib, 10) + "M"
}

type uploadResponse struct {
	Success  bool   `json:"success"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	ChatID   string `json:"chatId,omitempty"`
	UserID   string `json:"userId,omitempty"`
	Size     int64  `json:"size"`
	Mimetype string `json:"mimetype"`
}

func (s *Server) handleChatUpload(c echo.Context) error {
	chatID := c.FormValue("chatId")
	if chatID == "" {
		chatID = "general"
	}
	chatID = SanitizeKey(chatID)

	filename, size, mimetype, err := s.acceptUpload(c, s.store.UploadsDir(), chatID)
	if err != nil {
		return s.uploadError(c, err)
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Success:  true,
		Filename: filename,
		URL:      requestBaseURL(c) + "/media/" + chatID + "/" + filename,
		ChatID:   chatID,
		Size:     size,
		Mimetype: mimetype,
	})
}

func (s *Server) handleGalleryUpload(c echo.Context) error {
	userID := c.FormValue("userId")
	if userID == "" {
		userID = "unknown"
	}
	userID = SanitizeKey(userID)

	filename, size, mimetype, err := s.acceptUpload(c, s.store.GalleryDir(), userID)
	if err != nil {
		return s.uploadError(c, err)
	}

	return c.JSON(http.StatusOK, uploadResponse{
		Success:  true,
		Filename: filename,
		URL:      requestBaseURL(c) + "/gallery/" + userID + "/" + filename,
		UserID:   userID,
		Size:     size,
		Mimetype: mimetype,
	})
}

func (s *Server) acceptUpload(c echo.Context, baseDir, routingKey string) (string, int64, string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", 0, "", errors.BadRequest("No file provided", err)
	}

	mimetype := fileHeader.Header.Get("Content-Type")
	if !Allowed(fileHeader.Filename, mimetype) {
		return "", 0, "", errors.UploadRejected("File type not allowed: " + fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", 0, "", err
	}
	defer file.Close()

	filename, size, err := s.store.Save(file, fileHeader.Filename, baseDir, routingKey)
	if err != nil {
		return "", 0, "", err
	}

	return filename, size, mimetype, nil
}

func (s *Server) uploadError(c echo.Context, err error) error {
	var appErr *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		appErr = e
	}
	if appErr != nil {
		return c.JSON(appErr.Status, map[string]interface{}{
			"success": false,
			"error":   appErr.Message,
			"code":    appErr.Code,
		})
	}

	logger.Error("Upload failed: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

// requestBaseURL rebuilds the caller-facing base URL from the inbound
// request so device clients on a LAN get an address they can reach.
func requestBaseURL(c echo.Context) string {
	scheme := c.Scheme()
	if forwarded := c.Request().Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	return scheme + "://" + c.Request().Host
}

func (s *Server) serveChatMedia(c echo.Context) error {
	return s.serveFile(c, s.store.UploadsDir(), c.Param("chatId"), c.Param("filename"))
}

func (s *Server) serveGalleryMedia(c echo.Context) error {
	return s.serveFile(c, s.store.GalleryDir(), c.Param("userId"), c.Param("filename"))
}

func (s *Server) serveFile(c echo.Context, baseDir, key, filename string) error {
	path := filepath.Join(baseDir, SanitizeKey(key), SanitizeKey(filename))
	if _, err := os.Stat(path); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "File not found"})
	}

	c.Response().Header().Set(echo.HeaderContentType, ContentTypeFor(filename))
	return c.File(path)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":     "ok",
		"uploadsDir": s.store.UploadsDir(),
		"galleryDir": s.store.GalleryDir(),
	})
}

func (s *Server) handleDebugFiles(c echo.Context) error {
	return s.listTree(c, s.store.UploadsDir())
}

func (s *Server) handleDebugGallery(c echo.Context) error {
	return s.listTree(c, s.store.GalleryDir())
}

func (s *Server) listTree(c echo.Context, root string) error {
	files, err := ListFiles(root)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if files == nil {
		files = []string{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"count": len(files),
		"files": files,
	})
}

// LocalAddr returns the machine's LAN address for the startup log.
func LocalAddr() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
