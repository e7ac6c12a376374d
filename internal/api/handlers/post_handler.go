package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeri-app/valeri/internal/services"
	"github.com/valeri-app/valeri/internal/utils"
)

type PostHandler struct {
	svc services.PostService
}

func NewPostHandler(svc services.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Create accepts multipart form data: title, content, optional image.
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	content := strings.TrimSpace(c.PostForm("content"))
	if title == "" || content == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PostHandler.Create", "title and content are required", nil))
		return
	}

	var image *services.ImageUpload
	if fh, err := c.FormFile("image"); err == nil {
		if fh.Size <= 0 || fh.Size > 5<<20 {
			writeError(c, utils.E(utils.CodeInvalidArgument, "PostHandler.Create", "image too large (max 5MB)", nil))
			return
		}

		file, err := fh.Open()
		if err != nil {
			writeError(c, utils.E(utils.CodeInternal, "PostHandler.Create", "failed to open upload", err))
			return
		}
		defer file.Close()

		// sniff content type (read 512 bytes)
		head := make([]byte, 512)
		n, _ := file.Read(head)
		head = head[:n]
		ct := http.DetectContentType(head)
		if !strings.HasPrefix(ct, "image/") {
			writeError(c, utils.E(utils.CodeInvalidArgument, "PostHandler.Create", "file must be an image", nil))
			return
		}

		image = &services.ImageUpload{
			FileName:    filepath.Base(fh.Filename),
			ContentType: ct,
			Reader:      &readJoin{a: bytes.NewReader(head), b: file},
		}
	}

	post, err := h.svc.Create(c.Request.Context(), userID, title, content, image)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// readJoin re-composes the sniffed head with the remaining stream.
type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
