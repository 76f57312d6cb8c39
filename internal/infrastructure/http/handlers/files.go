package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nebsit/hr-gateway/internal/infrastructure/storage"
)

// FileSource reads stored attachments back by id.
type FileSource interface {
	Open(ctx context.Context, id string) (*storage.StoredFile, error)
}

// FilesHandler handles GET /files/:id for attachments kept in GridFS.
type FilesHandler struct {
	files FileSource
}

func NewFilesHandler(files FileSource) *FilesHandler {
	return &FilesHandler{files: files}
}

// Serve streams the attachment with its stored content type.
//
// @Summary      Download an attachment
// @Tags         files
// @Produce      octet-stream
// @Param        id   path      string  true  "File id"
// @Success      200  {file}    binary
// @Failure      404  {object}  map[string]string
// @Router       /files/{id} [get]
func (h *FilesHandler) Serve(c echo.Context) error {
	f, err := h.files.Open(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	defer f.Content.Close()

	res := c.Response()
	if f.Size > 0 {
		res.Header().Set(echo.HeaderContentLength, strconv.FormatInt(f.Size, 10))
	}
	res.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	return c.Stream(http.StatusOK, f.ContentType, f.Content)
}
