package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/storage"
)

const maxUploadBytes = 10 << 20

type UploadHTTP struct {
	Storage storage.Uploader
	Bucket  string
}

func (h *UploadHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload")

	if h.Storage == nil || !h.Storage.Enabled() {
		l.Error("upload_error", "status", 500, "reason", "storage not configured")
		return echo.NewHTTPError(http.StatusInternalServerError, "storage not configured")
	}

	fh, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "no file provided")
	}
	if fh.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	f, err := fh.Open()
	if err != nil {
		l.Error("upload_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		l.Error("upload_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.Storage.Upload(ctx, h.Bucket, objectName(fh.Filename), data, contentType)
	if err != nil {
		l.Error("upload_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "upload failed")
	}

	l.Info("file uploaded", "url", url)
	return c.JSON(http.StatusOK, map[string]string{"message": "file uploaded successfully", "url": url})
}

// objectName prefixes the client file name with a random id so uploads never
// overwrite each other.
func objectName(filename string) string {
	base := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s-%s", uuid.NewString(), base)
}
