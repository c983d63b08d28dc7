package upload

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/corpotravel/trip-management/internal/storage"
	"github.com/corpotravel/trip-management/internal/transport"
	"github.com/corpotravel/trip-management/pkg/logger"
)

// maxReceiptSize caps receipt uploads at 10 MiB.
const maxReceiptSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type Handler struct {
	*transport.BaseHandler
	uploader storage.UploaderAPI
}

func NewHandler(uploader storage.UploaderAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		uploader:    uploader,
	}
}

// UploadReceipt accepts a multipart form with a "file" field and returns
// the stored URL to attach to an expense.
func (h *Handler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxReceiptSize)

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedContentTypes[strings.ToLower(contentType)] {
		h.WriteError(w, http.StatusUnsupportedMediaType, "only jpeg, png, webp and pdf receipts are accepted")
		return
	}

	url, storedName, err := h.uploader.UploadReceipt(r.Context(), file, header.Filename, contentType)
	if err != nil {
		h.Logger.Error("receipt upload failed", "filename", header.Filename, "error", err)
		h.WriteError(w, http.StatusBadGateway, "failed to store file")
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]string{
		"file_url":  url,
		"file_name": storedName,
	})
}
