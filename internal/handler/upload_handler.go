package handler

import (
	"net/http"

	"impactlog/internal/repository"
	apperrors "impactlog/pkg/errors"
	"impactlog/pkg/logger"
)

// maxUploadSize caps photo uploads at 10MB
const maxUploadSize = 10 << 20

// UploadHandler stores milestone photos in the asset store
type UploadHandler struct {
	assets repository.AssetStore
	logger *logger.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(assets repository.AssetStore, logger *logger.Logger) *UploadHandler {
	return &UploadHandler{
		assets: assets,
		logger: logger,
	}
}

// uploadResponse carries the publicly resolvable URL of the stored photo
type uploadResponse struct {
	URL string `json:"url"`
}

// UploadPhoto handles POST /api/uploads/photos (multipart, field "photo")
func (h *UploadHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.assets == nil {
		respondError(w, r, h.logger, apperrors.NewUploadError(
			"photo storage is not configured", nil, nil))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, h.logger, apperrors.NewValidationError("photo exceeds the 10MB upload limit", nil))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, r, h.logger, apperrors.NewValidationError("multipart field \"photo\" is required", nil))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !isSupportedImage(contentType) {
		respondError(w, r, h.logger, apperrors.NewValidationError("unsupported photo content type", map[string]interface{}{
			"content_type": contentType,
		}))
		return
	}

	url, err := h.assets.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, uploadResponse{URL: url})
}

func isSupportedImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp", "image/heic":
		return true
	}
	return false
}
