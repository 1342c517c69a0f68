package handler

import (
	"errors"
	"io"
	"net/http"

	"emotionserver/internal/config"
	"emotionserver/internal/logger"
	"emotionserver/internal/middleware"
	"emotionserver/internal/service"
)

// DetectHandler handles POST /api/detect: a multipart form with the image in
// the "image" field and "camera" or "upload" in the "source" field.
func DetectHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadSize)
		if err := r.ParseMultipartForm(cfg.MaxUploadSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "Image is too large")
				return
			}
			writeError(w, http.StatusBadRequest, "Image upload required")
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Image upload required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			logger.Error("Error reading upload: %v", err)
			writeError(w, http.StatusBadRequest, "Error reading image")
			return
		}

		source := r.FormValue("source")
		if source != "camera" {
			source = "upload"
		}

		resp, err := manager.HandleImage(r.Context(), middleware.SessionID(r), source, header.Filename, data)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, resp)
		case errors.Is(err, service.ErrUnsupportedImage):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrDetection):
			writeError(w, http.StatusUnprocessableEntity, "❌ Error during detection. Please try another photo.")
		case errors.Is(err, service.ErrSuperseded):
			writeError(w, http.StatusConflict, err.Error())
		default:
			logger.Error("Detection cycle failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
		}
	}
}
