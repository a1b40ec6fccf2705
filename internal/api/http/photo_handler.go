package http

import (
	"io"
	"net/http"
	"path/filepath"

	"rentinspect-backend/internal/storage"
)

// PhotoBlobHandler serves the presigned-URL emulation for the local blob
// store: clients PUT photo bytes to the upload URL and GET them back from
// the download URL. A cloud backend replaces both with real presigned URLs.
type PhotoBlobHandler struct {
	store storage.StorageInterface
}

func NewPhotoBlobHandler(store storage.StorageInterface) *PhotoBlobHandler {
	return &PhotoBlobHandler{store: store}
}

func (h *PhotoBlobHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" && contentType != "image/gif" {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	if err := h.store.SaveFile(key, r.Body); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	// Mimic an S3-style response
	w.Header().Set("ETag", `"upload-success"`)
	w.WriteHeader(http.StatusOK)
}

func (h *PhotoBlobHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	file, err := h.store.ReadFile(key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}
