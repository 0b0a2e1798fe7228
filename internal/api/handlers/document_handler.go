package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/services"
)

type DocumentHandler struct {
	svc *services.DocumentService
}

func NewDocumentHandler(svc *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// UploadDocument handles file upload, status creation, and background
// ingestion.
func (h *DocumentHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.ParseMultipartForm(52 << 20) // 52 MB

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "invalid file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}

	// Sanitize filename to prevent path traversal or invalid characters
	cleanFilename := filepath.Base(header.Filename)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	uploadCtx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	doc, err := h.svc.UploadAndIngest(uploadCtx, cleanFilename, contentType, data)
	if err != nil {
		log.Printf("upload failed for %s: %v", cleanFilename, err)
		http.Error(w, fmt.Sprintf("upload failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

type IngestRequest struct {
	DocumentID string `json:"document_id"`
}

// StartIngestion queues an ingestion run for an already-stored document.
// Re-posting a completed document is a no-op that returns the existing
// counts.
func (h *DocumentHandler) StartIngestion(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DocumentID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Ingest(r.Context(), req.DocumentID)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// GetStatus surfaces the document's progress for polling clients.
func (h *DocumentHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	docID := r.URL.Query().Get("document_id")
	if docID == "" {
		http.Error(w, "document_id required", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Status(r.Context(), docID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
