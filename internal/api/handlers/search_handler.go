package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/core/search"
)

type SearchRequest struct {
	Query      string `json:"query"`
	DocumentID string `json:"document_id,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

type AskRequest struct {
	DocumentID string `json:"document_id"`
	Query      string `json:"query"`
}

type SearchHandler struct {
	engine   *search.Engine
	embedder core.EmbeddingProvider
	llm      core.LLMProvider
}

func NewSearchHandler(engine *search.Engine, embedder core.EmbeddingProvider, llm core.LLMProvider) *SearchHandler {
	return &SearchHandler{engine: engine, embedder: embedder, llm: llm}
}

// Search embeds the query text and ranks stored chunks by cosine
// similarity.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	vecs, err := h.embedder.EmbedTexts(r.Context(), []string{req.Query})
	if err != nil || len(vecs) != 1 {
		log.Printf("query embedding failed: %v", err)
		http.Error(w, "could not embed query", http.StatusBadGateway)
		return
	}

	results, err := h.engine.Search(r.Context(), vecs[0], req.Limit, req.DocumentID)
	if err != nil {
		writeSearchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// LexicalSearch ranks stored chunks by keyword relevance. It is the
// fallback for queries where embeddings are unavailable.
func (h *SearchHandler) LexicalSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	results, err := h.engine.LexicalSearch(r.Context(), req.Query, req.Limit, req.DocumentID)
	if err != nil {
		writeSearchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// Ask retrieves the most relevant chunks and has the model answer from
// them alone.
func (h *SearchHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	vecs, err := h.embedder.EmbedTexts(r.Context(), []string{req.Query})
	if err != nil || len(vecs) != 1 {
		log.Printf("query embedding failed: %v", err)
		http.Error(w, "could not embed query", http.StatusBadGateway)
		return
	}

	results, err := h.engine.Search(r.Context(), vecs[0], 5, req.DocumentID)
	if err != nil {
		writeSearchError(w, err)
		return
	}

	var contextParts []string
	for _, res := range results {
		contextParts = append(contextParts, fmt.Sprintf("[page %d] %s", res.PageNumber, res.Content))
	}
	contextText := strings.Join(contextParts, "\n---\n")

	systemPrompt := "You are an intelligent assistant answering based only on the given document content. If unsure, say 'I cannot find this in the document.'"
	userPrompt := fmt.Sprintf("Document content:\n%s\n\nQuestion: %s", contextText, req.Query)

	answer, err := h.llm.Generate(r.Context(), systemPrompt, userPrompt)
	if err != nil {
		log.Printf("generation failed: %v", err)
		http.Error(w, "could not generate answer", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"answer": answer})
}

func decodeSearchRequest(w http.ResponseWriter, r *http.Request) (SearchRequest, bool) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeSearchError(w http.ResponseWriter, err error) {
	if errors.Is(err, core.ErrNotFound) {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
