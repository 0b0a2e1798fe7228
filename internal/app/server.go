package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/adaeze-codes/Studyquill/internal/api/handlers"
	"github.com/adaeze-codes/Studyquill/internal/config"
	"github.com/adaeze-codes/Studyquill/internal/core"
	"github.com/adaeze-codes/Studyquill/internal/core/search"
	"github.com/adaeze-codes/Studyquill/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, docSvc *services.DocumentService, engine *search.Engine, emb core.EmbeddingProvider, llm core.LLMProvider) *Server {
	docHandler := handlers.NewDocumentHandler(docSvc)
	searchHandler := handlers.NewSearchHandler(engine, emb, llm)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Post("/documents/upload", docHandler.UploadDocument)
		api.Post("/documents/ingest", docHandler.StartIngestion)
		api.Get("/documents/status", docHandler.GetStatus)
		api.Post("/search", searchHandler.Search)
		api.Post("/search/lexical", searchHandler.LexicalSearch)
		api.Post("/chat/ask", searchHandler.Ask)
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
