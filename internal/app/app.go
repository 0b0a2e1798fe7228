package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/adaeze-codes/Studyquill/internal/config"
	db "github.com/adaeze-codes/Studyquill/internal/core/database"
	"github.com/adaeze-codes/Studyquill/internal/core/extract"
	"github.com/adaeze-codes/Studyquill/internal/core/ingestion_engine"
	"github.com/adaeze-codes/Studyquill/internal/core/llm"
	objectclient "github.com/adaeze-codes/Studyquill/internal/core/object-client"
	"github.com/adaeze-codes/Studyquill/internal/core/search"
	"github.com/adaeze-codes/Studyquill/internal/core/segment"
	"github.com/adaeze-codes/Studyquill/internal/services"
)

type App struct {
	DBClient     *db.DatabaseClient
	ObjectClient objectclient.ObjectClient
	DocIngestor  ingestion_engine.Ingestor
	Server       *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Database initialized and ready.")

	objClient, err := objectclient.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Println("Object client initialized and ready.")

	geminiEmbedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
	}

	llmProvider, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the llm, %w", err)
	}

	useReadability := false
	extractor := extract.NewDocconvExtractor(useReadability)

	segmenter := segment.New(
		segment.WithMaxChars(cfg.ChunkMaxChars),
		segment.WithMinChars(cfg.ChunkMinChars),
	)

	fetcher := objectclient.NewFetcher(objClient, cfg.BucketName)

	ingCfg := ingestion_engine.DefaultConfig()
	ingCfg.EmbedTimeout = time.Duration(cfg.EmbedTimeout) * time.Second
	ingCfg.FetchTimeout = time.Duration(cfg.FetchTimeout) * time.Second

	docIngestor := ingestion_engine.NewDocumentIngestor(dbClient, fetcher, extractor, geminiEmbedder, segmenter, ingCfg)
	docIngestor.Start(ctx, cfg.IngestWorkers)

	docSvc := services.NewDocumentService(dbClient, objClient, cfg.BucketName, docIngestor)
	engine := search.NewEngine(dbClient)

	server := NewServer(cfg, docSvc, engine, geminiEmbedder, llmProvider)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		DocIngestor:  docIngestor,
		Server:       server,
	}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
