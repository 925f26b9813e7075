package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Tejas1331/stock-volatility-ai/internal/agent"
	"github.com/Tejas1331/stock-volatility-ai/internal/features"
	"github.com/Tejas1331/stock-volatility-ai/internal/inference"
	"github.com/Tejas1331/stock-volatility-ai/internal/interfaces"
	"github.com/Tejas1331/stock-volatility-ai/internal/llm"
	"github.com/Tejas1331/stock-volatility-ai/internal/llm/gemini"
	"github.com/Tejas1331/stock-volatility-ai/internal/llm/llmobs"
	"github.com/Tejas1331/stock-volatility-ai/internal/llm/openai"
	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/marketdata"
	"github.com/Tejas1331/stock-volatility-ai/internal/model"
	"github.com/Tejas1331/stock-volatility-ai/internal/news"
	"github.com/Tejas1331/stock-volatility-ai/internal/server"
	"github.com/Tejas1331/stock-volatility-ai/internal/store"
	"github.com/Tejas1331/stock-volatility-ai/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()
	must(logger.Init())
	must(trace.Init())

	cfg, err := store.LoadConfig("config.yaml")
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startDate, err := time.Parse("2006-01-02", cfg.Data.StartDate)
	must(err)

	market := marketdata.NewYahooClient(cfg.Exchange)
	modelStore := model.NewStore(cfg.ModelDir)

	engine := inference.New(market, modelStore, inference.Params{
		Tickers:    cfg.Tickers,
		StartDate:  startDate,
		MinHistory: cfg.Data.MinHistory,
		Features: features.Params{
			PastWindow:    cfg.Features.PastWindow,
			FutureWindow:  cfg.Features.FutureWindow,
			RegimeWindow:  cfg.Features.RegimeWindow,
			VolMultiplier: cfg.Features.VolMultiplier,
		},
		Thresholds: inference.Thresholds{
			High:   cfg.Risk.HighThreshold,
			Medium: cfg.Risk.MediumThreshold,
		},
	})

	fetcher := news.NewFetcher(cfg.News.WindowDays, cfg.News.MaxItems,
		time.Duration(cfg.News.TimeoutSeconds)*time.Second)

	var summarizer interfaces.Summarizer
	switch cfg.LLM.Provider {
	case "GEMINI":
		summarizer, err = gemini.NewSummarizer(ctx, cfg)
		must(err)
	case "OPENAI":
		summarizer = openai.NewSummarizer(cfg)
	default:
		summarizer = llm.NewNoopSummarizer()
	}
	summarizer = llmobs.Wrap(summarizer)

	pipeline := agent.NewPipeline(engine, fetcher, summarizer)
	srv := server.New(cfg.ListenAddr, pipeline)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info(ctx, "Server started", "addr", cfg.ListenAddr, "tickers", cfg.Tickers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Server stopped", err)
		}
	}()

	<-sigc
	logger.Info(ctx, "Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Shutdown failed", err)
	}
	_ = trace.Shutdown(shutdownCtx)
}
