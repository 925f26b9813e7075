package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Tejas1331/stock-volatility-ai/internal/features"
	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/marketdata"
	"github.com/Tejas1331/stock-volatility-ai/internal/model"
	"github.com/Tejas1331/stock-volatility-ai/internal/store"
	"github.com/Tejas1331/stock-volatility-ai/internal/trace"
	"github.com/Tejas1331/stock-volatility-ai/internal/trainer"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	only := flag.String("tickers", "", "comma-separated subset of tickers to train (default: all)")
	flag.Parse()

	_ = godotenv.Load()
	must(logger.Init())
	must(trace.Init())

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	startDate, err := time.Parse("2006-01-02", cfg.Data.StartDate)
	must(err)

	tickers := cfg.Tickers
	if *only != "" {
		tickers = strings.Split(*only, ",")
		for i := range tickers {
			tickers[i] = strings.ToUpper(strings.TrimSpace(tickers[i]))
		}
	}

	tr := trainer.New(
		marketdata.NewYahooClient(cfg.Exchange),
		model.NewStore(cfg.ModelDir),
		trainer.Params{
			StartDate:  startDate,
			MinHistory: cfg.Data.MinHistory,
			Features: features.Params{
				PastWindow:    cfg.Features.PastWindow,
				FutureWindow:  cfg.Features.FutureWindow,
				RegimeWindow:  cfg.Features.RegimeWindow,
				VolMultiplier: cfg.Features.VolMultiplier,
			},
			Hyper: model.HyperParams{
				Trees:           cfg.Model.Trees,
				LearningRate:    cfg.Model.LearningRate,
				MaxDepth:        cfg.Model.MaxDepth,
				MinChildSamples: cfg.Model.MinChildSamples,
				Lambda:          cfg.Model.Lambda,
			},
			TrainRatio: cfg.Split.TrainRatio,
			ValRatio:   cfg.Split.ValRatio,
		},
	)

	ctx := context.Background()
	logger.Info(ctx, "Training batch started", "tickers", tickers, "model_dir", cfg.ModelDir)
	if err := tr.RunAll(ctx, tickers); err != nil {
		log.Fatal(err)
	}
	logger.Info(ctx, "Training batch finished", "tickers", len(tickers))
}
