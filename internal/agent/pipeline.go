package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/Tejas1331/stock-volatility-ai/internal/interfaces"
	"github.com/Tejas1331/stock-volatility-ai/internal/llm"
	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/news"
	"github.com/Tejas1331/stock-volatility-ai/internal/trace"
	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// Pipeline runs the context-reconciliation stages for one assessment:
// fetch news, summarize, classify, reconcile. Each stage takes a
// ContextState by value and returns an updated copy; a stage runs exactly
// once per invocation and the fallible external stages (news retrieval,
// summarization) degrade to a fallback rather than aborting the run.
type Pipeline struct {
	assessor   interfaces.Assessor
	fetcher    interfaces.NewsFetcher
	summarizer interfaces.Summarizer
}

func NewPipeline(assessor interfaces.Assessor, fetcher interfaces.NewsFetcher, summarizer interfaces.Summarizer) *Pipeline {
	return &Pipeline{assessor: assessor, fetcher: fetcher, summarizer: summarizer}
}

// Run produces the full report for a ticker. Model-side errors (unsupported
// ticker, insufficient history, missing model) propagate to the caller;
// news and summarization failures are absorbed into the fallback path.
func (p *Pipeline) Run(ctx context.Context, ticker string) (types.Report, error) {
	ctx, span := trace.StartSpan(ctx, "agent.Run")
	defer span.End()

	timer := logger.StartOperation(ctx, "context_pipeline", "ticker", ticker)
	ctx = timer.GetContext()

	assessment, err := p.assessor.Assess(ctx, ticker)
	if err != nil {
		timer.EndWithError(err)
		return types.Report{}, err
	}

	state := types.ContextState{
		Ticker:     assessment.Ticker,
		Date:       assessment.Date,
		RiskScore:  assessment.RiskScore,
		RiskBucket: assessment.RiskBucket,
	}

	state = p.fetchNews(ctx, state)
	state = p.summarize(ctx, state)
	state = classify(state)
	state = reconcile(state)

	logger.Signal(ctx, state.Ticker, state.FinalSignal, state.RiskScore, state.RiskBucket,
		"risk_type", state.RiskType,
		"exogenous_shock", state.ExogenousShock,
		"news_count", len(state.News),
	)
	timer.End()

	return BuildReport(state), nil
}

func (p *Pipeline) fetchNews(ctx context.Context, state types.ContextState) types.ContextState {
	reference, err := time.Parse("2006-01-02", state.Date)
	if err != nil {
		reference = time.Now().UTC()
	}

	headlines, err := p.fetcher.Headlines(ctx, state.Ticker+" stock", reference)
	if err != nil {
		logger.Warn(ctx, "News retrieval failed, continuing without headlines",
			"ticker", state.Ticker, "error", err)
		state.News = nil
		return state
	}
	state.News = headlines
	return state
}

func (p *Pipeline) summarize(ctx context.Context, state types.ContextState) types.ContextState {
	if len(state.News) == 0 {
		state.Summary = fmt.Sprintf(
			"No time-aligned news was found around %s to explain volatility in %s. "+
				"The volatility signal may be driven by endogenous market dynamics.",
			state.Date, state.Ticker)
		return state
	}

	summary, err := p.summarizer.Summarize(ctx, state.Ticker, state.Date, state.News)
	if err != nil {
		logger.Warn(ctx, "Summarization failed, falling back to headline digest",
			"ticker", state.Ticker, "error", err)
		summary, _ = llm.NewNoopSummarizer().Summarize(ctx, state.Ticker, state.Date, state.News)
	}
	state.Summary = summary
	return state
}

func classify(state types.ContextState) types.ContextState {
	c := news.Classify(state.Summary)
	state.RiskType = c.RiskType
	state.ExogenousShock = c.ExogenousShock
	state.ContextAlignment = c.ContextAlignment
	state.ConfidenceModifier = c.ConfidenceModifier
	return state
}

// reconcile is a total function of {risk_bucket, exogenous_shock}.
func reconcile(state types.ContextState) types.ContextState {
	switch {
	case state.RiskBucket == types.BucketHigh && state.ExogenousShock:
		state.FinalSignal = types.SignalHighRiskAvoid
	case state.RiskBucket == types.BucketHigh:
		state.FinalSignal = types.SignalHighRiskMonitor
	case state.RiskBucket == types.BucketMedium:
		state.FinalSignal = types.SignalMonitor
	default:
		state.FinalSignal = types.SignalStable
	}
	return state
}
