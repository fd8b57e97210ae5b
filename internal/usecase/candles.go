package usecase

import (
	"context"
	"fmt"
	"time"

	"BitUp/internal/domain/models"
	drepo "BitUp/internal/domain/repository"
	"BitUp/internal/quant/ohlc"
	"BitUp/pkg/cache"
)

const (
	defaultCandleLimit = 500
	maxCandleLimit     = 1000
	// Each candle covers at least one tick, so the tick window never needs
	// more rows than a generous per-bucket multiple.
	maxTickRows = 500_000
)

// CandlesUseCase aggregates stored ticks into candles on demand.
type CandlesUseCase struct {
	store    drepo.TickStore
	external drepo.CandleSource // optional; serves pairs with no local ticks
	cache    cache.Service      // optional; nil disables response caching
	metrics  drepo.Metrics
	cacheTTL time.Duration
}

func NewCandlesUseCase(store drepo.TickStore, c cache.Service, metrics drepo.Metrics, cacheTTL time.Duration) *CandlesUseCase {
	return &CandlesUseCase{store: store, cache: c, metrics: metrics, cacheTTL: cacheTTL}
}

// SetExternalSource enables the external kline fallback for symbols that
// have no locally stored ticks yet.
func (uc *CandlesUseCase) SetExternalSource(src drepo.CandleSource) {
	uc.external = src
}

type GetCandlesParams struct {
	Symbol   string
	From     time.Time
	To       time.Time
	Interval models.Interval
	Limit    int
}

type GetCandlesResult struct {
	Symbol   string          `json:"symbol"`
	Interval string          `json:"interval"`
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Count    int             `json:"count"`
	Candles  []models.Candle `json:"candles"`
}

// GetCandles validates the query, reads the tick window and runs one
// aggregation pass. Results are cached briefly since the UI polls.
func (uc *CandlesUseCase) GetCandles(ctx context.Context, p GetCandlesParams) (*GetCandlesResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required: %w", models.ErrInvalidInput)
	}
	if !p.Interval.IsValid() {
		return nil, fmt.Errorf("interval %q: %w", p.Interval, models.ErrInvalidInput)
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to: %w", models.ErrInvalidInput)
	}
	if p.Limit <= 0 {
		p.Limit = defaultCandleLimit
	}
	if p.Limit > maxCandleLimit {
		p.Limit = maxCandleLimit
	}

	key := fmt.Sprintf("candles:%s:%s:%d:%d:%d",
		p.Symbol, p.Interval, p.From.UnixMilli(), p.To.UnixMilli(), p.Limit)
	if uc.cache != nil {
		var hit GetCandlesResult
		if err := uc.cache.Get(ctx, key, &hit); err == nil {
			uc.metrics.RecordMessageSent("cache", p.Symbol)
			return &hit, nil
		}
	}

	start := time.Now()
	ticks, err := uc.store.QueryWindow(ctx, p.Symbol, p.From, p.To, maxTickRows)
	if err != nil {
		uc.metrics.RecordError("candles_query")
		return nil, fmt.Errorf("query ticks: %w", err)
	}

	var candles []models.Candle
	if len(ticks) == 0 && uc.external != nil {
		candles, err = uc.external.Klines(ctx, p.Symbol, p.Interval, p.From, p.To, p.Limit)
		if err != nil {
			uc.metrics.RecordError("candles_external")
			return nil, fmt.Errorf("external klines: %w", err)
		}
	} else {
		candles, err = ohlc.Aggregate(ticks, p.Interval.Millis())
		if err != nil {
			uc.metrics.RecordError("candles_aggregate")
			return nil, fmt.Errorf("aggregate: %w", err)
		}
	}
	if len(candles) > p.Limit {
		candles = candles[len(candles)-p.Limit:]
	}
	uc.metrics.RecordLatency("candles_get", time.Since(start).Seconds())

	res := &GetCandlesResult{
		Symbol:   p.Symbol,
		Interval: string(p.Interval),
		From:     p.From,
		To:       p.To,
		Count:    len(candles),
		Candles:  candles,
	}
	if uc.cache != nil && uc.cacheTTL > 0 {
		_ = uc.cache.Set(ctx, key, res, uc.cacheTTL)
	}
	return res, nil
}
