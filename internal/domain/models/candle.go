package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one OHLC bucket derived from ticks. Candles are recomputed per
// query and never mutated after emission. Invariant: Low <= Open, Close <= High.
type Candle struct {
	Symbol      string          `json:"symbol"`
	BucketStart time.Time       `json:"bucket_start"` // aligned to the interval boundary
	Open        decimal.Decimal `json:"open"`
	High        decimal.Decimal `json:"high"`
	Low         decimal.Decimal `json:"low"`
	Close       decimal.Decimal `json:"close"`
	Volume      decimal.Decimal `json:"volume"`
}

// UnixSeconds returns the bucket start as seconds since epoch, the form the
// charting boundary consumes.
func (c Candle) UnixSeconds() int64 { return c.BucketStart.Unix() }
