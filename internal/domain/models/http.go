package models

// Requests for the quant HTTP endpoints. Defined in domain for consistency
// and reuse. Monetary values travel as strings so no precision is lost in
// transit.

type CandlesRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	From     string `query:"from" json:"from"`
	To       string `query:"to" json:"to"`
	Interval string `query:"interval" json:"interval" default:"1h" validate:"oneof=1m 5m 15m 30m 1h 4h 1d"`
	Limit    int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=1000"`
}

type PositionRequest struct {
	Symbol     string `json:"symbol" validate:"required"`
	Side       string `json:"side" validate:"oneof=long short"`
	EntryPrice string `json:"entry_price" validate:"required"`
	Quantity   string `json:"quantity" validate:"required"`
	Margin     string `json:"margin" validate:"required"`
	Leverage   int64  `json:"leverage" default:"1" validate:"gte=1,lte=125"`
	MarginMode string `json:"margin_mode" default:"isolated" validate:"oneof=cross isolated"`
}

type RiskRequest struct {
	Position          PositionRequest `json:"position" validate:"required"`
	MarkPrice         string          `json:"mark_price" validate:"required"`
	MaintenanceMargin string          `json:"maintenance_margin" default:"0"`
	CrossAdjustment   string          `json:"cross_adjustment" default:"0"`
}

type OrderPreviewRequest struct {
	Price    string `json:"price" validate:"required"`
	Quantity string `json:"quantity" validate:"required"`
	Leverage int64  `json:"leverage" default:"1" validate:"gte=1,lte=125"`
	Role     string `json:"role" default:"taker" validate:"oneof=maker taker"`
}

type ClosePreviewRequest struct {
	Position   PositionRequest `json:"position" validate:"required"`
	ClosePrice string          `json:"close_price" validate:"required"`
}

type StakeRequest struct {
	Principal     string `json:"principal" validate:"required"`
	APYPercent    string `json:"apy_percent" validate:"required"`
	StakedAt      string `json:"staked_at" validate:"required"`
	RewardClaimed string `json:"reward_claimed" default:"0"`
	AsOf          string `json:"as_of"`
}
