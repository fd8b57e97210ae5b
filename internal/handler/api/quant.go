package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"BitUp/internal/domain/models"
	drepo "BitUp/internal/domain/repository"
	"BitUp/internal/quant/fee"
	"BitUp/internal/quant/risk"
	"BitUp/internal/quant/stake"
	"BitUp/internal/usecase"
	xhttp "BitUp/pkg/http"
	xlogger "BitUp/pkg/logger"
	"BitUp/pkg/util"
)

// QuantHandler implements the Echo-based HTTP surface of the computation
// core: candles, futures risk and launchpool accrual.
type QuantHandler struct {
	logger  *xlogger.Logger
	candles *usecase.CandlesUseCase
	risk    *usecase.RiskUseCase
	stake   *usecase.StakeUseCase
	store   drepo.TickStore
}

func NewQuantHandler(
	logger *xlogger.Logger,
	candles *usecase.CandlesUseCase,
	riskUC *usecase.RiskUseCase,
	stakeUC *usecase.StakeUseCase,
	store drepo.TickStore,
) *QuantHandler {
	return &QuantHandler{
		logger:  logger,
		candles: candles,
		risk:    riskUC,
		stake:   stakeUC,
		store:   store,
	}
}

func (h *QuantHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/candles", h.Candles)
	g.POST("/futures/risk", h.Risk)
	g.POST("/futures/preview", h.OrderPreview)
	g.POST("/futures/close-preview", h.ClosePreview)
	g.POST("/launchpool/accrual", h.Accrual)
	g.POST("/launchpool/claim-preview", h.ClaimPreview)
}

// Health reports storage reachability.
func (h *QuantHandler) Health(c echo.Context) error {
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Candles serves aggregated OHLC buckets over a stored tick window.
func (h *QuantHandler) Candles(c echo.Context) error {
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	interval, err := models.ParseInterval(req.Interval)
	if err != nil {
		return xhttp.BadRequestResponse(c, xhttp.BadRequestError(err.Error()))
	}

	now := time.Now().UTC()
	from := util.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := util.ParseTimeDefault(req.To, now)
	from, to = util.AlignFromTo(from, to, interval.Millis())

	res, err := h.candles.GetCandles(c.Request().Context(), usecase.GetCandlesParams{
		Symbol:   util.NormalizeSymbol(req.Symbol),
		From:     from,
		To:       to,
		Interval: interval,
		Limit:    req.Limit,
	})
	if err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			return xhttp.BadRequestResponse(c, xhttp.BadRequestError(err.Error()))
		}
		h.logger.Error("candles usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

// Risk values a position snapshot at a mark price.
func (h *QuantHandler) Risk(c echo.Context) error {
	req := &models.RiskRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p, perr := positionFromRequest(req.Position)
	if perr != nil {
		return xhttp.BadRequestResponse(c, perr)
	}
	mark, err := parseAmount("mark_price", req.MarkPrice)
	if err != nil {
		return xhttp.BadRequestResponse(c, err)
	}
	floor, err := parseAmount("maintenance_margin", req.MaintenanceMargin)
	if err != nil {
		return xhttp.BadRequestResponse(c, err)
	}
	crossAdj, err := parseAmount("cross_adjustment", req.CrossAdjustment)
	if err != nil {
		return xhttp.BadRequestResponse(c, err)
	}

	fig, uerr := h.risk.Evaluate(p, mark, floor, crossAdj)
	if uerr != nil {
		if errors.Is(uerr, models.ErrInvalidInput) || errors.Is(uerr, risk.ErrInvalidLeverage) || errors.Is(uerr, risk.ErrZeroMargin) {
			return xhttp.BadRequestResponse(c, xhttp.BadRequestError(uerr.Error()))
		}
		h.logger.Error("risk usecase error", xlogger.Error(uerr))
		return xhttp.AppErrorResponse(c, uerr)
	}
	return xhttp.SuccessResponse(c, fig)
}

type orderPreviewResponse struct {
	Notional       decimal.Decimal `json:"notional"`
	RequiredMargin decimal.Decimal `json:"required_margin"`
	Fee            decimal.Decimal `json:"fee"`
	FundingPayment decimal.Decimal `json:"funding_payment"`
}

// OrderPreview computes pre-trade notional, margin and fees.
func (h *QuantHandler) OrderPreview(c echo.Context) error {
	req := &models.OrderPreviewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	price, err := parseAmount("price", req.Price)
	if err != nil {
		return xhttp.BadRequestResponse(c, err)
	}
	qty, err := parseAmount("quantity", req.Quantity)
	if err != nil {
		return xhttp.BadRequestResponse(c, err)
	}
	role := fee.Taker
	if req.Role == "maker" {
		role = fee.Maker
	}

	prev, uerr := h.risk.PreviewOrder(price, qty, req.Leverage, role)
	if uerr != nil {
		if errors.Is(uerr, models.ErrInvalidInput) || errors.Is(uerr, risk.ErrInvalidLeverage) {
			return xhttp.BadRequestResponse(c, xhttp.BadRequestError(uerr.Error()))
		}
		h.logger.Error("order preview usecase error", xlogger.Error(uerr))
		return xhttp.AppErrorResponse(c, uerr)
	}
	return xhttp.SuccessResponse(c, orderPreviewResponse{
		Notional:       prev.Notional,
		RequiredMargin: prev.RequiredMargin,
		Fee:            prev.Fee,
		FundingPayment: prev.FundingPayment,
	})
}

type closePreviewResponse struct {
	RealizedPnL decimal.Decimal `json:"realized_pnl"`
	Fee         decimal.Decimal `json:"fee"`
}

// ClosePreview values a full close at a given price.
func (h *QuantHandler) ClosePreview(c echo.Context) error {
	req := &models.ClosePreviewRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	p, perr := positionFromRequest(req.Position)
	if perr != nil {
		return xhttp.BadRequestResponse(c, perr)
	}
	closePrice, err := parseAmount("close_price", req.ClosePrice)
	if err != nil {
		return xhttp.BadRequestResponse(c, err)
	}

	prev, uerr := h.risk.PreviewClose(p, closePrice)
	if uerr != nil {
		if errors.Is(uerr, models.ErrInvalidInput) {
			return xhttp.BadRequestResponse(c, xhttp.BadRequestError(uerr.Error()))
		}
		h.logger.Error("close preview usecase error", xlogger.Error(uerr))
		return xhttp.AppErrorResponse(c, uerr)
	}
	return xhttp.SuccessResponse(c, closePreviewResponse{
		RealizedPnL: prev.RealizedPnL,
		Fee:         prev.Fee,
	})
}

// Accrual returns accrued and claimable launchpool rewards.
func (h *QuantHandler) Accrual(c echo.Context) error {
	req := &models.StakeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s, asOf, perr := stakeFromRequest(req)
	if perr != nil {
		return xhttp.BadRequestResponse(c, perr)
	}

	acc, uerr := h.stake.Accrual(s, asOf)
	if uerr != nil {
		if errors.Is(uerr, models.ErrInvalidInput) {
			return xhttp.BadRequestResponse(c, xhttp.BadRequestError(uerr.Error()))
		}
		h.logger.Error("accrual usecase error", xlogger.Error(uerr))
		return xhttp.AppErrorResponse(c, uerr)
	}
	return xhttp.SuccessResponse(c, acc)
}

type claimPreviewResponse struct {
	Delta      decimal.Decimal `json:"delta"`
	NewClaimed decimal.Decimal `json:"new_claimed"`
}

// ClaimPreview computes the payout a claim would credit right now.
func (h *QuantHandler) ClaimPreview(c echo.Context) error {
	req := &models.StakeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s, asOf, perr := stakeFromRequest(req)
	if perr != nil {
		return xhttp.BadRequestResponse(c, perr)
	}

	res, uerr := h.stake.PreviewClaim(s, asOf)
	if uerr != nil {
		if errors.Is(uerr, stake.ErrNothingToClaim) {
			return xhttp.BadRequestResponse(c, xhttp.NewAppError("ERR_NOTHING_TO_CLAIM", "", uerr.Error(), http.StatusBadRequest))
		}
		if errors.Is(uerr, models.ErrInvalidInput) {
			return xhttp.BadRequestResponse(c, xhttp.BadRequestError(uerr.Error()))
		}
		h.logger.Error("claim preview usecase error", xlogger.Error(uerr))
		return xhttp.AppErrorResponse(c, uerr)
	}
	return xhttp.SuccessResponse(c, claimPreviewResponse{
		Delta:      res.Delta,
		NewClaimed: res.NewClaimed,
	})
}

// --- request mapping ---

func parseAmount(field, s string) (decimal.Decimal, *xhttp.AppError) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		e := xhttp.BadRequestErrorf("%s is not a valid decimal", field)
		e.Field = field
		return decimal.Decimal{}, e
	}
	return d, nil
}

func positionFromRequest(r models.PositionRequest) (models.Position, *xhttp.AppError) {
	entry, err := parseAmount("entry_price", r.EntryPrice)
	if err != nil {
		return models.Position{}, err
	}
	qty, err := parseAmount("quantity", r.Quantity)
	if err != nil {
		return models.Position{}, err
	}
	margin, err := parseAmount("margin", r.Margin)
	if err != nil {
		return models.Position{}, err
	}
	return models.Position{
		Symbol:     r.Symbol,
		Side:       models.Side(r.Side),
		EntryPrice: entry,
		Quantity:   qty,
		Margin:     margin,
		Leverage:   r.Leverage,
		MarginMode: models.MarginMode(r.MarginMode),
	}, nil
}

func stakeFromRequest(r *models.StakeRequest) (models.Stake, time.Time, *xhttp.AppError) {
	principal, err := parseAmount("principal", r.Principal)
	if err != nil {
		return models.Stake{}, time.Time{}, err
	}
	apy, err := parseAmount("apy_percent", r.APYPercent)
	if err != nil {
		return models.Stake{}, time.Time{}, err
	}
	claimed, err := parseAmount("reward_claimed", r.RewardClaimed)
	if err != nil {
		return models.Stake{}, time.Time{}, err
	}
	stakedAt, ok := util.ParseTime(r.StakedAt)
	if !ok {
		e := xhttp.BadRequestError("staked_at is not a valid time")
		e.Field = "staked_at"
		return models.Stake{}, time.Time{}, e
	}
	asOf := util.ParseTimeDefault(r.AsOf, time.Now().UTC())
	return models.Stake{
		Principal:     principal,
		APYPercent:    apy,
		StakedAt:      stakedAt,
		RewardClaimed: claimed,
	}, asOf, nil
}
