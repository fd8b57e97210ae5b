// Package markets fetches candles for pairs whose order flow lives on an
// external venue, so charts stay populated before local tick history exists.
package markets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"BitUp/internal/domain/models"
	xhttp "BitUp/pkg/http"
)

// Client reads klines from an upstream exchange REST API.
type Client struct {
	baseURL string
	http    *xhttp.Client
}

// New creates a markets client against the given kline endpoint base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Klines returns candles for the window, oldest first. The upstream wire
// format is the usual kline row: open time in millis followed by OHLCV as
// strings.
func (c *Client) Klines(ctx context.Context, symbol string, interval models.Interval, from, to time.Time, limit int) ([]models.Candle, error) {
	var rows [][]interface{}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/api/v3/klines",
		QueryParams: map[string][]string{
			"symbol":    {symbol},
			"interval":  {string(interval)},
			"startTime": {strconv.FormatInt(from.UnixMilli(), 10)},
			"endTime":   {strconv.FormatInt(to.UnixMilli(), 10)},
			"limit":     {strconv.Itoa(limit)},
		},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		c, err := parseKline(symbol, row)
		if err != nil {
			return nil, err
		}
		candles = append(candles, c)
	}
	return candles, nil
}

func parseKline(symbol string, row []interface{}) (models.Candle, error) {
	if len(row) < 6 {
		return models.Candle{}, fmt.Errorf("kline row has %d fields: %w", len(row), models.ErrInvalidInput)
	}
	openMs, ok := row[0].(float64)
	if !ok {
		return models.Candle{}, fmt.Errorf("kline open time %v: %w", row[0], models.ErrInvalidInput)
	}

	fields := make([]decimal.Decimal, 5)
	for i := 0; i < 5; i++ {
		s, ok := row[i+1].(string)
		if !ok {
			return models.Candle{}, fmt.Errorf("kline field %d is not a string: %w", i+1, models.ErrInvalidInput)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return models.Candle{}, fmt.Errorf("kline field %d: %w", i+1, err)
		}
		fields[i] = d
	}

	return models.Candle{
		Symbol:      symbol,
		BucketStart: time.UnixMilli(int64(openMs)).UTC(),
		Open:        fields[0],
		High:        fields[1],
		Low:         fields[2],
		Close:       fields[3],
		Volume:      fields[4],
	}, nil
}
