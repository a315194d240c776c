package quotes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"options-pricer/internal/logging"
	"options-pricer/internal/models"
)

const yahooChartPath = "/v8/finance/chart/{symbol}"

// YahooConfig holds configuration for the Yahoo Finance chart API.
type YahooConfig struct {
	BaseURL string
	Timeout time.Duration
}

// YahooProvider fetches quotes from the Yahoo Finance chart endpoint.
type YahooProvider struct {
	client *resty.Client
	logger zerolog.Logger
}

// chartResponse is the subset of the chart payload the provider reads.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// NewYahooProvider creates a new Yahoo Finance provider.
func NewYahooProvider(cfg YahooConfig, logger zerolog.Logger) *YahooProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query1.finance.yahoo.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "options-pricer/1.0")

	return &YahooProvider{
		client: client,
		logger: logging.WithOperation(logger, "yahoo"),
	}
}

// Name returns the provider name.
func (y *YahooProvider) Name() string {
	return "yahoo"
}

// GetQuote fetches the regular market price for symbol.
func (y *YahooProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = normalizeSymbol(symbol)

	var body chartResponse
	start := time.Now()
	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    "1d",
		}).
		SetResult(&body).
		SetError(&body).
		Get(yahooChartPath)
	logging.LogAPICall(y.logger, http.MethodGet, yahooChartPath, time.Since(start), err)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, unavailable(y.Name(), symbol, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, notFound(y.Name(), symbol)
	case resp.IsError():
		return nil, unavailable(y.Name(), symbol, fmt.Errorf("HTTP %d", resp.StatusCode()))
	}

	if body.Chart.Error != nil || len(body.Chart.Result) == 0 {
		return nil, notFound(y.Name(), symbol)
	}

	meta := body.Chart.Result[0].Meta
	if !(meta.RegularMarketPrice > 0) {
		return nil, notFound(y.Name(), symbol)
	}

	ts := time.Now()
	if meta.RegularMarketTime > 0 {
		ts = time.Unix(meta.RegularMarketTime, 0)
	}

	return &models.Quote{
		Symbol:    symbol,
		LTP:       RoundPrice(meta.RegularMarketPrice),
		Close:     RoundPrice(meta.ChartPreviousClose),
		Source:    y.Name(),
		Timestamp: ts,
	}, nil
}
