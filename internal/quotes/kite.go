package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// KiteConfig holds configuration for the Kite Connect quote provider.
type KiteConfig struct {
	APIKey      string
	AccessToken string
	SessionPath string
	Exchange    string
	Timeout     time.Duration
	// BaseURI overrides the Kite API root.
	BaseURI string
}

// KiteProvider fetches quotes through Zerodha Kite Connect.
type KiteProvider struct {
	client        *kiteconnect.Client
	exchange      string
	authenticated bool
}

// sessionData represents a persisted Kite session.
type sessionData struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// NewKiteProvider creates a Kite provider. When no access token is configured
// it is read from the session file.
func NewKiteProvider(cfg KiteConfig) (*KiteProvider, error) {
	if cfg.APIKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfigInvalid, "kite provider requires an api_key")
	}

	client := kiteconnect.New(cfg.APIKey)
	if cfg.BaseURI != "" {
		client.SetBaseURI(cfg.BaseURI)
	}
	if cfg.Timeout > 0 {
		client.SetHTTPClient(&http.Client{Timeout: cfg.Timeout})
	}

	exchange := strings.ToUpper(cfg.Exchange)
	if exchange == "" {
		exchange = "NSE"
	}

	kp := &KiteProvider{client: client, exchange: exchange}

	token := cfg.AccessToken
	if token == "" && cfg.SessionPath != "" {
		if t, err := loadSessionToken(cfg.SessionPath, time.Now()); err == nil {
			token = t
		}
	}
	if token != "" {
		client.SetAccessToken(token)
		kp.authenticated = true
	}

	return kp, nil
}

// loadSessionToken reads an unexpired access token from a session file.
func loadSessionToken(path string, now time.Time) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	var session sessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return "", err
	}

	// Kite tokens expire at 6 AM the next day
	if !session.ExpiresAt.IsZero() && now.After(session.ExpiresAt) {
		return "", fmt.Errorf("session expired")
	}
	if session.AccessToken == "" {
		return "", fmt.Errorf("session has no access token")
	}

	return session.AccessToken, nil
}

// Name returns the provider name.
func (k *KiteProvider) Name() string {
	return "kite"
}

// instrument returns the EXCHANGE:SYMBOL key for symbol.
func (k *KiteProvider) instrument(symbol string) string {
	if strings.Contains(symbol, ":") {
		return symbol
	}
	return k.exchange + ":" + symbol
}

// GetQuote fetches the last traded price for symbol.
func (k *KiteProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = normalizeSymbol(symbol)
	if !k.authenticated {
		return nil, apperrors.NewQuoteLookupError(k.Name(), symbol, apperrors.ErrNotAuthenticated)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := k.instrument(symbol)
	quotes, err := k.client.GetQuote(key)
	if err != nil {
		return nil, unavailable(k.Name(), symbol, err)
	}

	q, ok := quotes[key]
	if !ok || !(q.LastPrice > 0) {
		return nil, notFound(k.Name(), symbol)
	}

	ts := q.LastTradeTime.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	return &models.Quote{
		Symbol:    symbol,
		LTP:       RoundPrice(q.LastPrice),
		Close:     RoundPrice(q.OHLC.Close),
		Source:    k.Name(),
		Timestamp: ts,
	}, nil
}
