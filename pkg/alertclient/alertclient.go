package alertclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/pkg/httpclient"
	"github.com/nebulanet/panel/pkg/logger"
	"github.com/shopspring/decimal"
)

type Config struct {
	Disabled bool   `mapstructure:"disabled"`
	BaseURL  string `mapstructure:"base_url"`
	Channel  string `mapstructure:"channel"`
}

// Client posts operator alerts to an external review webhook. Delivery is
// best-effort: failures are logged, never propagated to the ledger path.
type Client struct {
	httpClient *httpclient.Client
	config     Config
}

func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("alert.base_url config is required if alerting is enabled")
	}
	httpClient, err := httpclient.New(config.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &Client{
		httpClient: httpClient,
		config:     config,
	}, nil
}

type UnmatchedPaymentPayload struct {
	Channel    string          `json:"channel,omitempty"`
	GatewayRef string          `json:"gatewayRef"`
	Amount     decimal.Decimal `json:"amount"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

// SubmitUnmatchedPayment queues an unmatched gateway confirmation for manual
// operator review.
func (c *Client) SubmitUnmatchedPayment(ctx context.Context, payload UnmatchedPaymentPayload) error {
	payload.Channel = c.config.Channel
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "can't marshal payload")
	}
	resp, err := c.httpClient.Post(ctx, "/v1/alerts/unmatched-payment", httpclient.RequestOptions{
		Body: body,
	})
	if err != nil {
		return errors.Wrap(err, "can't send request")
	}
	if resp.StatusCode() >= 400 {
		logger.WarnContext(ctx, "failed to submit unmatched payment alert", slog.Any("payload", payload), slog.Any("responseBody", resp.Body()))
		return nil
	}
	logger.DebugContext(ctx, "unmatched payment alert submitted", slog.String("gatewayRef", payload.GatewayRef))
	return nil
}
