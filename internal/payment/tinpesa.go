package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/dongaltd/dongpay-bot/internal/errors"
	"github.com/dongaltd/dongpay-bot/pkg/config"
)

const maxResponseBytes = 1 << 20

// gatewayResponse mirrors the TinPesa express initialize response body.
type gatewayResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TinPesaClient issues STK-push initiation calls to the TinPesa express API.
// One POST per confirmed deposit; no automatic retries, a failed initiation
// is terminal for its conversation.
type TinPesaClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
	username   string
	account    string
	breaker    *apperrors.CircuitBreaker
	log        *slog.Logger
}

var _ Initiator = (*TinPesaClient)(nil)

// NewTinPesaClient builds a gateway client with a bounded request timeout.
func NewTinPesaClient(cfg config.GatewayConfig, log *slog.Logger) *TinPesaClient {
	if log == nil {
		log = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &TinPesaClient{
		httpClient: &http.Client{Timeout: timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		username:   cfg.Username,
		account:    cfg.AccountNumber,
		breaker:    apperrors.NewCircuitBreaker(),
		log:        log,
	}
}

// Initiate sends one push request and maps every possible result to an
// Outcome. The circuit breaker fails fast while the gateway is known to be
// down; it does not retry on the caller's behalf.
func (c *TinPesaClient) Initiate(ctx context.Context, req Request) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("payment initiation panicked", slog.Any("panic", r))
			outcome = Failed(fmt.Sprintf("unexpected error: %v", r))
		}
	}()

	req.AccountNumber = c.account
	req.Username = c.username

	var rejected *apperrors.AppError

	err := c.breaker.Call(func() error {
		resp, callErr := c.post(ctx, req)
		if callErr != nil {
			return callErr
		}

		if resp.statusOK && resp.body.Success {
			return nil
		}

		// The gateway answered; an explicit rejection must not trip the breaker.
		rejected = apperrors.NewGatewayRejectedError(resp.body.Message)
		return nil
	})

	if err != nil {
		if errors.Is(err, apperrors.ErrCircuitOpen) {
			c.log.Warn("payment gateway circuit open, failing fast")
			return Failed("The payment service is temporarily unavailable. Please try again later.")
		}

		appErr := apperrors.NewGatewayTransportError(err)
		c.log.Error("payment initiation transport failure",
			slog.String("code", appErr.Code), slog.Any("error", err))
		return Failed(err.Error())
	}

	if rejected != nil {
		c.log.Warn("payment gateway rejected push",
			slog.String("code", rejected.Code), slog.String("reason", rejected.UserMessage))
		return Failed(rejected.UserMessage)
	}

	c.log.Info("payment push initiated",
		slog.Int("amount", req.Amount), slog.String("msisdn", req.MSISDN))

	return Initiated()
}

type postResult struct {
	statusOK bool
	body     gatewayResponse
}

func (c *TinPesaClient) post(ctx context.Context, req Request) (postResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return postResult{}, fmt.Errorf("encode gateway payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return postResult{}, fmt.Errorf("build gateway request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Apikey", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return postResult{}, fmt.Errorf("post to gateway: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	var body gatewayResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return postResult{}, fmt.Errorf("decode gateway response: %w", err)
	}

	return postResult{
		statusOK: resp.StatusCode >= 200 && resp.StatusCode < 300,
		body:     body,
	}, nil
}
