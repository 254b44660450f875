package payment

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongaltd/dongpay-bot/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *TinPesaClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewTinPesaClient(config.GatewayConfig{
		URL:           srv.URL,
		APIKey:        "test-key",
		Username:      "Donga",
		AccountNumber: "DONGALTD",
		Timeout:       2 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTinPesaClient_Initiated(t *testing.T) {
	var captured Request
	var apiKey, contentType string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("Apikey")
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	})

	outcome := client.Initiate(context.Background(), Request{Amount: 5000, MSISDN: "0712345678"})

	require.True(t, outcome.Initiated)
	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, 5000, captured.Amount)
	assert.Equal(t, "0712345678", captured.MSISDN)
	assert.Equal(t, "DONGALTD", captured.AccountNumber)
	assert.Equal(t, "Donga", captured.Username)
}

func TestTinPesaClient_GatewayRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success": false, "message": "Insufficient float"}`))
	})

	outcome := client.Initiate(context.Background(), Request{Amount: 5000, MSISDN: "0712345678"})

	require.False(t, outcome.Initiated)
	assert.Equal(t, "Insufficient float", outcome.Reason)
}

func TestTinPesaClient_SuccessFlagFalseOn200(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false}`))
	})

	outcome := client.Initiate(context.Background(), Request{Amount: 5000, MSISDN: "0712345678"})

	require.False(t, outcome.Initiated)
	assert.NotEmpty(t, outcome.Reason, "a rejection without a message still needs a fallback reason")
}

func TestTinPesaClient_SuccessFlagMissing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "queued"}`))
	})

	outcome := client.Initiate(context.Background(), Request{Amount: 5000, MSISDN: "0712345678"})

	require.False(t, outcome.Initiated)
}

func TestTinPesaClient_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway error</html>`))
	})

	outcome := client.Initiate(context.Background(), Request{Amount: 5000, MSISDN: "0712345678"})

	require.False(t, outcome.Initiated)
	assert.Contains(t, outcome.Reason, "decode gateway response")
}

func TestTinPesaClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force a connection error

	client := NewTinPesaClient(config.GatewayConfig{
		URL:           srv.URL,
		APIKey:        "test-key",
		Username:      "Donga",
		AccountNumber: "DONGALTD",
		Timeout:       time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	outcome := client.Initiate(context.Background(), Request{Amount: 5000, MSISDN: "0712345678"})

	require.False(t, outcome.Initiated)
	assert.NotEmpty(t, outcome.Reason)
}
