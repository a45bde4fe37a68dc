package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/nebulanet/panel/pkg/alertclient"
	"github.com/nebulanet/panel/pkg/codegen"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

type captureAlerter struct {
	mu       sync.Mutex
	payloads []alertclient.UnmatchedPaymentPayload
}

func (a *captureAlerter) SubmitUnmatchedPayment(_ context.Context, payload alertclient.UnmatchedPaymentPayload) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.payloads = append(a.payloads, payload)
	return nil
}

func newTestUsecase(t *testing.T) (*Usecase, *memDataGateway, *captureAlerter) {
	t.Helper()
	dg := newMemDataGateway()
	alerter := &captureAlerter{}
	u := New(dg, codegen.New(), alerter, Config{})
	return u, dg, alerter
}

func seedAccount(t *testing.T, dg *memDataGateway, balance string) int64 {
	t.Helper()
	id, err := dg.CreateAccount(context.Background(), &entity.Account{
		Username:  "alice",
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: testNow,
	})
	require.NoError(t, err)
	return id
}

func seedNode(t *testing.T, dg *memDataGateway, tier uint8, status entity.NodeStatus) int64 {
	t.Helper()
	id, err := dg.CreateNode(context.Background(), &entity.Node{
		Name:    "node",
		Address: "198.51.100.7",
		Method:  "aes-256-cfb",
		Tier:    tier,
		Status:  status,
	})
	require.NoError(t, err)
	return id
}
