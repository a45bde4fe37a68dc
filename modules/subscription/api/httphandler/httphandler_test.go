package httphandler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRedeemRechargeCodeRequestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, redeemRechargeCodeRequest{Code: "f00dfeedc0ffee42", AccountID: 1}.Validate())
	assert.Error(t, redeemRechargeCodeRequest{Code: "", AccountID: 1}.Validate())
	assert.Error(t, redeemRechargeCodeRequest{Code: "f00dfeedc0ffee42", AccountID: 0}.Validate())
	assert.Error(t, redeemRechargeCodeRequest{Code: "f00dfeedc0ffee42", AccountID: -3}.Validate())
}

func TestCreatePurchaseRequestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, createPurchaseRequest{AccountID: 1, ProductID: 2}.Validate())
	assert.Error(t, createPurchaseRequest{AccountID: 0, ProductID: 2}.Validate())
	assert.Error(t, createPurchaseRequest{AccountID: 1, ProductID: 0}.Validate())
}

func TestCreatePaymentRequestRequestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, createPaymentRequestRequest{AccountID: 1, Amount: decimal.RequireFromString("10.00")}.Validate())
	assert.Error(t, createPaymentRequestRequest{AccountID: 1, Amount: decimal.Zero}.Validate())
	assert.Error(t, createPaymentRequestRequest{AccountID: 1, Amount: decimal.RequireFromString("-1")}.Validate())
	assert.Error(t, createPaymentRequestRequest{AccountID: 0, Amount: decimal.RequireFromString("10.00")}.Validate())
}

func TestConfirmPaymentRequestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, confirmPaymentRequest{GatewayReference: "ref-1", Amount: decimal.RequireFromString("10.00")}.Validate())
	assert.Error(t, confirmPaymentRequest{GatewayReference: "", Amount: decimal.RequireFromString("10.00")}.Validate())
	assert.Error(t, confirmPaymentRequest{GatewayReference: "ref-1", Amount: decimal.Zero}.Validate())
}

func TestTelemetryRequestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, recordLoadSampleRequest{NodeID: 1, Load: "0.1 0.2 0.3"}.Validate())
	assert.Error(t, recordLoadSampleRequest{NodeID: 0, Load: "0.1"}.Validate())
	assert.Error(t, recordLoadSampleRequest{NodeID: 1}.Validate())

	assert.NoError(t, recordOnlineSampleRequest{NodeID: 1, OnlineCount: 0}.Validate())
	assert.Error(t, recordOnlineSampleRequest{NodeID: 1, OnlineCount: -1}.Validate())

	assert.NoError(t, recordOnlineIPRequest{NodeID: 1, AccountID: 2, IP: "203.0.113.9"}.Validate())
	assert.Error(t, recordOnlineIPRequest{NodeID: 1, AccountID: 2}.Validate())
}

func TestListEligibleNodesRequestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, listEligibleNodesRequest{AccountID: 7}.Validate())
	assert.Error(t, listEligibleNodesRequest{AccountID: 0}.Validate())
}

func TestCreateDonationRequestValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, createDonationRequest{AccountID: 1, Amount: decimal.RequireFromString("5.00")}.Validate())
	assert.Error(t, createDonationRequest{AccountID: 1, Amount: decimal.Zero}.Validate())
	assert.Error(t, createDonationRequest{AccountID: 0, Amount: decimal.RequireFromString("5.00")}.Validate())
}
