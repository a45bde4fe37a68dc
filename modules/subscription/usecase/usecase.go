package usecase

import (
	"context"

	"github.com/Cleverse/go-utilities/utils"
	"github.com/nebulanet/panel/modules/subscription/datagateway"
	"github.com/nebulanet/panel/pkg/alertclient"
	"github.com/nebulanet/panel/pkg/codegen"
)

const (
	defaultInviteCodeMinLength   = 16
	defaultRechargeCodeMinLength = 12
	defaultMintMaxAttempts       = 10
	defaultTrafficUnitBytes      = 1 << 30 // 1 GB
	defaultPublicInviteLimit     = 50
)

// Alerter delivers operator alerts for events that need manual review.
type Alerter interface {
	SubmitUnmatchedPayment(ctx context.Context, payload alertclient.UnmatchedPaymentPayload) error
}

type Config struct {
	InviteCodeMinLength   int   `mapstructure:"invite_code_min_length"`
	RechargeCodeMinLength int   `mapstructure:"recharge_code_min_length"`
	MintMaxAttempts       int   `mapstructure:"mint_max_attempts"`
	TrafficUnitBytes      int64 `mapstructure:"traffic_unit_bytes"`
	PublicInviteLimit     int32 `mapstructure:"public_invite_limit"`
}

type Usecase struct {
	subscriptionDg datagateway.SubscriptionDataGateway
	codeGenerator  *codegen.Generator
	alerter        Alerter
	config         Config
}

func New(subscriptionDg datagateway.SubscriptionDataGateway, codeGenerator *codegen.Generator, alerter Alerter, config Config) *Usecase {
	config.InviteCodeMinLength = utils.Default(config.InviteCodeMinLength, defaultInviteCodeMinLength)
	config.RechargeCodeMinLength = utils.Default(config.RechargeCodeMinLength, defaultRechargeCodeMinLength)
	config.MintMaxAttempts = utils.Default(config.MintMaxAttempts, defaultMintMaxAttempts)
	config.TrafficUnitBytes = utils.Default(config.TrafficUnitBytes, int64(defaultTrafficUnitBytes))
	config.PublicInviteLimit = utils.Default(config.PublicInviteLimit, int32(defaultPublicInviteLimit))
	return &Usecase{
		subscriptionDg: subscriptionDg,
		codeGenerator:  codeGenerator,
		alerter:        alerter,
		config:         config,
	}
}
