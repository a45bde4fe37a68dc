package cmd

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/internal/config"
	"github.com/nebulanet/panel/internal/postgres"
	"github.com/nebulanet/panel/modules/subscription"
	repository "github.com/nebulanet/panel/modules/subscription/repository/postgres"
	"github.com/nebulanet/panel/modules/subscription/usecase"
	"github.com/nebulanet/panel/pkg/codegen"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type mintCmdOptions struct {
	Kind      string
	Count     int
	Amount    string
	OwnerHint string
	Public    bool
}

func NewMintCommand() *cobra.Command {
	opts := &mintCmdOptions{}

	cmd := &cobra.Command{
		Use:     "mint",
		Short:   "Mint invite or recharge codes",
		Example: `panel mint --kind recharge --count 10 --amount 25.00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mintHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Kind, "kind", "invite", `Kind of code to mint, "invite" or "recharge"`)
	flags.IntVar(&opts.Count, "count", 1, "Number of codes to mint")
	flags.StringVar(&opts.Amount, "amount", "10", "Credit amount per recharge code")
	flags.StringVar(&opts.OwnerHint, "owner-hint", "", "Free-form note attached to recharge codes")
	flags.BoolVar(&opts.Public, "public", false, "Mint invite codes with public visibility")

	return cmd
}

func mintHandler(opts *mintCmdOptions, cmd *cobra.Command, _ []string) error {
	conf := config.Load()
	ctx := cmd.Context()

	pg, err := postgres.NewPool(ctx, conf.Postgres)
	if err != nil {
		return errors.Wrap(err, "can't create postgres connection")
	}
	defer pg.Close()

	subscriptionUsecase := usecase.New(repository.NewRepository(pg), codegen.New(), nil, conf.Subscription)

	now := time.Now()
	var minted []string
	switch opts.Kind {
	case "invite":
		minted, err = subscription.MintInviteCodes(ctx, subscriptionUsecase, opts.Count, opts.Public, now)
		if err != nil {
			return errors.Wrap(err, "failed to mint invite codes")
		}
	case "recharge":
		amount, err := decimal.NewFromString(opts.Amount)
		if err != nil {
			return errors.Wrap(err, "failed to parse amount")
		}
		minted, err = subscription.MintRechargeCodes(ctx, subscriptionUsecase, opts.Count, amount, opts.OwnerHint, now)
		if err != nil {
			return errors.Wrap(err, "failed to mint recharge codes")
		}
	default:
		return errors.Wrapf(errs.Unsupported, "unknown code kind %q", opts.Kind)
	}
	for _, code := range minted {
		fmt.Println(code)
	}
	return nil
}
