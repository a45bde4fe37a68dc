package datagateway

import (
	"context"
	"time"

	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/shopspring/decimal"
)

type SubscriptionDataGateway interface {
	SubscriptionReaderDataGateway
	SubscriptionWriterDataGateway

	// BeginSubscriptionTx returns a new SubscriptionDataGateway with transaction enabled. All write operations performed in this datagateway must be committed to persist changes.
	BeginSubscriptionTx(ctx context.Context) (SubscriptionDataGatewayWithTx, error)
}

type SubscriptionDataGatewayWithTx interface {
	SubscriptionDataGateway
	Tx
}

type SubscriptionReaderDataGateway interface {
	// GetAccount returns the account for the given id. Returns errs.NotFound if the account is not found.
	GetAccount(ctx context.Context, id int64) (*entity.Account, error)

	// GetNode returns the node for the given id. Returns errs.NotFound if the node is not found.
	GetNode(ctx context.Context, id int64) (*entity.Node, error)
	// ListActiveNodesForTier returns active nodes with tier <= maxTier, ordered
	// by tier ascending then id ascending. Order is deterministic for a fixed
	// input set.
	ListActiveNodesForTier(ctx context.Context, maxTier uint8) ([]*entity.Node, error)

	// GetInviteCode returns the invite code. Returns errs.NotFound if absent.
	GetInviteCode(ctx context.Context, code string) (*entity.InviteCode, error)
	// ListPublicInviteCodes returns public invite codes, newest first.
	ListPublicInviteCodes(ctx context.Context, limit int32) ([]*entity.InviteCode, error)
	// GetRechargeCode returns the recharge code. Returns errs.NotFound if absent.
	GetRechargeCode(ctx context.Context, code string) (*entity.RechargeCode, error)

	// GetProduct returns the product for the given id. Returns errs.NotFound if absent.
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	// ListProducts returns all shop products ordered by id.
	ListProducts(ctx context.Context) ([]*entity.Product, error)

	// GetPaymentRequest returns the payment request for the given gateway reference. Returns errs.NotFound if absent.
	GetPaymentRequest(ctx context.Context, gatewayRef string) (*entity.PaymentRequest, error)
	// GetPaymentTransaction returns the payment transaction for the given gateway reference. Returns errs.NotFound if absent.
	GetPaymentTransaction(ctx context.Context, gatewayRef string) (*entity.PaymentTransaction, error)

	// ListPurchaseRecordsAfter returns purchase records with id > afterID, ordered by id, for audit export.
	ListPurchaseRecordsAfter(ctx context.Context, afterID int64, limit int32) ([]*entity.PurchaseRecord, error)
	// ListPaymentTransactionsAfter returns payment transactions with id > afterID, ordered by id, for audit export.
	ListPaymentTransactionsAfter(ctx context.Context, afterID int64, limit int32) ([]*entity.PaymentTransaction, error)
	// GetExportOffset returns the last exported id for the given audit stream, or 0 if never exported.
	GetExportOffset(ctx context.Context, stream string) (int64, error)
}

type SubscriptionWriterDataGateway interface {
	// CreateAccount inserts the account and returns its assigned id.
	CreateAccount(ctx context.Context, account *entity.Account) (int64, error)
	// CreditAccountBalance atomically adds amount to the account balance and
	// returns the new balance. amount must be positive.
	CreditAccountBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)
	// DebitAccountBalance atomically subtracts amount from the account balance
	// and returns the new balance. Returns errs.InsufficientBalance when the
	// balance would go negative; no partial debit occurs.
	DebitAccountBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)
	// SetAccountTier overwrites the account tier and its expiry.
	SetAccountTier(ctx context.Context, id int64, tier uint8, expiry time.Time) error
	// AddAccountTraffic adds traffic allowance to the account.
	AddAccountTraffic(ctx context.Context, id int64, bytes int64) error

	// CreateNode inserts a node.
	CreateNode(ctx context.Context, node *entity.Node) (int64, error)
	// CreateNodeLoadSample appends a load sample. Appends never reject late or duplicate samples.
	CreateNodeLoadSample(ctx context.Context, sample *entity.NodeLoadSample) error
	// CreateNodeOnlineSample appends an online-count sample.
	CreateNodeOnlineSample(ctx context.Context, sample *entity.NodeOnlineSample) error
	// CreateOnlineIPRecord appends an online IP record.
	CreateOnlineIPRecord(ctx context.Context, record *entity.OnlineIPRecord) error

	// CreateInviteCode inserts an invite code. Returns errs.Duplicate on code collision.
	CreateInviteCode(ctx context.Context, code *entity.InviteCode) error
	// CreateRechargeCode inserts a recharge code. Returns errs.Duplicate on code collision.
	CreateRechargeCode(ctx context.Context, code *entity.RechargeCode) error
	// ConsumeRechargeCode atomically flips consumed from false to true and
	// returns the consumed code. Returns errs.NotFound for unknown codes and
	// errs.AlreadyConsumed when the flag was already set.
	ConsumeRechargeCode(ctx context.Context, code string) (*entity.RechargeCode, error)

	// CreateProduct inserts a shop product and returns its assigned id.
	CreateProduct(ctx context.Context, product *entity.Product) (int64, error)
	// CreatePurchaseRecord appends a purchase record and returns its assigned id.
	CreatePurchaseRecord(ctx context.Context, record *entity.PurchaseRecord) (int64, error)

	// CreatePaymentRequest inserts a payment request. Returns errs.Duplicate on gateway reference collision.
	CreatePaymentRequest(ctx context.Context, request *entity.PaymentRequest) error
	// CreatePaymentTransaction inserts a payment transaction. Returns
	// errs.Duplicate when a transaction with the same gateway reference or
	// linked recharge code already exists.
	CreatePaymentTransaction(ctx context.Context, tx *entity.PaymentTransaction) error

	// CreateDonation appends a donation record.
	CreateDonation(ctx context.Context, donation *entity.Donation) error

	// SetExportOffset persists the last exported id for the given audit stream.
	SetExportOffset(ctx context.Context, stream string, lastID int64) error
}
