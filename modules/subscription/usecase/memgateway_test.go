package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nebulanet/panel/common/errs"
	"github.com/nebulanet/panel/modules/subscription/datagateway"
	"github.com/nebulanet/panel/modules/subscription/internal/entity"
	"github.com/shopspring/decimal"
)

// memStore is the in-memory backing state shared by the fake datagateway.
// Entities are stored by value so transaction snapshots are cheap deep copies.
type memStore struct {
	accounts            map[int64]entity.Account
	nodes               map[int64]entity.Node
	inviteCodes         map[string]entity.InviteCode
	rechargeCodes       map[string]entity.RechargeCode
	products            map[int64]entity.Product
	purchaseRecords     []entity.PurchaseRecord
	paymentRequests     map[string]entity.PaymentRequest
	paymentTransactions map[string]entity.PaymentTransaction
	donations           []entity.Donation
	loadSamples         []entity.NodeLoadSample
	onlineSamples       []entity.NodeOnlineSample
	ipRecords           []entity.OnlineIPRecord
	exportOffsets       map[string]int64
	nextID              int64
}

func newMemStore() *memStore {
	return &memStore{
		accounts:            make(map[int64]entity.Account),
		nodes:               make(map[int64]entity.Node),
		inviteCodes:         make(map[string]entity.InviteCode),
		rechargeCodes:       make(map[string]entity.RechargeCode),
		products:            make(map[int64]entity.Product),
		paymentRequests:     make(map[string]entity.PaymentRequest),
		paymentTransactions: make(map[string]entity.PaymentTransaction),
		exportOffsets:       make(map[string]int64),
	}
}

func (s *memStore) clone() *memStore {
	dst := newMemStore()
	for k, v := range s.accounts {
		dst.accounts[k] = v
	}
	for k, v := range s.nodes {
		dst.nodes[k] = v
	}
	for k, v := range s.inviteCodes {
		dst.inviteCodes[k] = v
	}
	for k, v := range s.rechargeCodes {
		dst.rechargeCodes[k] = v
	}
	for k, v := range s.products {
		dst.products[k] = v
	}
	for k, v := range s.paymentRequests {
		dst.paymentRequests[k] = v
	}
	for k, v := range s.paymentTransactions {
		dst.paymentTransactions[k] = v
	}
	for k, v := range s.exportOffsets {
		dst.exportOffsets[k] = v
	}
	dst.purchaseRecords = append(dst.purchaseRecords, s.purchaseRecords...)
	dst.donations = append(dst.donations, s.donations...)
	dst.loadSamples = append(dst.loadSamples, s.loadSamples...)
	dst.onlineSamples = append(dst.onlineSamples, s.onlineSamples...)
	dst.ipRecords = append(dst.ipRecords, s.ipRecords...)
	dst.nextID = s.nextID
	return dst
}

func (s *memStore) nextSequence() int64 {
	s.nextID++
	return s.nextID
}

// memFailures lets tests inject errors at specific write points.
type memFailures struct {
	createPurchaseRecord error
	setAccountTier       error
}

// memDataGateway is a SubscriptionDataGateway over memStore. Transactions
// hold a global mutex from begin to commit/rollback, which serializes them
// the way row locks do in the real repository, and roll back by restoring a
// snapshot of the whole store.
type memDataGateway struct {
	mu       *sync.Mutex
	store    *memStore
	failures *memFailures

	// transaction state
	inTx     bool
	snapshot *memStore
	done     bool
}

var _ datagateway.SubscriptionDataGateway = (*memDataGateway)(nil)

func newMemDataGateway() *memDataGateway {
	return &memDataGateway{
		mu:       &sync.Mutex{},
		store:    newMemStore(),
		failures: &memFailures{},
	}
}

func (g *memDataGateway) BeginSubscriptionTx(ctx context.Context) (datagateway.SubscriptionDataGatewayWithTx, error) {
	if g.inTx {
		return nil, errors.New("transaction already open")
	}
	g.mu.Lock()
	return &memDataGateway{
		mu:       g.mu,
		store:    g.store,
		failures: g.failures,
		inTx:     true,
		snapshot: g.store.clone(),
	}, nil
}

func (g *memDataGateway) Commit(ctx context.Context) error {
	if !g.inTx || g.done {
		return nil
	}
	g.done = true
	g.snapshot = nil
	g.mu.Unlock()
	return nil
}

func (g *memDataGateway) Rollback(ctx context.Context) error {
	if !g.inTx || g.done {
		return nil
	}
	g.done = true
	*g.store = *g.snapshot
	g.snapshot = nil
	g.mu.Unlock()
	return nil
}

// run executes fn against the store, locking unless inside a transaction.
func (g *memDataGateway) run(fn func(s *memStore) error) error {
	if !g.inTx {
		g.mu.Lock()
		defer g.mu.Unlock()
	}
	return fn(g.store)
}

func (g *memDataGateway) GetAccount(ctx context.Context, id int64) (*entity.Account, error) {
	var out entity.Account
	err := g.run(func(s *memStore) error {
		account, ok := s.accounts[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		out = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *memDataGateway) CreateAccount(ctx context.Context, account *entity.Account) (int64, error) {
	var id int64
	err := g.run(func(s *memStore) error {
		id = s.nextSequence()
		stored := *account
		stored.ID = id
		s.accounts[id] = stored
		return nil
	})
	return id, err
}

func (g *memDataGateway) CreditAccountBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := g.run(func(s *memStore) error {
		account, ok := s.accounts[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		account.Balance = account.Balance.Add(amount)
		s.accounts[id] = account
		balance = account.Balance
		return nil
	})
	return balance, err
}

func (g *memDataGateway) DebitAccountBalance(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := g.run(func(s *memStore) error {
		account, ok := s.accounts[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		if account.Balance.LessThan(amount) {
			return errors.WithStack(errs.InsufficientBalance)
		}
		account.Balance = account.Balance.Sub(amount)
		s.accounts[id] = account
		balance = account.Balance
		return nil
	})
	return balance, err
}

func (g *memDataGateway) SetAccountTier(ctx context.Context, id int64, tier uint8, expiry time.Time) error {
	if g.failures.setAccountTier != nil {
		return g.failures.setAccountTier
	}
	return g.run(func(s *memStore) error {
		account, ok := s.accounts[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		account.Tier = tier
		account.TierExpiry = expiry
		s.accounts[id] = account
		return nil
	})
}

func (g *memDataGateway) AddAccountTraffic(ctx context.Context, id int64, bytes int64) error {
	return g.run(func(s *memStore) error {
		account, ok := s.accounts[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		account.TrafficBytes += bytes
		s.accounts[id] = account
		return nil
	})
}

func (g *memDataGateway) GetNode(ctx context.Context, id int64) (*entity.Node, error) {
	var out entity.Node
	err := g.run(func(s *memStore) error {
		node, ok := s.nodes[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		out = node
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *memDataGateway) ListActiveNodesForTier(ctx context.Context, maxTier uint8) ([]*entity.Node, error) {
	var out []*entity.Node
	err := g.run(func(s *memStore) error {
		for _, node := range s.nodes {
			if node.Status == entity.NodeStatusActive && node.Tier <= maxTier {
				node := node
				out = append(out, &node)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Tier != out[j].Tier {
			return out[i].Tier < out[j].Tier
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (g *memDataGateway) CreateNode(ctx context.Context, node *entity.Node) (int64, error) {
	var id int64
	err := g.run(func(s *memStore) error {
		id = s.nextSequence()
		stored := *node
		stored.ID = id
		s.nodes[id] = stored
		return nil
	})
	return id, err
}

func (g *memDataGateway) CreateNodeLoadSample(ctx context.Context, sample *entity.NodeLoadSample) error {
	return g.run(func(s *memStore) error {
		s.loadSamples = append(s.loadSamples, *sample)
		return nil
	})
}

func (g *memDataGateway) CreateNodeOnlineSample(ctx context.Context, sample *entity.NodeOnlineSample) error {
	return g.run(func(s *memStore) error {
		s.onlineSamples = append(s.onlineSamples, *sample)
		return nil
	})
}

func (g *memDataGateway) CreateOnlineIPRecord(ctx context.Context, record *entity.OnlineIPRecord) error {
	return g.run(func(s *memStore) error {
		s.ipRecords = append(s.ipRecords, *record)
		return nil
	})
}

func (g *memDataGateway) GetInviteCode(ctx context.Context, code string) (*entity.InviteCode, error) {
	var out entity.InviteCode
	err := g.run(func(s *memStore) error {
		inviteCode, ok := s.inviteCodes[code]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		out = inviteCode
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *memDataGateway) ListPublicInviteCodes(ctx context.Context, limit int32) ([]*entity.InviteCode, error) {
	var out []*entity.InviteCode
	err := g.run(func(s *memStore) error {
		for _, inviteCode := range s.inviteCodes {
			if inviteCode.Visibility == entity.VisibilityPublic {
				inviteCode := inviteCode
				out = append(out, &inviteCode)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *memDataGateway) CreateInviteCode(ctx context.Context, code *entity.InviteCode) error {
	return g.run(func(s *memStore) error {
		if _, ok := s.inviteCodes[code.Code]; ok {
			return errors.WithStack(errs.Duplicate)
		}
		s.inviteCodes[code.Code] = *code
		return nil
	})
}

func (g *memDataGateway) GetRechargeCode(ctx context.Context, code string) (*entity.RechargeCode, error) {
	var out entity.RechargeCode
	err := g.run(func(s *memStore) error {
		rechargeCode, ok := s.rechargeCodes[code]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		out = rechargeCode
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *memDataGateway) CreateRechargeCode(ctx context.Context, code *entity.RechargeCode) error {
	return g.run(func(s *memStore) error {
		if _, ok := s.rechargeCodes[code.Code]; ok {
			return errors.WithStack(errs.Duplicate)
		}
		s.rechargeCodes[code.Code] = *code
		return nil
	})
}

func (g *memDataGateway) ConsumeRechargeCode(ctx context.Context, code string) (*entity.RechargeCode, error) {
	var out entity.RechargeCode
	err := g.run(func(s *memStore) error {
		rechargeCode, ok := s.rechargeCodes[code]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		if rechargeCode.Consumed {
			return errors.WithStack(errs.AlreadyConsumed)
		}
		rechargeCode.Consumed = true
		s.rechargeCodes[code] = rechargeCode
		out = rechargeCode
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *memDataGateway) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	var out entity.Product
	err := g.run(func(s *memStore) error {
		product, ok := s.products[id]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *memDataGateway) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := g.run(func(s *memStore) error {
		for _, product := range s.products {
			product := product
			out = append(out, &product)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (g *memDataGateway) CreateProduct(ctx context.Context, product *entity.Product) (int64, error) {
	var id int64
	err := g.run(func(s *memStore) error {
		id = s.nextSequence()
		stored := *product
		stored.ID = id
		s.products[id] = stored
		return nil
	})
	return id, err
}

func (g *memDataGateway) CreatePurchaseRecord(ctx context.Context, record *entity.PurchaseRecord) (int64, error) {
	if g.failures.createPurchaseRecord != nil {
		return 0, g.failures.createPurchaseRecord
	}
	var id int64
	err := g.run(func(s *memStore) error {
		id = s.nextSequence()
		stored := *record
		stored.ID = id
		s.purchaseRecords = append(s.purchaseRecords, stored)
		return nil
	})
	return id, err
}

func (g *memDataGateway) GetPaymentRequest(ctx context.Context, gatewayRef string) (*entity.PaymentRequest, error) {
	var out entity.PaymentRequest
	err := g.run(func(s *memStore) error {
		request, ok := s.paymentRequests[gatewayRef]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		out = request
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *memDataGateway) CreatePaymentRequest(ctx context.Context, request *entity.PaymentRequest) error {
	return g.run(func(s *memStore) error {
		if _, ok := s.paymentRequests[request.GatewayRef]; ok {
			return errors.WithStack(errs.Duplicate)
		}
		stored := *request
		stored.ID = s.nextSequence()
		s.paymentRequests[request.GatewayRef] = stored
		return nil
	})
}

func (g *memDataGateway) GetPaymentTransaction(ctx context.Context, gatewayRef string) (*entity.PaymentTransaction, error) {
	var out entity.PaymentTransaction
	err := g.run(func(s *memStore) error {
		tx, ok := s.paymentTransactions[gatewayRef]
		if !ok {
			return errors.WithStack(errs.NotFound)
		}
		out = tx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *memDataGateway) CreatePaymentTransaction(ctx context.Context, tx *entity.PaymentTransaction) error {
	return g.run(func(s *memStore) error {
		if _, ok := s.paymentTransactions[tx.GatewayRef]; ok {
			return errors.WithStack(errs.Duplicate)
		}
		for _, existing := range s.paymentTransactions {
			if existing.RechargeCode == tx.RechargeCode {
				return errors.WithStack(errs.Duplicate)
			}
		}
		stored := *tx
		stored.ID = s.nextSequence()
		s.paymentTransactions[tx.GatewayRef] = stored
		return nil
	})
}

func (g *memDataGateway) CreateDonation(ctx context.Context, donation *entity.Donation) error {
	return g.run(func(s *memStore) error {
		stored := *donation
		stored.ID = s.nextSequence()
		s.donations = append(s.donations, stored)
		return nil
	})
}

func (g *memDataGateway) ListPurchaseRecordsAfter(ctx context.Context, afterID int64, limit int32) ([]*entity.PurchaseRecord, error) {
	var out []*entity.PurchaseRecord
	err := g.run(func(s *memStore) error {
		for _, record := range s.purchaseRecords {
			if record.ID > afterID {
				record := record
				out = append(out, &record)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *memDataGateway) ListPaymentTransactionsAfter(ctx context.Context, afterID int64, limit int32) ([]*entity.PaymentTransaction, error) {
	var out []*entity.PaymentTransaction
	err := g.run(func(s *memStore) error {
		for _, tx := range s.paymentTransactions {
			if tx.ID > afterID {
				tx := tx
				out = append(out, &tx)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *memDataGateway) GetExportOffset(ctx context.Context, stream string) (int64, error) {
	var lastID int64
	err := g.run(func(s *memStore) error {
		lastID = s.exportOffsets[stream]
		return nil
	})
	return lastID, err
}

func (g *memDataGateway) SetExportOffset(ctx context.Context, stream string, lastID int64) error {
	return g.run(func(s *memStore) error {
		s.exportOffsets[stream] = lastID
		return nil
	})
}
