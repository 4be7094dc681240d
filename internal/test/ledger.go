package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

// MemoryLedger is an in-memory implementation of repository.UnitOfWork and
// repository.Factory. A transaction holds the ledger mutex for its whole
// duration and works on a copy of the state that replaces the committed state
// only when fn returns nil, so transactions are serialized and atomic.
type MemoryLedger struct {
	mu    sync.Mutex
	state *ledgerState

	failMu   sync.Mutex
	failures map[string]error

	Now       func() time.Time
	Commits   int
	Rollbacks int
}

type ledgerState struct {
	nextID      int64
	customers   map[int64]model.Customer
	wallets     map[int64]model.Wallet
	walletTxns  []model.WalletTransaction
	orders      []model.Order
	earnings    []model.LoyaltyEarning
	redemptions []model.LoyaltyRedemption
	carts       map[int64][]model.CartLine
	settings    model.Settings
}

// NewMemoryLedger returns an empty ledger with default settings.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		state: &ledgerState{
			customers: make(map[int64]model.Customer),
			wallets:   make(map[int64]model.Wallet),
			carts:     make(map[int64][]model.CartLine),
			settings:  model.DefaultSettings(),
		},
		failures: make(map[string]error),
		Now:      time.Now,
	}
}

func (s *ledgerState) clone() *ledgerState {
	c := &ledgerState{
		nextID:      s.nextID,
		customers:   make(map[int64]model.Customer, len(s.customers)),
		wallets:     make(map[int64]model.Wallet, len(s.wallets)),
		walletTxns:  append([]model.WalletTransaction(nil), s.walletTxns...),
		orders:      append([]model.Order(nil), s.orders...),
		earnings:    append([]model.LoyaltyEarning(nil), s.earnings...),
		redemptions: append([]model.LoyaltyRedemption(nil), s.redemptions...),
		carts:       make(map[int64][]model.CartLine, len(s.carts)),
		settings:    s.settings,
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	for k, v := range s.carts {
		c.carts[k] = append([]model.CartLine(nil), v...)
	}
	return c
}

func (s *ledgerState) id() int64 {
	s.nextID++
	return s.nextID
}

// FailOn makes the named operation, e.g. "loyalty.CreateEarning", return err
// until cleared with a nil error.
func (l *MemoryLedger) FailOn(op string, err error) {
	l.failMu.Lock()
	defer l.failMu.Unlock()
	if err == nil {
		delete(l.failures, op)
		return
	}
	l.failures[op] = err
}

func (l *MemoryLedger) failure(op string) error {
	l.failMu.Lock()
	defer l.failMu.Unlock()
	return l.failures[op]
}

// WithinTransaction implements repository.UnitOfWork.
func (l *MemoryLedger) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	work := l.state.clone()
	if err := fn(ctx, ledgerTx{view: memView{ledger: l, state: work}}); err != nil {
		l.Rollbacks++
		return err
	}
	l.state = work
	l.Commits++
	return nil
}

type ledgerTx struct {
	view memView
}

func (t ledgerTx) Customers() repository.CustomerRepository { return memCustomers{t.view} }
func (t ledgerTx) Wallets() repository.WalletRepository     { return memWallets{t.view} }
func (t ledgerTx) Orders() repository.OrderRepository       { return memOrders{t.view} }
func (t ledgerTx) Loyalty() repository.LoyaltyRepository    { return memLoyalty{t.view} }
func (t ledgerTx) Carts() repository.CartRepository         { return memCarts{t.view} }
func (t ledgerTx) Settings() repository.SettingsRepository  { return memSettings{t.view} }

func (l *MemoryLedger) Customers() repository.CustomerRepository {
	return memCustomers{memView{ledger: l}}
}
func (l *MemoryLedger) Wallets() repository.WalletRepository  { return memWallets{memView{ledger: l}} }
func (l *MemoryLedger) Orders() repository.OrderRepository    { return memOrders{memView{ledger: l}} }
func (l *MemoryLedger) Loyalty() repository.LoyaltyRepository { return memLoyalty{memView{ledger: l}} }
func (l *MemoryLedger) Carts() repository.CartRepository      { return memCarts{memView{ledger: l}} }
func (l *MemoryLedger) Settings() repository.SettingsRepository {
	return memSettings{memView{ledger: l}}
}

// memView runs operations against the transaction copy when bound to one,
// otherwise against the committed state under the ledger mutex.
type memView struct {
	ledger *MemoryLedger
	state  *ledgerState
}

func (v memView) do(op string, fn func(s *ledgerState) error) error {
	if err := v.ledger.failure(op); err != nil {
		return err
	}
	if v.state != nil {
		return fn(v.state)
	}
	v.ledger.mu.Lock()
	defer v.ledger.mu.Unlock()
	return fn(v.ledger.state)
}

func (v memView) now() time.Time {
	return v.ledger.Now()
}

type memCustomers struct{ memView }

func (r memCustomers) Create(_ context.Context, in model.NewCustomer) (*model.Customer, error) {
	var out model.Customer
	err := r.do("customers.Create", func(s *ledgerState) error {
		for _, c := range s.customers {
			if c.Login == in.Login || c.ReferralCode == in.ReferralCode {
				return domainErrors.ErrAlreadyExists
			}
		}
		if in.ReferredBy != nil {
			if _, ok := s.customers[*in.ReferredBy]; !ok {
				return domainErrors.ErrNotFound
			}
		}
		out = model.Customer{
			ID:           s.id(),
			Login:        in.Login,
			PasswordHash: in.PasswordHash,
			ReferralCode: in.ReferralCode,
			ReferredBy:   in.ReferredBy,
			CreatedAt:    r.now(),
		}
		s.customers[out.ID] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memCustomers) find(op string, match func(model.Customer) bool) (*model.Customer, error) {
	var out *model.Customer
	err := r.do(op, func(s *ledgerState) error {
		for _, c := range s.customers {
			if match(c) {
				found := c
				out = &found
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
	return out, err
}

func (r memCustomers) GetByID(_ context.Context, id int64) (*model.Customer, error) {
	return r.find("customers.GetByID", func(c model.Customer) bool { return c.ID == id })
}

func (r memCustomers) GetByLogin(_ context.Context, login string) (*model.Customer, error) {
	return r.find("customers.GetByLogin", func(c model.Customer) bool { return c.Login == login })
}

func (r memCustomers) GetByReferralCode(_ context.Context, code string) (*model.Customer, error) {
	return r.find("customers.GetByReferralCode", func(c model.Customer) bool { return c.ReferralCode == code })
}

func (r memCustomers) LockByID(_ context.Context, id int64) (*model.Customer, error) {
	return r.find("customers.LockByID", func(c model.Customer) bool { return c.ID == id })
}

func (r memCustomers) MarkReferralBonusAwarded(_ context.Context, id int64) error {
	return r.do("customers.MarkReferralBonusAwarded", func(s *ledgerState) error {
		c, ok := s.customers[id]
		if !ok {
			return domainErrors.ErrNotFound
		}
		c.ReferralBonusAwarded = true
		s.customers[id] = c
		return nil
	})
}

type memWallets struct{ memView }

func (r memWallets) get(op string, customerID int64) (*model.Wallet, error) {
	var out *model.Wallet
	err := r.do(op, func(s *ledgerState) error {
		w, ok := s.wallets[customerID]
		if !ok {
			return domainErrors.ErrNotFound
		}
		out = &w
		return nil
	})
	return out, err
}

func (r memWallets) Get(_ context.Context, customerID int64) (*model.Wallet, error) {
	return r.get("wallets.Get", customerID)
}

func (r memWallets) Lock(_ context.Context, customerID int64) (*model.Wallet, error) {
	return r.get("wallets.Lock", customerID)
}

func (r memWallets) LockOrCreate(_ context.Context, customerID int64) (*model.Wallet, error) {
	var out model.Wallet
	err := r.do("wallets.LockOrCreate", func(s *ledgerState) error {
		if _, ok := s.customers[customerID]; !ok {
			return domainErrors.ErrNotFound
		}
		w, ok := s.wallets[customerID]
		if !ok {
			now := r.now()
			w = model.Wallet{CustomerID: customerID, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
			s.wallets[customerID] = w
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memWallets) UpdateBalance(_ context.Context, customerID int64, balance decimal.Decimal) error {
	return r.do("wallets.UpdateBalance", func(s *ledgerState) error {
		w, ok := s.wallets[customerID]
		if !ok {
			return domainErrors.ErrNotFound
		}
		w.Balance = balance
		w.UpdatedAt = r.now()
		s.wallets[customerID] = w
		return nil
	})
}

func (r memWallets) AppendTransaction(_ context.Context, txn model.WalletTransaction) (int64, error) {
	var id int64
	err := r.do("wallets.AppendTransaction", func(s *ledgerState) error {
		id = s.id()
		txn.ID = id
		txn.CreatedAt = r.now()
		s.walletTxns = append(s.walletTxns, txn)
		return nil
	})
	return id, err
}

func (r memWallets) ListTransactions(_ context.Context, customerID int64) ([]model.WalletTransaction, error) {
	var out []model.WalletTransaction
	err := r.do("wallets.ListTransactions", func(s *ledgerState) error {
		for i := len(s.walletTxns) - 1; i >= 0; i-- {
			if s.walletTxns[i].CustomerID == customerID {
				out = append(out, s.walletTxns[i])
			}
		}
		return nil
	})
	return out, err
}

type memOrders struct{ memView }

func (r memOrders) CreateLine(_ context.Context, line model.Order) (int64, error) {
	var id int64
	err := r.do("orders.CreateLine", func(s *ledgerState) error {
		if _, ok := s.customers[line.CustomerID]; !ok {
			return domainErrors.ErrNotFound
		}
		id = s.id()
		line.ID = id
		line.CreatedAt = r.now()
		line.UpdatedAt = line.CreatedAt
		s.orders = append(s.orders, line)
		return nil
	})
	return id, err
}

func (r memOrders) ListByNumber(_ context.Context, orderNumber string) ([]model.Order, error) {
	var out []model.Order
	err := r.do("orders.ListByNumber", func(s *ledgerState) error {
		for _, o := range s.orders {
			if o.OrderNumber == orderNumber {
				out = append(out, o)
			}
		}
		return nil
	})
	return out, err
}

func (r memOrders) ListByCustomer(_ context.Context, customerID int64) ([]model.Order, error) {
	var out []model.Order
	err := r.do("orders.ListByCustomer", func(s *ledgerState) error {
		for _, o := range s.orders {
			if o.CustomerID == customerID {
				out = append(out, o)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, err
}

func (r memOrders) MarkReadyDue(_ context.Context, now time.Time, limit int) ([]model.ReadyOrder, error) {
	var out []model.ReadyOrder
	err := r.do("orders.MarkReadyDue", func(s *ledgerState) error {
		type due struct {
			order   model.ReadyOrder
			readyAt time.Time
		}
		seen := make(map[string]int)
		var candidates []due
		for _, o := range s.orders {
			if o.Status >= model.OrderStatusReady || o.EstimatedReadyAt.After(now) {
				continue
			}
			if i, ok := seen[o.OrderNumber]; ok {
				if o.EstimatedReadyAt.Before(candidates[i].readyAt) {
					candidates[i].readyAt = o.EstimatedReadyAt
				}
				continue
			}
			seen[o.OrderNumber] = len(candidates)
			candidates = append(candidates, due{
				order:   model.ReadyOrder{OrderNumber: o.OrderNumber, CustomerID: o.CustomerID},
				readyAt: o.EstimatedReadyAt,
			})
		}
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].readyAt.Before(candidates[j].readyAt) })
		if limit > 0 && len(candidates) > limit {
			candidates = candidates[:limit]
		}

		picked := make(map[string]bool, len(candidates))
		for _, c := range candidates {
			picked[c.order.OrderNumber] = true
			out = append(out, c.order)
		}
		for i := range s.orders {
			if picked[s.orders[i].OrderNumber] && s.orders[i].Status < model.OrderStatusReady {
				s.orders[i].Status = model.OrderStatusReady
				s.orders[i].UpdatedAt = now
			}
		}
		return nil
	})
	return out, err
}

type memLoyalty struct{ memView }

func (r memLoyalty) CreateEarning(_ context.Context, earning model.LoyaltyEarning) (int64, error) {
	var id int64
	err := r.do("loyalty.CreateEarning", func(s *ledgerState) error {
		for _, e := range s.earnings {
			if e.OrderID == earning.OrderID {
				return domainErrors.ErrAlreadyExists
			}
		}
		id = s.id()
		earning.ID = id
		earning.CreatedAt = r.now()
		s.earnings = append(s.earnings, earning)
		return nil
	})
	return id, err
}

func (r memLoyalty) LockSpendable(_ context.Context, customerID int64, now time.Time) ([]model.LoyaltyEarning, error) {
	var out []model.LoyaltyEarning
	err := r.do("loyalty.LockSpendable", func(s *ledgerState) error {
		for _, e := range s.earnings {
			if e.CustomerID == customerID && e.Spendable(now) {
				out = append(out, e)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ExpiresAt.Equal(out[j].ExpiresAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ExpiresAt.Before(out[j].ExpiresAt)
	})
	return out, err
}

func (r memLoyalty) UpdateRemaining(_ context.Context, earningID int64, remaining int64) error {
	return r.do("loyalty.UpdateRemaining", func(s *ledgerState) error {
		for i := range s.earnings {
			if s.earnings[i].ID == earningID && s.earnings[i].PointsRemaining >= remaining {
				s.earnings[i].PointsRemaining = remaining
				return nil
			}
		}
		return domainErrors.ErrNotFound
	})
}

func (r memLoyalty) CreateRedemption(_ context.Context, redemption model.LoyaltyRedemption) (int64, error) {
	var id int64
	err := r.do("loyalty.CreateRedemption", func(s *ledgerState) error {
		id = s.id()
		redemption.ID = id
		redemption.CreatedAt = r.now()
		s.redemptions = append(s.redemptions, redemption)
		return nil
	})
	return id, err
}

func (r memLoyalty) SpendablePoints(_ context.Context, customerID int64, now time.Time) (int64, error) {
	var total int64
	err := r.do("loyalty.SpendablePoints", func(s *ledgerState) error {
		for _, e := range s.earnings {
			if e.CustomerID == customerID && e.Spendable(now) {
				total += e.PointsRemaining
			}
		}
		return nil
	})
	return total, err
}

type memCarts struct{ memView }

func (r memCarts) Lines(_ context.Context, customerID int64) ([]model.CartLine, error) {
	var out []model.CartLine
	err := r.do("carts.Lines", func(s *ledgerState) error {
		out = append(out, s.carts[customerID]...)
		return nil
	})
	return out, err
}

func (r memCarts) Add(_ context.Context, customerID int64, line model.CartLine) error {
	return r.do("carts.Add", func(s *ledgerState) error {
		if _, ok := s.customers[customerID]; !ok {
			return domainErrors.ErrNotFound
		}
		s.carts[customerID] = append(s.carts[customerID], line)
		return nil
	})
}

func (r memCarts) Clear(_ context.Context, customerID int64) error {
	return r.do("carts.Clear", func(s *ledgerState) error {
		delete(s.carts, customerID)
		return nil
	})
}

type memSettings struct{ memView }

func (r memSettings) Current(context.Context) (model.Settings, error) {
	var out model.Settings
	err := r.do("settings.Current", func(s *ledgerState) error {
		out = s.settings
		return nil
	})
	return out, err
}

func (r memSettings) Save(_ context.Context, settings model.Settings) error {
	return r.do("settings.Save", func(s *ledgerState) error {
		s.settings = settings
		return nil
	})
}

// SeedCustomer inserts a customer directly into committed state.
func (l *MemoryLedger) SeedCustomer(login string, referredBy *int64) model.Customer {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := model.Customer{
		ID:           l.state.id(),
		Login:        login,
		PasswordHash: "hash:" + login,
		ReferralCode: "REF" + strings.ToUpper(login),
		ReferredBy:   referredBy,
		CreatedAt:    l.Now(),
	}
	l.state.customers[c.ID] = c
	return c
}

// SetBalance overwrites the wallet balance without a ledger entry.
func (l *MemoryLedger) SetBalance(customerID int64, balance decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.Now()
	l.state.wallets[customerID] = model.Wallet{CustomerID: customerID, Balance: balance, CreatedAt: now, UpdatedAt: now}
}

// SeedEarning stores a loyalty grant and returns its ID.
func (l *MemoryLedger) SeedEarning(e model.LoyaltyEarning) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.ID = l.state.id()
	if e.OrderID == 0 {
		e.OrderID = -e.ID
	}
	l.state.earnings = append(l.state.earnings, e)
	return e.ID
}

// SeedCart appends lines to the customer's cart.
func (l *MemoryLedger) SeedCart(customerID int64, lines ...model.CartLine) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.carts[customerID] = append(l.state.carts[customerID], lines...)
}

// SetSettings replaces the current settings.
func (l *MemoryLedger) SetSettings(settings model.Settings) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state.settings = settings
}

// Balance returns the committed wallet balance, zero when there is no wallet.
func (l *MemoryLedger) Balance(customerID int64) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok := l.state.wallets[customerID]; ok {
		return w.Balance
	}
	return decimal.Zero
}

// HasWallet reports whether a wallet row exists.
func (l *MemoryLedger) HasWallet(customerID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.state.wallets[customerID]
	return ok
}

// WalletTransactions returns committed ledger entries in insertion order.
func (l *MemoryLedger) WalletTransactions(customerID int64) []model.WalletTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.WalletTransaction
	for _, t := range l.state.walletTxns {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out
}

// Earnings returns the committed loyalty grants of the customer.
func (l *MemoryLedger) Earnings(customerID int64) []model.LoyaltyEarning {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.LoyaltyEarning
	for _, e := range l.state.earnings {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out
}

// Redemptions returns the committed redemptions of the customer.
func (l *MemoryLedger) Redemptions(customerID int64) []model.LoyaltyRedemption {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.LoyaltyRedemption
	for _, r := range l.state.redemptions {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	return out
}

// OrderLines returns all committed order lines.
func (l *MemoryLedger) OrderLines() []model.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Order(nil), l.state.orders...)
}

// Customer returns the committed customer row.
func (l *MemoryLedger) Customer(id int64) (model.Customer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.state.customers[id]
	return c, ok
}

var (
	_ repository.UnitOfWork = (*MemoryLedger)(nil)
	_ repository.Factory    = (*MemoryLedger)(nil)
	_ repository.Tx         = ledgerTx{}
)
