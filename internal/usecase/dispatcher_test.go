package usecase

import (
	"card-assist/internal/adapter/store"
	"card-assist/internal/domain/entity"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoUser = "user_123"

func newDemoDispatcher(t *testing.T) (*Dispatcher, *store.MemoryAccountStore) {
	t.Helper()
	accounts := store.NewMemoryAccountStore()
	now := time.Date(2025, time.December, 7, 10, 0, 0, 0, time.UTC)
	require.NoError(t, accounts.Seed(context.Background(), store.DemoAccounts(now)...))
	return NewDispatcher(accounts), accounts
}

func execute(t *testing.T, d *Dispatcher, user, name string, params map[string]any) entity.ToolResult {
	t.Helper()
	res, err := d.Execute(context.Background(), user, name, params)
	require.NoError(t, err)
	return res
}

func snapshot(t *testing.T, s *store.MemoryAccountStore) *entity.Account {
	t.Helper()
	acct, err := s.Get(context.Background(), demoUser)
	require.NoError(t, err)
	return acct
}

func TestDispatcher_GetSummary(t *testing.T) {
	d, _ := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolGetSummary, nil)
	require.True(t, res.Success)
	require.NotNil(t, res.Data)
	assert.Equal(t, "Alex", res.Data.DisplayName)
	assert.Equal(t, "4321", res.Data.CardLast4)
	assert.Equal(t, "2025-12-25", res.Data.DueDate)
	assert.Len(t, res.Data.Transactions, 2)
}

func TestDispatcher_BlockCardIsIdempotent(t *testing.T) {
	d, s := newDemoDispatcher(t)

	for range 2 {
		res := execute(t, d, demoUser, ToolBlockCard, nil)
		assert.True(t, res.Success)
		assert.Equal(t, "Your card has been blocked.", res.Message)
		assert.Equal(t, entity.CardBlocked, res.Status)
	}
	assert.Equal(t, entity.CardBlocked, snapshot(t, s).Status)
}

func TestDispatcher_UnblockCard(t *testing.T) {
	d, s := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolUnblockCard, nil)
	assert.False(t, res.Success)
	assert.Equal(t, "Card is not blocked.", res.Message)
	assert.Equal(t, entity.CardActive, snapshot(t, s).Status)

	execute(t, d, demoUser, ToolBlockCard, nil)
	res = execute(t, d, demoUser, ToolUnblockCard, nil)
	assert.True(t, res.Success)
	assert.Equal(t, "Your card has been unblocked.", res.Message)
	assert.Equal(t, entity.CardActive, res.Status)
}

func TestDispatcher_PayBill(t *testing.T) {
	d, _ := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolPayBill, map[string]any{"amount": 5000.0})
	require.True(t, res.Success)
	assert.Equal(t, "Payment of ₹5000.00 received.", res.Message)
	assert.Equal(t, 30000.0, *res.CurrentOutstanding)
	assert.Equal(t, 70000.0, *res.AvailableLimit)
}

func TestDispatcher_PayBillFloorsOutstanding(t *testing.T) {
	d, _ := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolPayBill, map[string]any{"amount": "50000"})
	require.True(t, res.Success)
	assert.Equal(t, 0.0, *res.CurrentOutstanding)
	assert.Equal(t, 115000.0, *res.AvailableLimit)
}

func TestDispatcher_PayBillDefaultsToZero(t *testing.T) {
	d, s := newDemoDispatcher(t)
	before := snapshot(t, s)

	res := execute(t, d, demoUser, ToolPayBill, map[string]any{})
	require.True(t, res.Success)
	assert.Equal(t, "Payment of ₹0.00 received.", res.Message)
	assert.Equal(t, before.CurrentOutstanding, *res.CurrentOutstanding)
}

func TestDispatcher_CheckBalance(t *testing.T) {
	d, _ := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolCheckBalance, nil)
	require.True(t, res.Success)
	assert.Equal(t, 35000.0, *res.CurrentOutstanding)
	assert.Equal(t, 65000.0, *res.AvailableLimit)
	assert.Empty(t, res.Message)
}

func TestDispatcher_IncreaseCreditLimit(t *testing.T) {
	d, s := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolIncreaseCreditLimit, map[string]any{"amount": 20000})
	require.True(t, res.Success)
	assert.Equal(t, "Credit limit increased by ₹20000.00.", res.Message)
	assert.Equal(t, 120000.0, *res.NewCreditLimit)
	assert.Equal(t, 85000.0, *res.AvailableLimit)
	assert.Equal(t, 120000.0, snapshot(t, s).CreditLimit)
}

func TestDispatcher_GetDueDate(t *testing.T) {
	d, _ := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolGetDueDate, nil)
	require.True(t, res.Success)
	assert.Equal(t, "2025-12-25", res.DueDate)
	assert.False(t, *res.Overdue)
}

func TestDispatcher_AddTransaction(t *testing.T) {
	d, s := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolAddTransaction, map[string]any{
		"amount":   2500.5,
		"merchant": "Swiggy",
		"date":     "2025-12-06",
	})
	require.True(t, res.Success)
	assert.Equal(t, "Transaction added: Swiggy ₹2500.50", res.Message)
	assert.Equal(t, entity.Transaction{ID: "txn_003", Amount: 2500.5, Merchant: "Swiggy", Date: "2025-12-06"}, *res.Transaction)
	assert.Equal(t, 37500.5, *res.CurrentOutstanding)
	assert.Equal(t, 62499.5, *res.AvailableLimit)

	res = execute(t, d, demoUser, ToolAddTransaction, nil)
	require.True(t, res.Success)
	assert.Equal(t, "txn_004", res.Transaction.ID)
	assert.Equal(t, "Unknown", res.Transaction.Merchant)
	assert.Equal(t, "2025-12-07", res.Transaction.Date)

	txns := snapshot(t, s).Transactions
	require.Len(t, txns, 4)
	assert.Equal(t, []string{"txn_004", "txn_003", "txn_001", "txn_002"},
		[]string{txns[0].ID, txns[1].ID, txns[2].ID, txns[3].ID})
}

func TestDispatcher_AddTransactionFloorsAvailable(t *testing.T) {
	d, _ := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolAddTransaction, map[string]any{"amount": 90000})
	require.True(t, res.Success)
	assert.Equal(t, 0.0, *res.AvailableLimit)
	assert.Equal(t, 125000.0, *res.CurrentOutstanding)
}

func TestDispatcher_ListRecentTransactions(t *testing.T) {
	d, _ := newDemoDispatcher(t)

	tests := []struct {
		name   string
		params map[string]any
		want   []string
	}{
		{"default limit", nil, []string{"txn_001", "txn_002"}},
		{"limit one", map[string]any{"limit": 1}, []string{"txn_001"}},
		{"limit as string", map[string]any{"limit": "1"}, []string{"txn_001"}},
		{"zero limit", map[string]any{"limit": 0}, []string{}},
		{"negative limit", map[string]any{"limit": -3}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := execute(t, d, demoUser, ToolListRecentTransactions, tt.params)
			require.True(t, res.Success)
			ids := []string{}
			for _, txn := range res.Transactions {
				ids = append(ids, txn.ID)
			}
			assert.Equal(t, tt.want, ids)
			assert.NotNil(t, res.Transactions)
		})
	}
}

func TestDispatcher_UserNotFound(t *testing.T) {
	d, s := newDemoDispatcher(t)
	before := snapshot(t, s)

	for _, name := range ToolNames {
		t.Run(name, func(t *testing.T) {
			res := execute(t, d, "ghost", name, map[string]any{"amount": 100})
			assert.False(t, res.Success)
			assert.Equal(t, "User not found", res.Message)
		})
	}
	assert.Equal(t, before, snapshot(t, s))
}

func TestDispatcher_UnknownAction(t *testing.T) {
	d, s := newDemoDispatcher(t)
	before := snapshot(t, s)

	res := execute(t, d, demoUser, "transfer_funds", map[string]any{"amount": 10})
	assert.Equal(t, entity.Failure("Unknown action: transfer_funds"), res)
	assert.Equal(t, before, snapshot(t, s))
}

func TestDispatcher_InvalidAmount(t *testing.T) {
	d, s := newDemoDispatcher(t)
	before := snapshot(t, s)

	res := execute(t, d, demoUser, ToolPayBill, map[string]any{"amount": "lots"})
	assert.Equal(t, entity.Failure("Invalid amount: lots"), res)

	res = execute(t, d, demoUser, ToolListRecentTransactions, map[string]any{"limit": true})
	assert.Equal(t, entity.Failure("Invalid limit: true"), res)
	assert.Equal(t, before, snapshot(t, s))
}

type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) (*entity.Account, error) { return nil, b.err }
func (b brokenStore) Update(context.Context, string, func(*entity.Account) error) (*entity.Account, error) {
	return nil, b.err
}
func (b brokenStore) Seed(context.Context, ...*entity.Account) error { return b.err }

func TestDispatcher_StoreFailureIsAnError(t *testing.T) {
	boom := errors.New("connection reset")
	d := NewDispatcher(brokenStore{err: boom})

	_, err := d.Execute(context.Background(), demoUser, ToolBlockCard, nil)
	assert.ErrorIs(t, err, boom)

	res, err := d.Execute(context.Background(), demoUser, "nope", nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestDispatcher_NegativeAmountsAreRefused(t *testing.T) {
	d, s := newDemoDispatcher(t)
	before := snapshot(t, s)

	for _, name := range []string{ToolPayBill, ToolAddTransaction, ToolIncreaseCreditLimit} {
		t.Run(name, func(t *testing.T) {
			res := execute(t, d, demoUser, name, map[string]any{"amount": -100000})
			assert.Equal(t, entity.Failure("Invalid amount: -100000"), res)
		})
	}

	after := snapshot(t, s)
	assert.Equal(t, before, after)
	assert.GreaterOrEqual(t, after.AvailableLimit, 0.0)
}

func TestDispatcher_HugeLimitListsEverything(t *testing.T) {
	d, _ := newDemoDispatcher(t)

	res := execute(t, d, demoUser, ToolListRecentTransactions, map[string]any{"limit": 1e19})
	require.True(t, res.Success)
	assert.Len(t, res.Transactions, 2)
}
