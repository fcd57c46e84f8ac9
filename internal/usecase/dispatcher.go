package usecase

import (
	"card-assist/internal/domain/entity"
	"card-assist/internal/domain/repository"
	"context"
	"errors"
	"fmt"
)

// errCardNotBlocked aborts an unblock_card update without committing.
var errCardNotBlocked = errors.New("card is not blocked")

// Dispatcher executes planner-selected tools against the account store.
// Domain failures come back as unsuccessful results; only store
// infrastructure errors are returned as errors.
type Dispatcher struct {
	accounts repository.AccountStore
}

func NewDispatcher(accounts repository.AccountStore) *Dispatcher {
	return &Dispatcher{accounts: accounts}
}

func (d *Dispatcher) Execute(ctx context.Context, userID, name string, params map[string]any) (entity.ToolResult, error) {
	action, err := DecodeAction(name, params)
	if err != nil {
		var invalid *InvalidParamError
		if errors.As(err, &invalid) {
			return entity.Failure(invalid.Error()), nil
		}
		return entity.ToolResult{}, err
	}

	res, err := d.run(ctx, userID, action)
	switch {
	case errors.Is(err, entity.ErrAccountNotFound):
		return entity.Failure("User not found"), nil
	case errors.Is(err, errCardNotBlocked):
		return entity.Failure("Card is not blocked."), nil
	case err != nil:
		return entity.ToolResult{}, fmt.Errorf("tool %s: %w", name, err)
	}
	return res, nil
}

func (d *Dispatcher) run(ctx context.Context, userID string, action Action) (entity.ToolResult, error) {
	switch a := action.(type) {
	case GetSummary:
		acct, err := d.accounts.Get(ctx, userID)
		if err != nil {
			return entity.ToolResult{}, err
		}
		return entity.ToolResult{Success: true, Data: acct}, nil

	case BlockCard:
		acct, err := d.accounts.Update(ctx, userID, func(acct *entity.Account) error {
			acct.Status = entity.CardBlocked
			return nil
		})
		if err != nil {
			return entity.ToolResult{}, err
		}
		return entity.ToolResult{Success: true, Message: "Your card has been blocked.", Status: acct.Status}, nil

	case UnblockCard:
		acct, err := d.accounts.Update(ctx, userID, func(acct *entity.Account) error {
			if acct.Status != entity.CardBlocked {
				return errCardNotBlocked
			}
			acct.Status = entity.CardActive
			return nil
		})
		if err != nil {
			return entity.ToolResult{}, err
		}
		return entity.ToolResult{Success: true, Message: "Your card has been unblocked.", Status: acct.Status}, nil

	case PayBill:
		acct, err := d.accounts.Update(ctx, userID, func(acct *entity.Account) error {
			acct.CurrentOutstanding = max(0, acct.CurrentOutstanding-a.Amount)
			acct.AvailableLimit += a.Amount
			return nil
		})
		if err != nil {
			return entity.ToolResult{}, err
		}
		return entity.ToolResult{
			Success:            true,
			Message:            fmt.Sprintf("Payment of ₹%.2f received.", a.Amount),
			CurrentOutstanding: &acct.CurrentOutstanding,
			AvailableLimit:     &acct.AvailableLimit,
		}, nil

	case CheckBalance:
		acct, err := d.accounts.Get(ctx, userID)
		if err != nil {
			return entity.ToolResult{}, err
		}
		return entity.ToolResult{
			Success:            true,
			CurrentOutstanding: &acct.CurrentOutstanding,
			AvailableLimit:     &acct.AvailableLimit,
		}, nil

	case IncreaseCreditLimit:
		acct, err := d.accounts.Update(ctx, userID, func(acct *entity.Account) error {
			acct.CreditLimit += a.Amount
			acct.AvailableLimit += a.Amount
			return nil
		})
		if err != nil {
			return entity.ToolResult{}, err
		}
		return entity.ToolResult{
			Success:        true,
			Message:        fmt.Sprintf("Credit limit increased by ₹%.2f.", a.Amount),
			NewCreditLimit: &acct.CreditLimit,
			AvailableLimit: &acct.AvailableLimit,
		}, nil

	case GetDueDate:
		acct, err := d.accounts.Get(ctx, userID)
		if err != nil {
			return entity.ToolResult{}, err
		}
		return entity.ToolResult{Success: true, DueDate: acct.DueDate, Overdue: &acct.Overdue}, nil

	case AddTransaction:
		var txn entity.Transaction
		acct, err := d.accounts.Update(ctx, userID, func(acct *entity.Account) error {
			txn = entity.Transaction{
				ID:       fmt.Sprintf("txn_%03d", len(acct.Transactions)+1),
				Amount:   a.Amount,
				Merchant: a.Merchant,
				Date:     a.Date,
			}
			acct.Transactions = append([]entity.Transaction{txn}, acct.Transactions...)
			acct.CurrentOutstanding += a.Amount
			acct.AvailableLimit = max(0, acct.AvailableLimit-a.Amount)
			return nil
		})
		if err != nil {
			return entity.ToolResult{}, err
		}
		return entity.ToolResult{
			Success:            true,
			Message:            fmt.Sprintf("Transaction added: %s ₹%.2f", txn.Merchant, txn.Amount),
			Transaction:        &txn,
			CurrentOutstanding: &acct.CurrentOutstanding,
			AvailableLimit:     &acct.AvailableLimit,
		}, nil

	case ListRecentTransactions:
		acct, err := d.accounts.Get(ctx, userID)
		if err != nil {
			return entity.ToolResult{}, err
		}
		n := min(max(a.Limit, 0), len(acct.Transactions))
		return entity.ToolResult{Success: true, Transactions: acct.Transactions[:n:n]}, nil

	case UnknownAction:
		return entity.Failure("Unknown action: " + a.Name), nil

	default:
		return entity.ToolResult{}, fmt.Errorf("unhandled action %T", action)
	}
}
