package store

import (
	"card-assist/internal/domain/entity"
	"time"
)

// DemoAccounts returns the accounts the service starts with. The due date is
// the 25th of the month containing now.
func DemoAccounts(now time.Time) []*entity.Account {
	due := time.Date(now.Year(), now.Month(), 25, 0, 0, 0, 0, now.Location())
	return []*entity.Account{
		{
			UserID:             "user_123",
			DisplayName:        "Alex",
			CardLast4:          "4321",
			Status:             entity.CardActive,
			CreditLimit:        100000,
			AvailableLimit:     65000,
			CurrentOutstanding: 35000,
			DueDate:            due.Format(time.DateOnly),
			Overdue:            false,
			Transactions: []entity.Transaction{
				{ID: "txn_001", Amount: 1500, Merchant: "Amazon", Date: "2025-12-01"},
				{ID: "txn_002", Amount: 2000, Merchant: "Uber", Date: "2025-12-03"},
			},
		},
	}
}
