package entity

import "slices"

type CardStatus string

const (
	CardActive  CardStatus = "active"
	CardBlocked CardStatus = "blocked"
)

type Transaction struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Merchant string  `json:"merchant"`
	Date     string  `json:"date"`
}

// Account is the servicing view of one cardholder. Transactions are kept
// most-recent first.
type Account struct {
	UserID             string        `json:"user_id"`
	DisplayName        string        `json:"display_name"`
	CardLast4          string        `json:"card_last4"`
	Status             CardStatus    `json:"status"`
	CreditLimit        float64       `json:"credit_limit"`
	AvailableLimit     float64       `json:"available_limit"`
	CurrentOutstanding float64       `json:"current_outstanding"`
	DueDate            string        `json:"due_date"`
	Overdue            bool          `json:"overdue"`
	Transactions       []Transaction `json:"transactions"`
}

// Clone returns a deep copy so snapshots never alias store state.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Transactions = slices.Clone(a.Transactions)
	if c.Transactions == nil {
		c.Transactions = []Transaction{}
	}
	return &c
}
