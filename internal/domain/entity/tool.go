package entity

// ToolResult is the envelope every account operation returns. Optional fields
// are only present for the operations that produce them.
type ToolResult struct {
	Success            bool          `json:"success"`
	Message            string        `json:"message,omitempty"`
	Data               *Account      `json:"data,omitempty"`
	Status             CardStatus    `json:"status,omitempty"`
	CurrentOutstanding *float64      `json:"current_outstanding,omitempty"`
	AvailableLimit     *float64      `json:"available_limit,omitempty"`
	NewCreditLimit     *float64      `json:"new_credit_limit,omitempty"`
	DueDate            string        `json:"due_date,omitempty"`
	Overdue            *bool         `json:"overdue,omitempty"`
	Transaction        *Transaction  `json:"transaction,omitempty"`
	Transactions       []Transaction `json:"transactions,omitzero"`
}

// Failure builds an unsuccessful result carrying a user-facing message.
func Failure(message string) ToolResult {
	return ToolResult{Success: false, Message: message}
}
