package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tool names the planner may choose from.
const (
	ToolGetSummary             = "get_summary"
	ToolBlockCard              = "block_card"
	ToolUnblockCard            = "unblock_card"
	ToolPayBill                = "pay_bill"
	ToolCheckBalance           = "check_balance"
	ToolIncreaseCreditLimit    = "increase_credit_limit"
	ToolGetDueDate             = "get_due_date"
	ToolAddTransaction         = "add_transaction"
	ToolListRecentTransactions = "list_recent_transactions"
)

// ToolNames lists every supported tool in the order the planner prompt shows them.
var ToolNames = []string{
	ToolGetSummary,
	ToolBlockCard,
	ToolPayBill,
	ToolListRecentTransactions,
	ToolCheckBalance,
	ToolIncreaseCreditLimit,
	ToolGetDueDate,
	ToolAddTransaction,
	ToolUnblockCard,
}

const (
	defaultListLimit = 5
	defaultMerchant  = "Unknown"
	defaultTxnDate   = "2025-12-07"
)

// Action is a decoded tool invocation. The set of implementations is closed.
type Action interface {
	toolName() string
}

type GetSummary struct{}
type BlockCard struct{}
type UnblockCard struct{}
type CheckBalance struct{}
type GetDueDate struct{}

type PayBill struct {
	Amount float64
}

type IncreaseCreditLimit struct {
	Amount float64
}

type AddTransaction struct {
	Amount   float64
	Merchant string
	Date     string
}

type ListRecentTransactions struct {
	Limit int
}

// UnknownAction carries a tool name outside the supported set.
type UnknownAction struct {
	Name string
}

func (GetSummary) toolName() string             { return ToolGetSummary }
func (BlockCard) toolName() string              { return ToolBlockCard }
func (UnblockCard) toolName() string            { return ToolUnblockCard }
func (CheckBalance) toolName() string           { return ToolCheckBalance }
func (GetDueDate) toolName() string             { return ToolGetDueDate }
func (PayBill) toolName() string                { return ToolPayBill }
func (IncreaseCreditLimit) toolName() string    { return ToolIncreaseCreditLimit }
func (AddTransaction) toolName() string         { return ToolAddTransaction }
func (ListRecentTransactions) toolName() string { return ToolListRecentTransactions }
func (a UnknownAction) toolName() string        { return a.Name }

// InvalidParamError reports a parameter that could not be coerced. Its
// message is shown to the user as a failed tool result.
type InvalidParamError struct {
	Field string
	Value any
}

func (e *InvalidParamError) Error() string {
	return fmt.Sprintf("Invalid %s: %v", e.Field, e.Value)
}

// DecodeAction turns a planner action name and its loose parameters into a
// typed Action, filling defaults for absent fields.
func DecodeAction(name string, params map[string]any) (Action, error) {
	switch name {
	case ToolGetSummary:
		return GetSummary{}, nil
	case ToolBlockCard:
		return BlockCard{}, nil
	case ToolUnblockCard:
		return UnblockCard{}, nil
	case ToolCheckBalance:
		return CheckBalance{}, nil
	case ToolGetDueDate:
		return GetDueDate{}, nil
	case ToolPayBill:
		amount, err := amountParam(params)
		if err != nil {
			return nil, err
		}
		return PayBill{Amount: amount}, nil
	case ToolIncreaseCreditLimit:
		amount, err := amountParam(params)
		if err != nil {
			return nil, err
		}
		return IncreaseCreditLimit{Amount: amount}, nil
	case ToolAddTransaction:
		amount, err := amountParam(params)
		if err != nil {
			return nil, err
		}
		return AddTransaction{
			Amount:   amount,
			Merchant: stringParam(params, "merchant", defaultMerchant),
			Date:     stringParam(params, "date", defaultTxnDate),
		}, nil
	case ToolListRecentTransactions:
		limit, err := intParam(params, "limit", defaultListLimit)
		if err != nil {
			return nil, err
		}
		return ListRecentTransactions{Limit: limit}, nil
	default:
		return UnknownAction{Name: name}, nil
	}
}

// amountParam reads the money amount of a mutating tool. Negative amounts are
// refused so a payment can never lower the available limit.
func amountParam(params map[string]any) (float64, error) {
	amount, err := floatParam(params, "amount", 0)
	if err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, &InvalidParamError{Field: "amount", Value: params["amount"]}
	}
	return amount, nil
}

func floatParam(params map[string]any, key string, def float64) (float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, &InvalidParamError{Field: key, Value: raw}
		}
		f = parsed
	default:
		return 0, &InvalidParamError{Field: key, Value: raw}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &InvalidParamError{Field: key, Value: raw}
	}
	return f, nil
}

func intParam(params map[string]any, key string, def int) (int, error) {
	if raw, ok := params[key]; !ok || raw == nil {
		return def, nil
	}
	f, err := floatParam(params, key, float64(def))
	if err != nil {
		return 0, err
	}
	switch {
	case f >= float64(math.MaxInt):
		return math.MaxInt, nil
	case f <= float64(math.MinInt):
		return math.MinInt, nil
	}
	return int(f), nil
}

func stringParam(params map[string]any, key, def string) string {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}
