package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

// TransactionType discriminates money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

const dateLayout = "2006-01-02"

// Transaction is a single ledger entry as the backend returns it.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Date        Timestamp       `json:"date"`
}

// TransactionInput is the payload for creating a transaction. Date uses
// the YYYY-MM-DD form the backend parses; left empty, the backend stamps
// the current time.
type TransactionInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date,omitempty"`
}

// Validate checks the payload before it goes on the wire.
func (t TransactionInput) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Amount, validation.By(positiveAmount)),
		validation.Field(&t.Category, validation.Required),
		validation.Field(&t.Type, validation.Required, validation.In(TransactionIncome, TransactionExpense)),
		validation.Field(&t.Date, validation.Date(dateLayout)),
	)
}

// TransactionUpdate carries a partial edit; nil fields are left
// unchanged. The backend does not allow reclassifying an entry's type.
type TransactionUpdate struct {
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// TransactionFilter pages through ListTransactions results.
type TransactionFilter struct {
	Skip  int
	Limit int
}

func (f TransactionFilter) query() url.Values {
	query := url.Values{}
	if f.Skip > 0 {
		query.Set("skip", strconv.Itoa(f.Skip))
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	return query
}

// CreateTransaction records a new ledger entry.
func (c *Client) CreateTransaction(ctx context.Context, input TransactionInput) (*Transaction, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var out Transaction
	if err := c.post(ctx, "/transactions/", nil, input, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// ListTransactions returns a page of the caller's transactions, newest
// first.
func (c *Client) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	var out []Transaction
	if err := c.get(ctx, "/transactions/", filter.query(), &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetTransaction fetches a single transaction by id.
func (c *Client) GetTransaction(ctx context.Context, id int64) (*Transaction, error) {
	var out Transaction
	if err := c.get(ctx, fmt.Sprintf("/transactions/%d", id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateTransaction applies a partial edit and returns the stored result.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, update TransactionUpdate) (*Transaction, error) {
	var out Transaction
	if err := c.put(ctx, fmt.Sprintf("/transactions/%d", id), update, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DeleteTransaction removes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/transactions/%d", id), nil)
}

func positiveAmount(value any) error {
	amount, ok := value.(decimal.Decimal)
	if !ok {
		return fmt.Errorf("must be a decimal amount")
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}
