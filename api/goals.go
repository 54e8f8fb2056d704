package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

// SavingsGoal is a savings target with backend-computed progress. Goals
// lock once completed; locked goals refuse edits and deletion.
type SavingsGoal struct {
	ID                 int64           `json:"id"`
	UserID             int64           `json:"user_id"`
	Title              string          `json:"title"`
	TargetAmount       decimal.Decimal `json:"target_amount"`
	CurrentAmount      decimal.Decimal `json:"current_amount"`
	TargetDate         Timestamp       `json:"target_date"`
	Description        string          `json:"description"`
	Locked             bool            `json:"is_locked"`
	Completed          bool            `json:"is_completed"`
	ProgressPercentage float64         `json:"progress_percentage"`
	DaysRemaining      int             `json:"days_remaining"`
}

// GoalInput is the payload for creating a savings goal. TargetDate uses
// the YYYY-MM-DD form and must fall after today.
type GoalInput struct {
	Title        string          `json:"title"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	TargetDate   string          `json:"target_date"`
	Description  string          `json:"description,omitempty"`
}

// Validate checks the payload before it goes on the wire.
func (g GoalInput) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Title, validation.Required),
		validation.Field(&g.TargetAmount, validation.By(positiveAmount)),
		validation.Field(&g.TargetDate, validation.Required, validation.Date(dateLayout), validation.By(futureDate)),
	)
}

// GoalUpdate carries a partial edit; nil fields are left unchanged.
type GoalUpdate struct {
	Title        *string          `json:"title,omitempty"`
	TargetAmount *decimal.Decimal `json:"target_amount,omitempty"`
	TargetDate   *string          `json:"target_date,omitempty"`
	Description  *string          `json:"description,omitempty"`
}

// CreateGoal registers a new savings goal.
func (c *Client) CreateGoal(ctx context.Context, input GoalInput) (*SavingsGoal, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var out SavingsGoal
	if err := c.post(ctx, "/goals/", nil, input, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// ListGoals returns all of the caller's savings goals.
func (c *Client) ListGoals(ctx context.Context) ([]SavingsGoal, error) {
	var out []SavingsGoal
	if err := c.get(ctx, "/goals/", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetGoal fetches a single goal by id.
func (c *Client) GetGoal(ctx context.Context, id int64) (*SavingsGoal, error) {
	var out SavingsGoal
	if err := c.get(ctx, fmt.Sprintf("/goals/%d", id), nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateGoal applies a partial edit and returns the stored result.
func (c *Client) UpdateGoal(ctx context.Context, id int64, update GoalUpdate) (*SavingsGoal, error) {
	var out SavingsGoal
	if err := c.put(ctx, fmt.Sprintf("/goals/%d", id), update, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DeleteGoal removes a savings goal.
func (c *Client) DeleteGoal(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/goals/%d", id), nil)
}

// AddToGoal deposits amount into the goal and returns the updated goal.
// Reaching the target marks the goal completed and locks it. The backend
// takes the amount as a query parameter.
func (c *Client) AddToGoal(ctx context.Context, id int64, amount decimal.Decimal) (*SavingsGoal, error) {
	if err := positiveAmount(amount); err != nil {
		return nil, validation.Errors{"amount": err}
	}

	query := url.Values{}
	query.Set("amount", amount.String())

	var out SavingsGoal
	if err := c.post(ctx, fmt.Sprintf("/goals/%d/add-amount", id), query, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func futureDate(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return fmt.Errorf("must be a YYYY-MM-DD date")
	}
	if !day.After(time.Now().UTC().Truncate(24 * time.Hour)) {
		return fmt.Errorf("must be in the future")
	}

	return nil
}
