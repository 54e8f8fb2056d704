package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// BudgetPrediction is the model's estimate for next month's spending.
// Recommendation is one of "Increase", "Maintain", or "Reduce".
type BudgetPrediction struct {
	PredictedBudget      decimal.Decimal `json:"predicted_budget"`
	CurrentMonthSpending decimal.Decimal `json:"current_month_spending"`
	NextMonth            int             `json:"next_month"`
	NextYear             int             `json:"next_year"`
	Recommendation       string          `json:"recommendation"`
}

// TrainingResult reports a model training run. Message is set only when
// training was skipped, which happens while the account has too little
// history; otherwise the accuracy fields describe the fitted model.
type TrainingResult struct {
	Message         string  `json:"message"`
	MAE             float64 `json:"mae"`
	R2Score         float64 `json:"r2_score"`
	TrainingSamples int     `json:"training_samples"`
	TestSamples     int     `json:"test_samples"`
}

// ForecastPoint is the predicted budget for one upcoming month.
type ForecastPoint struct {
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	PredictedBudget decimal.Decimal `json:"predicted_budget"`
	MonthName       string          `json:"month_name"`
}

// BudgetPrediction fetches next month's predicted budget. The backend
// trains the model on the fly for accounts that have never trained one.
func (c *Client) BudgetPrediction(ctx context.Context) (*BudgetPrediction, error) {
	var out BudgetPrediction
	if err := c.get(ctx, "/predictions/budget", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// TrainModel retrains the account's budget model on its full history.
func (c *Client) TrainModel(ctx context.Context) (*TrainingResult, error) {
	var out TrainingResult
	if err := c.post(ctx, "/predictions/train-model", nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// PredictionTrends returns the month-by-month history the model trains
// on, oldest month first.
func (c *Client) PredictionTrends(ctx context.Context, monthsBack int) ([]MonthlyTrend, error) {
	query := url.Values{}
	if monthsBack > 0 {
		query.Set("months_back", strconv.Itoa(monthsBack))
	}

	var out []MonthlyTrend
	if err := c.get(ctx, "/predictions/trends", query, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// Forecast predicts budgets for the next monthsAhead months. Zero leaves
// the horizon to the backend default.
func (c *Client) Forecast(ctx context.Context, monthsAhead int) ([]ForecastPoint, error) {
	query := url.Values{}
	if monthsAhead > 0 {
		query.Set("months_ahead", strconv.Itoa(monthsAhead))
	}

	var out []ForecastPoint
	if err := c.get(ctx, "/predictions/forecast", query, &out); err != nil {
		return nil, err
	}

	return out, nil
}
