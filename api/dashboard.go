package api

import (
	"context"
	"net/url"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

// MonthTotals aggregates the current calendar month.
type MonthTotals struct {
	Income  decimal.Decimal `json:"current_month_income"`
	Expense decimal.Decimal `json:"current_month_expense"`
	Net     decimal.Decimal `json:"current_month_net"`
}

// CategoryTotal is one slice of the expense breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardSummary is the landing-page aggregate: month totals, the
// latest transactions, and where the month's expenses went.
type DashboardSummary struct {
	Summary            MonthTotals     `json:"summary"`
	RecentTransactions []Transaction   `json:"recent_transactions"`
	CategoryBreakdown  []CategoryTotal `json:"category_breakdown"`
}

// MonthlyTrend is one month of income versus spending.
type MonthlyTrend struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	NetSavings   decimal.Decimal `json:"net_savings"`
	MonthName    string          `json:"month_name"`
}

// CategoryAnalysis details spending inside one category over a window.
type CategoryAnalysis struct {
	Category         string          `json:"category"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	TransactionCount int             `json:"transaction_count"`
	AverageAmount    decimal.Decimal `json:"avg_amount"`
}

// DashboardSummary fetches the landing-page aggregate.
func (c *Client) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var out DashboardSummary
	if err := c.get(ctx, "/dashboard/summary", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// SpendingTrends returns per-month totals, oldest month first. A
// monthsBack of zero leaves the window to the backend default.
func (c *Client) SpendingTrends(ctx context.Context, monthsBack int) ([]MonthlyTrend, error) {
	query := url.Values{}
	if monthsBack > 0 {
		query.Set("months_back", strconv.Itoa(monthsBack))
	}

	var out []MonthlyTrend
	if err := c.get(ctx, "/dashboard/trends", query, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// CategoryAnalysis breaks down expenses by category between startDate
// and endDate (YYYY-MM-DD, both optional; the backend defaults to the
// trailing 30 days).
func (c *Client) CategoryAnalysis(ctx context.Context, startDate, endDate string) ([]CategoryAnalysis, error) {
	query := url.Values{}

	if startDate != "" {
		if err := validation.Validate(startDate, validation.Date(dateLayout)); err != nil {
			return nil, validation.Errors{"start_date": err}
		}
		query.Set("start_date", startDate)
	}

	if endDate != "" {
		if err := validation.Validate(endDate, validation.Date(dateLayout)); err != nil {
			return nil, validation.Errors{"end_date": err}
		}
		query.Set("end_date", endDate)
	}

	var out []CategoryAnalysis
	if err := c.get(ctx, "/dashboard/category-analysis", query, &out); err != nil {
		return nil, err
	}

	return out, nil
}
