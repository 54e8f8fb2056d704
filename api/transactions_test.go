package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransaction(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/transactions/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload struct {
			Amount   decimal.Decimal `json:"amount"`
			Category string          `json:"category"`
			Type     string          `json:"type"`
			Date     string          `json:"date"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.Amount.Equal(decimal.NewFromFloat(42.5)))
		assert.Equal(t, "groceries", payload.Category)
		assert.Equal(t, "expense", payload.Type)
		assert.Equal(t, "2026-03-15", payload.Date)

		// Backend emits amounts as bare floats and naive datetimes.
		jsonResponse(t, w, http.StatusOK, map[string]any{
			"id":          7,
			"user_id":     42,
			"amount":      42.5,
			"category":    "groceries",
			"type":        "expense",
			"description": "weekly shop",
			"date":        "2026-03-15T00:00:00",
		})
	}))

	out, err := client.CreateTransaction(context.Background(), TransactionInput{
		Amount:      decimal.NewFromFloat(42.5),
		Category:    "groceries",
		Type:        TransactionExpense,
		Description: "weekly shop",
		Date:        "2026-03-15",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, int64(42), out.UserID)
	assert.True(t, out.Amount.Equal(decimal.NewFromFloat(42.5)))
	assert.Equal(t, TransactionExpense, out.Type)
	assert.True(t, out.Date.Equal(time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)))
}

func TestCreateTransactionRejectsInvalidInput(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid input must not reach the backend")
	}))

	testCases := []struct {
		name  string
		input TransactionInput
		field string
	}{
		{
			name: "non positive amount",
			input: TransactionInput{
				Amount:   decimal.NewFromInt(-5),
				Category: "groceries",
				Type:     TransactionExpense,
			},
			field: "amount",
		},
		{
			name: "missing category",
			input: TransactionInput{
				Amount: decimal.NewFromInt(5),
				Type:   TransactionExpense,
			},
			field: "category",
		},
		{
			name: "unknown type",
			input: TransactionInput{
				Amount:   decimal.NewFromInt(5),
				Category: "groceries",
				Type:     "transfer",
			},
			field: "type",
		},
		{
			name: "malformed date",
			input: TransactionInput{
				Amount:   decimal.NewFromInt(5),
				Category: "groceries",
				Type:     TransactionExpense,
				Date:     "15/03/2026",
			},
			field: "date",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.CreateTransaction(context.Background(), tc.input)
			require.Error(t, err)

			var verr validation.Errors
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr, tc.field)
		})
	}
}

func TestListTransactions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/transactions/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("skip"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		jsonResponse(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "amount": 10.0, "category": "rent", "type": "expense", "date": "2026-03-01T00:00:00"},
			{"id": 2, "amount": 2500.0, "category": "salary", "type": "income", "date": "2026-03-01T00:00:00"},
		})
	}))

	out, err := client.ListTransactions(context.Background(), TransactionFilter{Skip: 2, Limit: 5})
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, TransactionIncome, out[1].Type)
	assert.True(t, out[1].Amount.Equal(decimal.NewFromInt(2500)))
}

func TestUpdateTransactionSendsOnlySetFields(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/transactions/7", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Contains(t, payload, "category")
		assert.NotContains(t, payload, "amount")
		assert.NotContains(t, payload, "description")

		jsonResponse(t, w, http.StatusOK, map[string]any{
			"id": 7, "amount": 42.5, "category": "dining", "type": "expense",
			"date": "2026-03-15T00:00:00",
		})
	}))

	category := "dining"
	out, err := client.UpdateTransaction(context.Background(), 7, TransactionUpdate{Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "dining", out.Category)
}

func TestDeleteTransaction(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/transactions/7", r.URL.Path)
		jsonResponse(t, w, http.StatusOK, map[string]any{"message": "Transaction deleted successfully"})
	}))

	require.NoError(t, client.DeleteTransaction(context.Background(), 7))
}
