package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadges(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/badges/", r.URL.Path)

		jsonResponse(t, w, http.StatusOK, map[string]any{
			"earned_badges": []map[string]any{
				{
					"id":          1,
					"name":        "First Steps",
					"description": "Recorded your first transaction",
					"icon":        "🌱",
					"criteria":    "first_transaction",
					"earned_at":   "2026-02-01T09:00:00",
					"earned":      true,
				},
			},
			"potential_badges": []map[string]any{
				{
					"id":          4,
					"name":        "Saver Elite",
					"description": "Saved over 5000",
					"icon":        "💰",
					"criteria":    "saved_5000",
					"earned":      false,
				},
			},
			"total_earned": 1,
		})
	}))

	out, err := client.Badges(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, out.TotalEarned)
	require.Len(t, out.EarnedBadges, 1)
	assert.True(t, out.EarnedBadges[0].Earned)
	assert.False(t, out.EarnedBadges[0].EarnedAt.IsZero())
	require.Len(t, out.PotentialBadges, 1)
	assert.False(t, out.PotentialBadges[0].Earned)
	assert.True(t, out.PotentialBadges[0].EarnedAt.IsZero())
}

func TestAvailableBadges(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/badges/available", r.URL.Path)

		jsonResponse(t, w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "First Steps", "description": "Recorded your first transaction", "icon": "🌱", "criteria": "first_transaction"},
			{"id": 4, "name": "Saver Elite", "description": "Saved over 5000", "icon": "💰", "criteria": "saved_5000"},
		})
	}))

	out, err := client.AvailableBadges(context.Background())
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "saved_5000", out[1].Criteria)
}

func TestAwardBadge(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/badges/award", r.URL.Path)
		assert.Equal(t, "4", r.URL.Query().Get("badge_id"))

		jsonResponse(t, w, http.StatusOK, map[string]any{
			"message": "Badge awarded successfully",
			"badge": map[string]any{
				"id":          4,
				"name":        "Saver Elite",
				"description": "Saved over 5000",
				"icon":        "💰",
			},
		})
	}))

	out, err := client.AwardBadge(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, "Badge awarded successfully", out.Message)
	assert.Equal(t, int64(4), out.Badge.ID)
	assert.Equal(t, "Saver Elite", out.Badge.Name)
}
