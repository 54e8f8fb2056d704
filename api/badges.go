package api

import (
	"context"
	"net/url"
	"strconv"
)

// Badge is an achievement the backend can award. EarnedAt is set only on
// badges the account has actually earned.
type Badge struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Criteria    string    `json:"criteria"`
	Earned      bool      `json:"earned"`
	EarnedAt    Timestamp `json:"earned_at"`
}

// BadgeSummary pairs earned badges with ones the account already
// qualifies for but has not been awarded.
type BadgeSummary struct {
	EarnedBadges    []Badge `json:"earned_badges"`
	PotentialBadges []Badge `json:"potential_badges"`
	TotalEarned     int     `json:"total_earned"`
}

// AwardedBadge is the acknowledgement for a badge grant.
type AwardedBadge struct {
	Message string `json:"message"`
	Badge   Badge  `json:"badge"`
}

// Badges returns the caller's earned and qualifying badges.
func (c *Client) Badges(ctx context.Context) (*BadgeSummary, error) {
	var out BadgeSummary
	if err := c.get(ctx, "/badges/", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// AvailableBadges lists every badge the system can award.
func (c *Client) AvailableBadges(ctx context.Context) ([]Badge, error) {
	var out []Badge
	if err := c.get(ctx, "/badges/available", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// AwardBadge grants a badge to the caller. The backend takes the badge
// id as a query parameter and rejects duplicate grants.
func (c *Client) AwardBadge(ctx context.Context, badgeID int64) (*AwardedBadge, error) {
	query := url.Values{}
	query.Set("badge_id", strconv.FormatInt(badgeID, 10))

	var out AwardedBadge
	if err := c.post(ctx, "/badges/award", query, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
