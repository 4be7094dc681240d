package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// PointsEarned returns loyalty points for a paid total, or zero when the
// order does not reach the minimum.
func PointsEarned(paidTotal decimal.Decimal, settings model.Settings) int64 {
	if !paidTotal.IsPositive() || paidTotal.LessThan(settings.MinimumOrder) {
		return 0
	}
	points := paidTotal.Mul(settings.PointsPerUnit).Floor()
	if !points.IsPositive() {
		return 0
	}
	return points.IntPart()
}

// GrantDeduction is the planned change of one loyalty grant.
type GrantDeduction struct {
	EarningID int64
	Taken     int64
	Remaining int64
}

// RedemptionPlan is the outcome of PlanRedemption.
type RedemptionPlan struct {
	Spendable  int64
	Units      int64
	Points     int64
	Credit     decimal.Decimal
	Deductions []GrantDeduction
}

// smallestCredit is the least wallet amount that survives rounding to cents.
var smallestCredit = decimal.New(5, -3)

// PlanRedemption redeems the maximum whole number of units from grants,
// consuming the soonest-expiring grants first. Grants that are not touched
// are absent from Deductions. A redemption whose credit rounds to zero is
// rejected as insufficient points.
func PlanRedemption(grants []model.LoyaltyEarning, ratePoints int64, rateValue decimal.Decimal) (RedemptionPlan, error) {
	if ratePoints <= 0 {
		return RedemptionPlan{}, domainErrors.NewValidation("redeem rate must be positive")
	}
	if !rateValue.IsPositive() {
		return RedemptionPlan{}, domainErrors.NewValidation("redeem rate value must be positive")
	}

	ordered := make([]model.LoyaltyEarning, len(grants))
	copy(ordered, grants)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].ExpiresAt.Equal(ordered[j].ExpiresAt) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].ExpiresAt.Before(ordered[j].ExpiresAt)
	})

	var spendable int64
	for _, g := range ordered {
		if g.PointsRemaining > 0 {
			spendable += g.PointsRemaining
		}
	}

	units := spendable / ratePoints
	if units <= 0 {
		return RedemptionPlan{}, &domainErrors.InsufficientPointsError{Spendable: spendable, Required: ratePoints}
	}

	plan := RedemptionPlan{
		Spendable: spendable,
		Units:     units,
		Points:    units * ratePoints,
		Credit:    rateValue.Mul(decimal.NewFromInt(units)).Round(2),
	}
	if plan.Credit.IsZero() {
		unitsNeeded := smallestCredit.Div(rateValue).Ceil().IntPart()
		return RedemptionPlan{}, &domainErrors.InsufficientPointsError{Spendable: spendable, Required: unitsNeeded * ratePoints}
	}

	left := plan.Points
	for _, g := range ordered {
		if left == 0 {
			break
		}
		if g.PointsRemaining <= 0 {
			continue
		}
		take := min(g.PointsRemaining, left)
		left -= take
		plan.Deductions = append(plan.Deductions, GrantDeduction{
			EarningID: g.ID,
			Taken:     take,
			Remaining: g.PointsRemaining - take,
		})
	}

	return plan, nil
}
