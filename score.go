package payidvalidator

import (
	"github.com/everFinance/payid-validator/schema"
	"github.com/shopspring/decimal"
)

// Score weighs pass 2, warn 1 and fail 0 and returns the share of the
// maximum as a percentage rounded to two places. No verdicts score 0.
func Score(verdicts []schema.Verdict) float64 {
	if len(verdicts) == 0 {
		return 0
	}
	points := 0
	for _, v := range verdicts {
		points += v.Code.Points()
	}
	total := decimal.NewFromInt(int64(len(verdicts) * schema.MaxPoints))
	score, _ := decimal.NewFromInt(int64(points * 100)).Div(total).Round(2).Float64()
	return score
}
