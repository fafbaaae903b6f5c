package types

import (
	"fmt"
	"math/big"

	"github.com/flowsplit/flowsplit/common/result"
)

// RateSplit is the manager-controlled division of the total distribution
// rate into the baseline, bonus and manager reward budgets. The bonus share
// is the remainder, so the three derived rates always sum exactly to
// TotalRate.
type RateSplit struct {
	TotalRate        int64 // signed rate per unit time
	BaselinePct      uint32
	ManagerRewardPct uint32

	BaselineRate      int64
	BonusRate         int64
	ManagerRewardRate int64
}

// ValidatePercentages checks that the two explicit shares do not exceed the
// whole.
func ValidatePercentages(baselinePct, managerRewardPct uint32) result.Result {
	if uint64(baselinePct)+uint64(managerRewardPct) > Scale {
		return result.Error("baseline %v + manager reward %v exceeds %v",
			baselinePct, managerRewardPct, Scale).
			WithErrorCode(result.CodeInvalidPercent)
	}
	return result.OK
}

// Recompute derives the three budget rates from the current total rate and
// percentages. Integer division truncates toward zero; any remainder stays
// in the bonus share, so BaselineRate + BonusRate + ManagerRewardRate ==
// TotalRate holds exactly.
func (rs *RateSplit) Recompute() {
	rs.ManagerRewardRate = mulPct(rs.TotalRate, rs.ManagerRewardPct)
	rs.BaselineRate = mulPct(rs.TotalRate-rs.ManagerRewardRate, rs.BaselinePct)
	rs.BonusRate = rs.TotalRate - rs.ManagerRewardRate - rs.BaselineRate
}

// mulPct computes rate * pct / Scale without intermediate overflow. big.Int
// Quo truncates toward zero, matching the int64 rule.
func mulPct(rate int64, pct uint32) int64 {
	v := big.NewInt(rate)
	v.Mul(v, big.NewInt(int64(pct)))
	v.Quo(v, big.NewInt(Scale))
	return v.Int64()
}

func (rs *RateSplit) String() string {
	if rs == nil {
		return "nil-RateSplit"
	}
	return fmt.Sprintf("RateSplit{total:%v baseline:%v bonus:%v managerReward:%v}",
		rs.TotalRate, rs.BaselineRate, rs.BonusRate, rs.ManagerRewardRate)
}
