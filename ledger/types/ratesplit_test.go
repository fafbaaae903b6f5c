package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowsplit/flowsplit/common/result"
)

func TestValidatePercentages(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidatePercentages(0, 0).IsOK())
	assert.True(ValidatePercentages(250000, 50000).IsOK())
	assert.True(ValidatePercentages(Scale, 0).IsOK())
	assert.True(ValidatePercentages(500000, 500000).IsOK())

	res := ValidatePercentages(500001, 500000)
	assert.True(res.IsError())
	assert.Equal(result.CodeInvalidPercent, res.Code)
}

func TestRecomputeExactSplit(t *testing.T) {
	assert := assert.New(t)

	split := RateSplit{
		TotalRate:        1000000,
		BaselinePct:      300000,
		ManagerRewardPct: 100000,
	}
	split.Recompute()

	assert.Equal(int64(100000), split.ManagerRewardRate)
	// Baseline applies to the remainder after the manager reward.
	assert.Equal(int64(270000), split.BaselineRate)
	assert.Equal(int64(630000), split.BonusRate)
	assert.Equal(split.TotalRate, split.BaselineRate+split.BonusRate+split.ManagerRewardRate)
}

func TestRecomputeRemainderGoesToBonus(t *testing.T) {
	assert := assert.New(t)

	split := RateSplit{
		TotalRate:   7,
		BaselinePct: 333333,
	}
	split.Recompute()

	assert.Equal(int64(0), split.ManagerRewardRate)
	assert.Equal(int64(2), split.BaselineRate)
	assert.Equal(int64(5), split.BonusRate)
	assert.Equal(split.TotalRate, split.BaselineRate+split.BonusRate+split.ManagerRewardRate)
}

func TestRecomputeZeroAndNegativeRates(t *testing.T) {
	assert := assert.New(t)

	split := RateSplit{
		TotalRate:        0,
		BaselinePct:      250000,
		ManagerRewardPct: 50000,
	}
	split.Recompute()
	assert.Equal(int64(0), split.BaselineRate)
	assert.Equal(int64(0), split.BonusRate)
	assert.Equal(int64(0), split.ManagerRewardRate)

	split.TotalRate = -1000000
	split.Recompute()
	assert.Equal(split.TotalRate, split.BaselineRate+split.BonusRate+split.ManagerRewardRate)
	assert.True(split.BaselineRate <= 0)
	assert.True(split.BonusRate <= 0)
	assert.True(split.ManagerRewardRate <= 0)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	assert := assert.New(t)

	split := RateSplit{
		TotalRate:        123456789,
		BaselinePct:      250000,
		ManagerRewardPct: 50000,
	}
	split.Recompute()
	first := split
	split.Recompute()
	assert.Equal(first, split)
}
