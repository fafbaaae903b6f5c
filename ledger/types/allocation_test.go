package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
)

func share(id byte, bps uint32) ShareAllocation {
	return ShareAllocation{
		RecipientID: common.BytesToHash([]byte{id}),
		ShareBps:    bps,
	}
}

func TestValidateSharesAcceptsExactSum(t *testing.T) {
	assert := assert.New(t)

	assert.True(ValidateShares([]ShareAllocation{share(1, Scale)}).IsOK())
	assert.True(ValidateShares([]ShareAllocation{share(1, 600000), share(2, 400000)}).IsOK())
	assert.True(ValidateShares([]ShareAllocation{share(1, 333333), share(2, 333333), share(3, 333334)}).IsOK())
}

func TestValidateSharesRejectsEmpty(t *testing.T) {
	assert := assert.New(t)

	res := ValidateShares(nil)
	assert.True(res.IsError())
	assert.Equal(result.CodeTooFewRecipients, res.Code)
}

func TestValidateSharesRejectsZeroShare(t *testing.T) {
	assert := assert.New(t)

	res := ValidateShares([]ShareAllocation{share(1, Scale), share(2, 0)})
	assert.True(res.IsError())
	assert.Equal(result.CodeZeroAllocation, res.Code)
}

func TestValidateSharesRejectsBadSum(t *testing.T) {
	assert := assert.New(t)

	res := ValidateShares([]ShareAllocation{share(1, 600000), share(2, 400001)})
	assert.True(res.IsError())
	assert.Equal(result.CodeInvalidShareSum, res.Code)

	res = ValidateShares([]ShareAllocation{share(1, 600000), share(2, 399999)})
	assert.True(res.IsError())
	assert.Equal(result.CodeInvalidShareSum, res.Code)
}

func TestValidateSharesRejectsTooManyRecipients(t *testing.T) {
	assert := assert.New(t)

	allocs := make([]ShareAllocation, MaxVoteRecipients+1)
	each := uint32(Scale / (MaxVoteRecipients + 1))
	var sum uint32
	for i := range allocs {
		allocs[i] = share(byte(i), each)
		sum += each
	}
	allocs[0].ShareBps += Scale - sum

	res := ValidateShares(allocs)
	assert.True(res.IsError())
	assert.Equal(result.CodeTooManyRecipients, res.Code)
}

func TestVoteUnitsTruncates(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(uint64(60), VoteUnits(100, 600000))
	assert.Equal(uint64(40), VoteUnits(100, 400000))
	assert.Equal(uint64(100), VoteUnits(100, Scale))

	// 7 * 333333 / 1000000 = 2.333331 truncates to 2.
	assert.Equal(uint64(2), VoteUnits(7, 333333))
	assert.Equal(uint64(0), VoteUnits(1, 999999))
}

func TestVoteUnitsLargeWeightNoOverflow(t *testing.T) {
	assert := assert.New(t)

	weight := uint64(1) << 62
	assert.Equal(weight/2, VoteUnits(weight, Scale/2))
}
