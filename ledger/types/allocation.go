package types

import (
	"fmt"
	"math/big"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
)

// ShareAllocation is one (recipient, share) pair of a vote, as submitted by
// the voter.
type ShareAllocation struct {
	RecipientID common.Hash
	ShareBps    uint32 // fixed-point share, Scale == 100%
}

// VoteEntry is one recorded entry of a persisted allocation. UnitsGranted is
// the number of bonus pool units this entry added at cast time; it is what a
// later overwrite reverses.
type VoteEntry struct {
	RecipientID  common.Hash
	ShareBps     uint32
	UnitsGranted uint64
}

// VoterAllocation is the current allocation of a single voting token. A
// re-vote overwrites the whole record. The vote weight is captured at cast
// time and is not re-evaluated when the token changes owner (sticky vote);
// a new owner must cast a fresh vote for their own weight to count.
type VoterAllocation struct {
	TokenID uint64
	Caster  common.Address
	Weight  uint64
	Entries []VoteEntry
}

func (va *VoterAllocation) String() string {
	if va == nil {
		return "nil-VoterAllocation"
	}
	return fmt.Sprintf("VoterAllocation{token:%v caster:%v weight:%v entries:%v}",
		va.TokenID, va.Caster.Hex(), va.Weight, len(va.Entries))
}

// ValidateShares checks the shape of a submitted allocation: at least one
// entry, every share positive, and the shares summing exactly to Scale.
// Recipient existence is checked separately against the registry.
func ValidateShares(allocs []ShareAllocation) result.Result {
	switch n := len(allocs); {
	case n == 0:
		return result.Error("allocation needs at least one recipient").
			WithErrorCode(result.CodeTooFewRecipients)
	case n > MaxVoteRecipients:
		return result.Error("allocation names %v recipients, at most %v allowed",
			n, MaxVoteRecipients).
			WithErrorCode(result.CodeTooManyRecipients)
	}

	var sum uint64
	for i, a := range allocs {
		if a.ShareBps == 0 {
			return result.Error("allocation %d has a zero share", i).
				WithErrorCode(result.CodeZeroAllocation)
		}
		sum += uint64(a.ShareBps)
	}
	if sum != Scale {
		return result.Error("allocation shares sum to %v, expected %v", sum, Scale).
			WithErrorCode(result.CodeInvalidShareSum)
	}
	return result.OK
}

// VoteUnits converts a vote weight and a share into bonus pool units,
// truncating toward zero.
func VoteUnits(weight uint64, shareBps uint32) uint64 {
	units := new(big.Int).SetUint64(weight)
	units.Mul(units, big.NewInt(int64(shareBps)))
	units.Div(units, big.NewInt(Scale))
	return units.Uint64()
}
