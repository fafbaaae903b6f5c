package pool

import (
	"math/big"

	"github.com/flowsplit/flowsplit/common"
)

// Engine creates weighted distribution pools. The allocator consumes pools
// through this interface and never computes per-member payout amounts
// itself: it only maintains unit counts and the total distribution rate.
type Engine interface {
	CreatePool(owner common.Address) (Pool, error)
}

// Pool is a weighted distribution pool. Value flows into the pool at the
// configured rate and is split between members in proportion to their units.
type Pool interface {
	// SetMemberUnits sets the proportional weight of a member. Zero units
	// exclude the member from future distribution without forfeiting what
	// it already accrued.
	SetMemberUnits(member common.Address, units uint64) error

	// SetDistributionRate sets the total (signed) rate flowing into the
	// pool per second.
	SetDistributionRate(rate int64) error

	// Claimable returns the amount accrued by the member so far.
	Claimable(member common.Address) *big.Int

	// MemberRate returns the member's current share of the distribution
	// rate, truncated toward zero.
	MemberRate(member common.Address) int64

	// TotalUnits returns the sum of all member units.
	TotalUnits() uint64
}
