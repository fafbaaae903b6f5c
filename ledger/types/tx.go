package types

import (
	"fmt"

	"github.com/flowsplit/flowsplit/common"
)

// Tx is a state transition request submitted to an allocator. Each concrete
// type is handled by its own executor.
type Tx interface {
	isTx()
}

// AddRecipientTx registers a new approved recipient. For an external account
// the target address must be set; for a nested allocator it must be zero and
// the flow factory resolves it during processing.
type AddRecipientTx struct {
	Caller   common.Address
	Address  common.Address
	Kind     RecipientKind
	Metadata RecipientMetadata

	// ChildManager is the manager of the deployed child when Kind is
	// KindNestedAllocator.
	ChildManager common.Address
}

// RemoveRecipientTx tombstones an approved recipient and zeroes its pool
// units. Existing vote allocations naming the recipient are left in place
// and become inert.
type RemoveRecipientTx struct {
	Caller common.Address
	ID     common.Hash
}

// CastVoteTx records (or overwrites) the allocation of a voting token.
type CastVoteTx struct {
	Caller      common.Address
	TokenID     uint64
	TokenOwner  common.Address
	Weight      uint64
	Allocations []ShareAllocation
}

// SetTotalRateTx updates the total distribution rate and recomputes the
// budget split.
type SetTotalRateTx struct {
	Caller  common.Address
	NewRate int64

	// FromParent marks the rate propagation call a parent allocator issues
	// to a nested child. It is authorized against the registered parent
	// instead of the manager.
	FromParent bool
}

// SetRatePercentagesTx updates the baseline and manager reward shares and
// recomputes the budget split against the current total rate.
type SetRatePercentagesTx struct {
	Caller           common.Address
	BaselinePct      uint32
	ManagerRewardPct uint32
}

func (tx *AddRecipientTx) isTx()       {}
func (tx *RemoveRecipientTx) isTx()    {}
func (tx *CastVoteTx) isTx()           {}
func (tx *SetTotalRateTx) isTx()       {}
func (tx *SetRatePercentagesTx) isTx() {}

func (tx *AddRecipientTx) String() string {
	return fmt.Sprintf("AddRecipientTx{%v %v %v}", tx.Kind, tx.Address.Hex(), tx.Metadata.Title)
}

func (tx *RemoveRecipientTx) String() string {
	return fmt.Sprintf("RemoveRecipientTx{%v}", tx.ID.Hex())
}

func (tx *CastVoteTx) String() string {
	return fmt.Sprintf("CastVoteTx{token:%v weight:%v entries:%v}", tx.TokenID, tx.Weight, len(tx.Allocations))
}

func (tx *SetTotalRateTx) String() string {
	return fmt.Sprintf("SetTotalRateTx{rate:%v fromParent:%v}", tx.NewRate, tx.FromParent)
}

func (tx *SetRatePercentagesTx) String() string {
	return fmt.Sprintf("SetRatePercentagesTx{baseline:%v managerReward:%v}", tx.BaselinePct, tx.ManagerRewardPct)
}
