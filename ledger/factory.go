package ledger

import (
	"github.com/pkg/errors"

	"github.com/flowsplit/flowsplit/common"
	st "github.com/flowsplit/flowsplit/ledger/state"
	"github.com/flowsplit/flowsplit/ledger/types"
)

// DeployNested instantiates a child allocator for a nested-allocator
// recipient and wires it into this instance's child tree. The child gets
// this instance's owner and curator, the supplied manager, and starts from
// the parent's current split percentages with a zero total rate; the parent
// pushes the real inbound rate right after registration.
//
// Called by the add-recipient executor while the parent's guard is held;
// it must not re-enter the parent.
func (a *Allocator) DeployNested(recipientID common.Hash, metadata types.RecipientMetadata,
	manager common.Address) (common.Address, error) {

	parentParams := a.state.Params()
	childAddr := types.ChildAllocatorAddress(a.addr, recipientID)
	if childAddr.IsZero() {
		return common.Address{}, errors.New("derived child address is zero")
	}
	if _, exists := a.children[childAddr]; exists {
		return common.Address{}, errors.Errorf("child allocator %v already deployed", childAddr.Hex())
	}

	childState := st.NewAllocatorState(childAddr, a.state.DB())
	if childState.Initialized() {
		return common.Address{}, errors.Errorf("state namespace of %v is already in use", childAddr.Hex())
	}
	childState.Initialize(types.AllocatorParams{
		Owner:   parentParams.Owner,
		Curator: parentParams.Curator,
		Manager: manager,
		Parent:  a.addr,
	})

	child, err := build(childState, a.engine, a.voteAuth, a)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "build child allocator")
	}

	parentSplit := a.state.View().GetRateSplit()
	childSplit := child.state.View().GetRateSplit()
	childSplit.BaselinePct = parentSplit.BaselinePct
	childSplit.ManagerRewardPct = parentSplit.ManagerRewardPct
	childSplit.Recompute()
	child.state.View().SetRateSplit(childSplit)

	a.children[childAddr] = child
	a.state.View().AddChild(childAddr)

	logger.WithFields(map[string]interface{}{
		"parent": a.addr.Hex(),
		"child":  childAddr.Hex(),
		"title":  metadata.Title,
	}).Info("Deployed nested allocator")

	return childAddr, nil
}
