package execution

import (
	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
	st "github.com/flowsplit/flowsplit/ledger/state"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
)

var _ TxExecutor = (*CastVoteTxExecutor)(nil)

// ------------------------------- CastVote Transaction -----------------------------------

// CastVoteTxExecutor implements the TxExecutor interface
type CastVoteTxExecutor struct {
	state    *st.AllocatorState
	bonus    pool.Pool
	voteAuth VoteAuthorizer
}

// NewCastVoteTxExecutor creates a new instance of CastVoteTxExecutor
func NewCastVoteTxExecutor(state *st.AllocatorState, bonus pool.Pool, voteAuth VoteAuthorizer) *CastVoteTxExecutor {
	return &CastVoteTxExecutor{
		state:    state,
		bonus:    bonus,
		voteAuth: voteAuth,
	}
}

func (exec *CastVoteTxExecutor) sanityCheck(view *st.StoreView, transaction types.Tx) result.Result {
	tx := transaction.(*types.CastVoteTx)

	if res := types.ValidateShares(tx.Allocations); res.IsError() {
		return res
	}

	seen := make(map[common.Hash]struct{}, len(tx.Allocations))
	for _, alloc := range tx.Allocations {
		if _, ok := seen[alloc.RecipientID]; ok {
			return result.Error("recipient %v named twice in one allocation", alloc.RecipientID.Hex())
		}
		seen[alloc.RecipientID] = struct{}{}

		recipient := view.GetRecipient(alloc.RecipientID)
		if recipient == nil || recipient.Removed {
			return result.Error("recipient %v is not an approved recipient", alloc.RecipientID.Hex()).
				WithErrorCode(result.CodeNotApprovedRecipient)
		}
		if recipient.Address.IsZero() {
			return result.Error("recipient %v has no resolved address", alloc.RecipientID.Hex()).
				WithErrorCode(result.CodeAddressZero)
		}
	}

	if !exec.voteAuth.CanVoteWithToken(tx.TokenID, tx.TokenOwner, tx.Caller) {
		return result.Error("caller %v may not vote with token %v", tx.Caller.Hex(), tx.TokenID).
			WithErrorCode(result.CodeNotAuthorizedForToken)
	}

	return result.OK
}

func (exec *CastVoteTxExecutor) process(view *st.StoreView, transaction types.Tx) (common.Hash, result.Result) {
	tx := transaction.(*types.CastVoteTx)

	// Reverse the token's previous allocation before applying the new one,
	// so the voter's full weight moves with the re-vote. Units are clamped
	// at zero per recipient: a removed recipient's bonus units were already
	// zeroed by the registry, and its inert entries must not underflow.
	prior := view.GetAllocation(tx.TokenID)
	if prior != nil {
		for _, entry := range prior.Entries {
			recipient := view.GetRecipient(entry.RecipientID)
			if recipient == nil {
				logger.Panicf("Allocation of token %v names recipient %v with no record",
					tx.TokenID, entry.RecipientID.Hex())
			}
			sub := entry.UnitsGranted
			if sub > recipient.BonusUnits {
				sub = recipient.BonusUnits
			}
			if sub == 0 {
				continue
			}
			recipient.BonusUnits -= sub
			view.SetRecipient(recipient)
			exec.pushBonusUnits(recipient)
		}
	}

	entries := make([]types.VoteEntry, 0, len(tx.Allocations))
	for _, alloc := range tx.Allocations {
		units := types.VoteUnits(tx.Weight, alloc.ShareBps)

		recipient := view.GetRecipient(alloc.RecipientID)
		recipient.BonusUnits += units
		view.SetRecipient(recipient)
		exec.pushBonusUnits(recipient)

		entries = append(entries, types.VoteEntry{
			RecipientID:  alloc.RecipientID,
			ShareBps:     alloc.ShareBps,
			UnitsGranted: units,
		})
	}

	view.SetAllocation(&types.VoterAllocation{
		TokenID: tx.TokenID,
		Caster:  tx.Caller,
		Weight:  tx.Weight,
		Entries: entries,
	})

	return common.Hash{}, result.OK
}

// pushBonusUnits propagates a recipient's bonus unit count to the bonus
// distribution pool. Removed recipients are skipped: the pool member was
// already zeroed when the registry tombstoned them.
func (exec *CastVoteTxExecutor) pushBonusUnits(recipient *types.Recipient) {
	if recipient.Removed {
		return
	}
	if err := exec.bonus.SetMemberUnits(recipient.Address, recipient.BonusUnits); err != nil {
		logger.Panicf("Failed to set bonus units of %v: %v", recipient.Address.Hex(), err)
	}
}
