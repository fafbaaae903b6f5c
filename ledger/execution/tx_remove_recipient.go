package execution

import (
	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
	st "github.com/flowsplit/flowsplit/ledger/state"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
)

var _ TxExecutor = (*RemoveRecipientTxExecutor)(nil)

// ------------------------------- RemoveRecipient Transaction -----------------------------------

// RemoveRecipientTxExecutor implements the TxExecutor interface
type RemoveRecipientTxExecutor struct {
	state    *st.AllocatorState
	baseline pool.Pool
	bonus    pool.Pool
}

// NewRemoveRecipientTxExecutor creates a new instance of RemoveRecipientTxExecutor
func NewRemoveRecipientTxExecutor(state *st.AllocatorState, baseline, bonus pool.Pool) *RemoveRecipientTxExecutor {
	return &RemoveRecipientTxExecutor{
		state:    state,
		baseline: baseline,
		bonus:    bonus,
	}
}

func (exec *RemoveRecipientTxExecutor) sanityCheck(view *st.StoreView, transaction types.Tx) result.Result {
	tx := transaction.(*types.RemoveRecipientTx)

	params := exec.state.Params()
	if !params.CanCurate(tx.Caller) {
		return result.Error("caller %v is neither the curation authority nor the owner",
			tx.Caller.Hex()).WithErrorCode(result.CodeUnauthorized)
	}

	recipient := view.GetRecipient(tx.ID)
	if recipient == nil || recipient.Removed {
		return result.Error("no active recipient with id %v", tx.ID.Hex()).
			WithErrorCode(result.CodeUnknownRecipient)
	}

	return result.OK
}

// process tombstones the recipient. Vote allocations that still name it are
// deliberately left untouched: scanning every token would make removal
// O(tokens). They become inert, and the clamped reversal in the cast vote
// path reconciles them the next time their voter re-votes.
func (exec *RemoveRecipientTxExecutor) process(view *st.StoreView, transaction types.Tx) (common.Hash, result.Result) {
	tx := transaction.(*types.RemoveRecipientTx)

	recipient := view.GetRecipient(tx.ID)

	recipient.Removed = true
	recipient.BaselineUnits = 0
	recipient.BonusUnits = 0
	view.SetRecipient(recipient)
	view.DeleteRecipientAddressIndex(recipient.Address)

	meta := view.GetRegistryMeta()
	meta.ActiveCount--
	view.SetRegistryMeta(meta)

	if err := exec.baseline.SetMemberUnits(recipient.Address, 0); err != nil {
		logger.Panicf("Failed to zero baseline units of %v: %v", recipient.Address.Hex(), err)
	}
	if err := exec.bonus.SetMemberUnits(recipient.Address, 0); err != nil {
		logger.Panicf("Failed to zero bonus units of %v: %v", recipient.Address.Hex(), err)
	}

	return tx.ID, result.OK
}
