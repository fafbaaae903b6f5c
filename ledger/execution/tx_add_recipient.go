package execution

import (
	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
	st "github.com/flowsplit/flowsplit/ledger/state"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
)

var _ TxExecutor = (*AddRecipientTxExecutor)(nil)

// ------------------------------- AddRecipient Transaction -----------------------------------

// AddRecipientTxExecutor implements the TxExecutor interface
type AddRecipientTxExecutor struct {
	state    *st.AllocatorState
	baseline pool.Pool
	deployer Deployer
}

// NewAddRecipientTxExecutor creates a new instance of AddRecipientTxExecutor
func NewAddRecipientTxExecutor(state *st.AllocatorState, baseline pool.Pool, deployer Deployer) *AddRecipientTxExecutor {
	return &AddRecipientTxExecutor{
		state:    state,
		baseline: baseline,
		deployer: deployer,
	}
}

func (exec *AddRecipientTxExecutor) sanityCheck(view *st.StoreView, transaction types.Tx) result.Result {
	tx := transaction.(*types.AddRecipientTx)

	params := exec.state.Params()
	if !params.CanCurate(tx.Caller) {
		return result.Error("caller %v is neither the curation authority nor the owner",
			tx.Caller.Hex()).WithErrorCode(result.CodeUnauthorized)
	}

	if res := tx.Metadata.Validate(); res.IsError() {
		return res
	}

	switch tx.Kind {
	case types.KindExternalAccount:
		if tx.Address.IsZero() {
			return result.Error("an external account recipient requires a target address").
				WithErrorCode(result.CodeInvalidRecipientType)
		}
	case types.KindNestedAllocator:
		if !tx.Address.IsZero() {
			return result.Error("a nested allocator recipient must not carry an address, the factory assigns one").
				WithErrorCode(result.CodeInvalidRecipientType)
		}
	default:
		return result.Error("recipient kind must be set").
			WithErrorCode(result.CodeInvalidRecipientType)
	}

	if tx.Kind == types.KindExternalAccount {
		if _, exists := view.RecipientIDByAddress(tx.Address); exists {
			return result.Error("address %v already has an active recipient", tx.Address.Hex()).
				WithErrorCode(result.CodeDuplicateRecipient)
		}
	}

	return result.OK
}

func (exec *AddRecipientTxExecutor) process(view *st.StoreView, transaction types.Tx) (common.Hash, result.Result) {
	tx := transaction.(*types.AddRecipientTx)

	params := exec.state.Params()
	meta := view.GetRegistryMeta()

	var id common.Hash
	var target common.Address

	switch tx.Kind {
	case types.KindExternalAccount:
		id = types.RecipientIDForAddress(tx.Address, meta.TotalCount)
		target = tx.Address
	case types.KindNestedAllocator:
		id = types.RecipientIDForNested(params.Addr, meta.TotalCount)

		// The factory runs synchronously: the recipient only becomes
		// visible with its child address already resolved.
		childAddr, err := exec.deployer.DeployNested(id, tx.Metadata, tx.ChildManager)
		if err != nil {
			return common.Hash{}, result.Error("child allocator deployment failed: %v", err)
		}
		if childAddr.IsZero() {
			return common.Hash{}, result.Error("child allocator deployment yielded the zero address").
				WithErrorCode(result.CodeAddressZero)
		}
		target = childAddr
	}

	recipient := &types.Recipient{
		ID:            id,
		Address:       target,
		Kind:          tx.Kind,
		Metadata:      tx.Metadata,
		BaselineUnits: types.BaselineUnits,
	}
	view.SetRecipient(recipient)
	view.AppendRecipientIndex(id)
	view.SetRecipientAddressIndex(target, id)

	meta.ActiveCount++
	meta.TotalCount++
	view.SetRegistryMeta(meta)

	if err := exec.baseline.SetMemberUnits(target, types.BaselineUnits); err != nil {
		logger.Panicf("Failed to grant baseline units to %v: %v", target.Hex(), err)
	}

	return id, result.OK
}
