package execution

import (
	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
	st "github.com/flowsplit/flowsplit/ledger/state"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
)

//
// TxExecutor defines the interface of the transaction executors. sanityCheck
// validates and authorizes without touching state; process applies the
// transition. A transaction that fails sanityCheck leaves no trace.
//
type TxExecutor interface {
	sanityCheck(view *st.StoreView, transaction types.Tx) result.Result
	process(view *st.StoreView, transaction types.Tx) (common.Hash, result.Result)
}

// Deployer instantiates a child allocator for a nested-allocator recipient.
// Implemented by the owning allocator's flow factory.
type Deployer interface {
	DeployNested(recipientID common.Hash, metadata types.RecipientMetadata, manager common.Address) (common.Address, error)
}

// VoteAuthorizer decides whether a caller may vote with a given token. The
// proof verification behind it is an external capability; a false result is
// surfaced as CodeNotAuthorizedForToken.
type VoteAuthorizer interface {
	CanVoteWithToken(tokenID uint64, owner common.Address, caller common.Address) bool
}

//
// Executor executes the allocator transactions
//
type Executor struct {
	state *st.AllocatorState

	addRecipientTxExec       *AddRecipientTxExecutor
	removeRecipientTxExec    *RemoveRecipientTxExecutor
	castVoteTxExec           *CastVoteTxExecutor
	setTotalRateTxExec       *SetTotalRateTxExecutor
	setRatePercentagesTxExec *SetRatePercentagesTxExecutor
}

// NewExecutor creates a new instance of Executor wired to the instance
// state, the three distribution pools, the flow factory and the vote
// authorization capability.
func NewExecutor(state *st.AllocatorState, baseline, bonus, reward pool.Pool,
	deployer Deployer, voteAuth VoteAuthorizer) *Executor {
	return &Executor{
		state:                    state,
		addRecipientTxExec:       NewAddRecipientTxExecutor(state, baseline, deployer),
		removeRecipientTxExec:    NewRemoveRecipientTxExecutor(state, baseline, bonus),
		castVoteTxExec:           NewCastVoteTxExecutor(state, bonus, voteAuth),
		setTotalRateTxExec:       NewSetTotalRateTxExecutor(state, baseline, bonus, reward),
		setRatePercentagesTxExec: NewSetRatePercentagesTxExecutor(state, baseline, bonus, reward),
	}
}

// ExecuteTx validates and, if valid, applies the transaction. All
// validation and authorization happens before the first state write, so a
// non-OK result always means nothing was committed.
func (exec *Executor) ExecuteTx(tx types.Tx) (common.Hash, result.Result) {
	view := exec.state.View()

	txExecutor := exec.getTxExecutor(tx)
	if txExecutor == nil {
		return common.Hash{}, result.Error("unknown tx type")
	}

	sanityCheckResult := txExecutor.sanityCheck(view, tx)
	if sanityCheckResult.IsError() {
		return common.Hash{}, sanityCheckResult
	}

	return txExecutor.process(view, tx)
}

func (exec *Executor) getTxExecutor(tx types.Tx) TxExecutor {
	var txExecutor TxExecutor
	switch tx.(type) {
	case *types.AddRecipientTx:
		txExecutor = exec.addRecipientTxExec
	case *types.RemoveRecipientTx:
		txExecutor = exec.removeRecipientTxExec
	case *types.CastVoteTx:
		txExecutor = exec.castVoteTxExec
	case *types.SetTotalRateTx:
		txExecutor = exec.setTotalRateTxExec
	case *types.SetRatePercentagesTx:
		txExecutor = exec.setRatePercentagesTxExec
	default:
		txExecutor = nil
	}
	return txExecutor
}
