package execution

import (
	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
	st "github.com/flowsplit/flowsplit/ledger/state"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
)

var _ TxExecutor = (*SetRatePercentagesTxExecutor)(nil)

// ------------------------------- SetRatePercentages Transaction -----------------------------------

// SetRatePercentagesTxExecutor implements the TxExecutor interface
type SetRatePercentagesTxExecutor struct {
	state    *st.AllocatorState
	baseline pool.Pool
	bonus    pool.Pool
	reward   pool.Pool
}

// NewSetRatePercentagesTxExecutor creates a new instance of SetRatePercentagesTxExecutor
func NewSetRatePercentagesTxExecutor(state *st.AllocatorState, baseline, bonus, reward pool.Pool) *SetRatePercentagesTxExecutor {
	return &SetRatePercentagesTxExecutor{
		state:    state,
		baseline: baseline,
		bonus:    bonus,
		reward:   reward,
	}
}

func (exec *SetRatePercentagesTxExecutor) sanityCheck(view *st.StoreView, transaction types.Tx) result.Result {
	tx := transaction.(*types.SetRatePercentagesTx)

	params := exec.state.Params()
	if !params.CanManageRates(tx.Caller) {
		return result.Error("caller %v is neither the manager nor the owner", tx.Caller.Hex()).
			WithErrorCode(result.CodeUnauthorized)
	}

	return types.ValidatePercentages(tx.BaselinePct, tx.ManagerRewardPct)
}

func (exec *SetRatePercentagesTxExecutor) process(view *st.StoreView, transaction types.Tx) (common.Hash, result.Result) {
	tx := transaction.(*types.SetRatePercentagesTx)

	split := view.GetRateSplit()
	split.BaselinePct = tx.BaselinePct
	split.ManagerRewardPct = tx.ManagerRewardPct
	split.Recompute()
	view.SetRateSplit(split)

	pushRates(split, exec.baseline, exec.bonus, exec.reward)

	return common.Hash{}, result.OK
}
