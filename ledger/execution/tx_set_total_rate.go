package execution

import (
	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
	st "github.com/flowsplit/flowsplit/ledger/state"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
)

var _ TxExecutor = (*SetTotalRateTxExecutor)(nil)

// ------------------------------- SetTotalRate Transaction -----------------------------------

// SetTotalRateTxExecutor implements the TxExecutor interface
type SetTotalRateTxExecutor struct {
	state    *st.AllocatorState
	baseline pool.Pool
	bonus    pool.Pool
	reward   pool.Pool
}

// NewSetTotalRateTxExecutor creates a new instance of SetTotalRateTxExecutor
func NewSetTotalRateTxExecutor(state *st.AllocatorState, baseline, bonus, reward pool.Pool) *SetTotalRateTxExecutor {
	return &SetTotalRateTxExecutor{
		state:    state,
		baseline: baseline,
		bonus:    bonus,
		reward:   reward,
	}
}

func (exec *SetTotalRateTxExecutor) sanityCheck(view *st.StoreView, transaction types.Tx) result.Result {
	tx := transaction.(*types.SetTotalRateTx)

	params := exec.state.Params()
	if tx.FromParent {
		if !params.IsParent(tx.Caller) {
			return result.Error("caller %v is not the registered parent allocator", tx.Caller.Hex()).
				WithErrorCode(result.CodeUnauthorized)
		}
	} else if !params.CanManageRates(tx.Caller) {
		return result.Error("caller %v is neither the manager nor the owner", tx.Caller.Hex()).
			WithErrorCode(result.CodeUnauthorized)
	}

	return result.OK
}

func (exec *SetTotalRateTxExecutor) process(view *st.StoreView, transaction types.Tx) (common.Hash, result.Result) {
	tx := transaction.(*types.SetTotalRateTx)

	split := view.GetRateSplit()
	split.TotalRate = tx.NewRate
	split.Recompute()
	view.SetRateSplit(split)

	pushRates(split, exec.baseline, exec.bonus, exec.reward)

	return common.Hash{}, result.OK
}

// pushRates propagates a recomputed split to the three distribution pools.
func pushRates(split *types.RateSplit, baseline, bonus, reward pool.Pool) {
	if err := baseline.SetDistributionRate(split.BaselineRate); err != nil {
		logger.Panicf("Failed to set baseline rate: %v", err)
	}
	if err := bonus.SetDistributionRate(split.BonusRate); err != nil {
		logger.Panicf("Failed to set bonus rate: %v", err)
	}
	if err := reward.SetDistributionRate(split.ManagerRewardRate); err != nil {
		logger.Panicf("Failed to set manager reward rate: %v", err)
	}
}
