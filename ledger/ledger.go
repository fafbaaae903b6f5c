package ledger

import (
	"math/big"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
	"github.com/flowsplit/flowsplit/common/util"
	exec "github.com/flowsplit/flowsplit/ledger/execution"
	st "github.com/flowsplit/flowsplit/ledger/state"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/pool"
	"github.com/flowsplit/flowsplit/store/database"
)

var logger = util.GetLoggerForModule("ledger")

// Allocator is one instance of the streaming budget allocator: a recipient
// registry, a per-token vote ledger and a flow-rate distributor over three
// weighted distribution pools. Recipients of kind NestedAllocator are
// themselves Allocator instances deployed by this one.
//
// Every public entry point runs to completion and is guarded against
// reentrant invocation: a call arriving while another transition on the
// same instance is in flight is rejected with CodeReentrantCall. Calls into
// child allocators are one-directional (parent to child), so the guard of
// the child never blocks the parent.
type Allocator struct {
	addr     common.Address
	state    *st.AllocatorState
	executor *exec.Executor

	engine   pool.Engine
	baseline pool.Pool
	bonus    pool.Pool
	reward   pool.Pool

	voteAuth exec.VoteAuthorizer

	parent   *Allocator
	children map[common.Address]*Allocator

	busy int32
}

// Config carries everything needed to create (or reopen) a root allocator.
type Config struct {
	Addr    common.Address
	Owner   common.Address
	Curator common.Address
	Manager common.Address

	// Initial rate split percentages, fixed-point with types.Scale == 100%.
	BaselinePct      uint32
	ManagerRewardPct uint32

	DB       database.Database
	Engine   pool.Engine
	VoteAuth exec.VoteAuthorizer
}

// NewAllocator creates a root allocator, or reopens one previously persisted
// under the same address in the same database. Reopening restores the
// recipient units, the rate split and the whole child allocator tree.
func NewAllocator(cfg Config) (*Allocator, error) {
	if cfg.Addr.IsZero() {
		return nil, errors.New("allocator address must not be zero")
	}
	if cfg.Owner.IsZero() {
		return nil, errors.New("allocator owner must not be zero")
	}
	if res := types.ValidatePercentages(cfg.BaselinePct, cfg.ManagerRewardPct); res.IsError() {
		return nil, errors.New(res.Message)
	}

	state := st.NewAllocatorState(cfg.Addr, cfg.DB)
	reopened := state.Initialized()
	state.Initialize(types.AllocatorParams{
		Owner:   cfg.Owner,
		Curator: cfg.Curator,
		Manager: cfg.Manager,
	})

	a, err := build(state, cfg.Engine, cfg.VoteAuth, nil)
	if err != nil {
		return nil, err
	}

	if !reopened {
		split := a.state.View().GetRateSplit()
		split.BaselinePct = cfg.BaselinePct
		split.ManagerRewardPct = cfg.ManagerRewardPct
		split.Recompute()
		a.state.View().SetRateSplit(split)
	}

	if err := a.rehydrate(); err != nil {
		return nil, err
	}
	return a, nil
}

// build assembles an allocator around already-initialized instance state.
func build(state *st.AllocatorState, engine pool.Engine, voteAuth exec.VoteAuthorizer, parent *Allocator) (*Allocator, error) {
	params := state.Params()

	baseline, err := engine.CreatePool(params.Addr)
	if err != nil {
		return nil, errors.Wrap(err, "create baseline pool")
	}
	bonus, err := engine.CreatePool(params.Addr)
	if err != nil {
		return nil, errors.Wrap(err, "create bonus pool")
	}
	reward, err := engine.CreatePool(params.Addr)
	if err != nil {
		return nil, errors.Wrap(err, "create manager reward pool")
	}
	if !params.Manager.IsZero() {
		// The manager reward budget flows through a single-member pool.
		if err := reward.SetMemberUnits(params.Manager, 1); err != nil {
			return nil, errors.Wrap(err, "seed manager reward pool")
		}
	}

	a := &Allocator{
		addr:     params.Addr,
		state:    state,
		engine:   engine,
		baseline: baseline,
		bonus:    bonus,
		reward:   reward,
		voteAuth: voteAuth,
		parent:   parent,
		children: make(map[common.Address]*Allocator),
	}
	a.executor = exec.NewExecutor(state, baseline, bonus, reward, a, voteAuth)
	return a, nil
}

// rehydrate replays persisted units, rates and the child tree into the
// freshly created pools after a reopen.
func (a *Allocator) rehydrate() error {
	view := a.state.View()

	var pushErr error
	view.ForEachRecipient(func(r *types.Recipient) bool {
		if r.Removed {
			return true
		}
		if err := a.baseline.SetMemberUnits(r.Address, r.BaselineUnits); err != nil {
			pushErr = err
			return false
		}
		if err := a.bonus.SetMemberUnits(r.Address, r.BonusUnits); err != nil {
			pushErr = err
			return false
		}
		return true
	})
	if pushErr != nil {
		return errors.Wrap(pushErr, "restore recipient units")
	}

	split := view.GetRateSplit()
	if err := a.baseline.SetDistributionRate(split.BaselineRate); err != nil {
		return errors.Wrap(err, "restore baseline rate")
	}
	if err := a.bonus.SetDistributionRate(split.BonusRate); err != nil {
		return errors.Wrap(err, "restore bonus rate")
	}
	if err := a.reward.SetDistributionRate(split.ManagerRewardRate); err != nil {
		return errors.Wrap(err, "restore manager reward rate")
	}

	for _, childAddr := range view.GetChildSet().Addrs {
		childState := st.NewAllocatorState(childAddr, a.state.DB())
		if !childState.Initialized() {
			return errors.Errorf("child allocator %v has no persisted state", childAddr.Hex())
		}
		child, err := build(childState, a.engine, a.voteAuth, a)
		if err != nil {
			return errors.Wrapf(err, "rebuild child allocator %v", childAddr.Hex())
		}
		if err := child.rehydrate(); err != nil {
			return err
		}
		a.children[childAddr] = child
	}
	return nil
}

// Addr returns the address of this allocator instance.
func (a *Allocator) Addr() common.Address {
	return a.addr
}

// Params returns the role parameters of this instance.
func (a *Allocator) Params() types.AllocatorParams {
	return a.state.Params()
}

// Child returns the child allocator deployed at the given address, nil if
// unknown.
func (a *Allocator) Child(addr common.Address) *Allocator {
	return a.children[addr]
}

// enter marks a transition in flight. It fails instead of blocking: unit
// bookkeeping is not safe under nested mutation of the same ledger, and the
// host is expected to serialize calls, so an overlapping call is an error.
func (a *Allocator) enter() result.Result {
	if !atomic.CompareAndSwapInt32(&a.busy, 0, 1) {
		return result.Error("allocator %v is already executing a transition", a.addr.Hex()).
			WithErrorCode(result.CodeReentrantCall)
	}
	return result.OK
}

func (a *Allocator) exit() {
	atomic.StoreInt32(&a.busy, 0)
}

// AddRecipient registers a new approved recipient and grants it the flat
// baseline units. For a nested allocator recipient the flow factory deploys
// the child synchronously and the returned recipient carries its address.
func (a *Allocator) AddRecipient(caller common.Address, target common.Address,
	kind types.RecipientKind, metadata types.RecipientMetadata,
	childManager common.Address) (common.Hash, result.Result) {

	if res := a.enter(); res.IsError() {
		return common.Hash{}, res
	}
	defer a.exit()

	id, res := a.executor.ExecuteTx(&types.AddRecipientTx{
		Caller:       caller,
		Address:      target,
		Kind:         kind,
		Metadata:     metadata,
		ChildManager: childManager,
	})
	if res.IsOK() {
		a.syncChildRates()
	}
	return id, res
}

// RemoveRecipient tombstones a recipient and zeroes its pool units. Stale
// vote allocations naming it become inert.
func (a *Allocator) RemoveRecipient(caller common.Address, id common.Hash) result.Result {
	if res := a.enter(); res.IsError() {
		return res
	}
	defer a.exit()

	_, res := a.executor.ExecuteTx(&types.RemoveRecipientTx{
		Caller: caller,
		ID:     id,
	})
	if res.IsOK() {
		a.syncChildRates()
	}
	return res
}

// CastVote records or overwrites the allocation of a voting token. The vote
// weight is captured now and stays attached to the token until the next
// cast, even if the token changes owner.
func (a *Allocator) CastVote(caller common.Address, tokenID uint64, tokenOwner common.Address,
	weight uint64, allocations []types.ShareAllocation) result.Result {

	if res := a.enter(); res.IsError() {
		return res
	}
	defer a.exit()

	_, res := a.executor.ExecuteTx(&types.CastVoteTx{
		Caller:      caller,
		TokenID:     tokenID,
		TokenOwner:  tokenOwner,
		Weight:      weight,
		Allocations: allocations,
	})
	if res.IsOK() {
		a.syncChildRates()
	}
	return res
}

// SetTotalRate updates the total distribution rate and pushes the
// recomputed split to the pools and to every nested child.
func (a *Allocator) SetTotalRate(caller common.Address, newRate int64) result.Result {
	return a.setTotalRate(caller, newRate, false)
}

func (a *Allocator) setTotalRate(caller common.Address, newRate int64, fromParent bool) result.Result {
	if res := a.enter(); res.IsError() {
		return res
	}
	defer a.exit()

	_, res := a.executor.ExecuteTx(&types.SetTotalRateTx{
		Caller:     caller,
		NewRate:    newRate,
		FromParent: fromParent,
	})
	if res.IsOK() {
		a.syncChildRates()
	}
	return res
}

// SetRatePercentages updates the baseline and manager reward shares and
// recomputes the split against the current total rate.
func (a *Allocator) SetRatePercentages(caller common.Address, baselinePct, managerRewardPct uint32) result.Result {
	if res := a.enter(); res.IsError() {
		return res
	}
	defer a.exit()

	_, res := a.executor.ExecuteTx(&types.SetRatePercentagesTx{
		Caller:           caller,
		BaselinePct:      baselinePct,
		ManagerRewardPct: managerRewardPct,
	})
	if res.IsOK() {
		a.syncChildRates()
	}
	return res
}

// syncChildRates pushes the current inbound rate of every nested allocator
// recipient down to its child. A child's internal split does not track the
// rate arriving at its pool membership by itself, so the parent re-triggers
// it after every operation that may have changed pool rates or member
// units. Called with the guard held.
func (a *Allocator) syncChildRates() {
	if len(a.children) == 0 {
		return
	}

	view := a.state.View()
	view.ForEachRecipient(func(r *types.Recipient) bool {
		if r.Kind != types.KindNestedAllocator || r.Removed {
			return true
		}
		child, ok := a.children[r.Address]
		if !ok {
			logger.Panicf("Nested recipient %v has no child allocator", r.Address.Hex())
		}
		inbound := a.baseline.MemberRate(r.Address) + a.bonus.MemberRate(r.Address)
		if res := child.setTotalRate(a.addr, inbound, true); res.IsError() {
			logger.Panicf("Failed to propagate rate to child %v: %v", r.Address.Hex(), res)
		}
		return true
	})
}

// Recipient returns the recipient with the given id, nil if unknown.
func (a *Allocator) Recipient(id common.Hash) *types.Recipient {
	return a.state.View().GetRecipient(id)
}

// Recipients returns all recipients in registration order, including
// tombstoned ones.
func (a *Allocator) Recipients() []*types.Recipient {
	recipients := []*types.Recipient{}
	a.state.View().ForEachRecipient(func(r *types.Recipient) bool {
		recipients = append(recipients, r)
		return true
	})
	return recipients
}

// ActiveRecipientCount returns the number of approved, non-removed
// recipients.
func (a *Allocator) ActiveRecipientCount() uint64 {
	return a.state.View().GetRegistryMeta().ActiveCount
}

// Allocation returns the current allocation of the voting token, nil if the
// token never voted.
func (a *Allocator) Allocation(tokenID uint64) *types.VoterAllocation {
	return a.state.View().GetAllocation(tokenID)
}

// RateSplit returns the current flow-rate split.
func (a *Allocator) RateSplit() types.RateSplit {
	return *a.state.View().GetRateSplit()
}

// Claimable returns the total amount the address has accrued across the
// baseline, bonus and manager reward pools of this instance.
func (a *Allocator) Claimable(addr common.Address) *big.Int {
	total := new(big.Int)
	total.Add(total, a.baseline.Claimable(addr))
	total.Add(total, a.bonus.Claimable(addr))
	total.Add(total, a.reward.Claimable(addr))
	return total
}
