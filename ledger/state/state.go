package state

import (
	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/store/database"
)

//
// ------------------------- Allocator State -------------------------
//

// AllocatorState owns the persisted state of a single allocator instance.
// No two instances ever share a view; cross-instance effects happen only
// through explicit calls between allocators.
type AllocatorState struct {
	addr common.Address
	db   database.Database
	view *StoreView
}

// NewAllocatorState creates the state handle for the instance with the
// given address, backed by the given database.
func NewAllocatorState(addr common.Address, db database.Database) *AllocatorState {
	return &AllocatorState{
		addr: addr,
		db:   db,
		view: NewStoreView(addr, db),
	}
}

// Addr returns the address of the owning allocator instance.
func (s *AllocatorState) Addr() common.Address {
	return s.addr
}

// View returns the typed store view.
func (s *AllocatorState) View() *StoreView {
	return s.view
}

// DB returns the underlying database, used to hand child allocators their
// own namespaced views.
func (s *AllocatorState) DB() database.Database {
	return s.db
}

// Initialized reports whether the instance parameters have been written.
func (s *AllocatorState) Initialized() bool {
	return s.view.GetParams() != nil
}

// Initialize writes the role parameters of a fresh instance. Re-initializing
// an existing instance is a no-op so that restarts preserve state.
func (s *AllocatorState) Initialize(params types.AllocatorParams) {
	if s.Initialized() {
		return
	}
	params.Addr = s.addr
	s.view.SetParams(&params)
}

// Params returns the instance role parameters. It panics if the instance
// was never initialized, which is a wiring bug, not a runtime condition.
func (s *AllocatorState) Params() types.AllocatorParams {
	params := s.view.GetParams()
	if params == nil {
		panic("allocator state used before initialization")
	}
	return *params
}
