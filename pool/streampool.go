package pool

import (
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/flowsplit/flowsplit/common"
)

// StreamEngine is an in-process implementation of the weighted pool
// abstraction. Member balances are settled lazily: every unit or rate
// mutation first credits each member with its share of the value streamed
// since the previous mutation, so Claimable is exact at any point between
// mutations.
type StreamEngine struct {
	now func() time.Time
}

// NewStreamEngine creates a stream engine with the given clock. A nil clock
// defaults to time.Now.
func NewStreamEngine(now func() time.Time) *StreamEngine {
	if now == nil {
		now = time.Now
	}
	return &StreamEngine{now: now}
}

// CreatePool creates an empty pool owned by the given address.
func (e *StreamEngine) CreatePool(owner common.Address) (Pool, error) {
	if owner.IsZero() {
		return nil, errors.New("pool owner must not be the zero address")
	}
	return &streamPool{
		owner:      owner,
		now:        e.now,
		members:    make(map[common.Address]*poolMember),
		lastSettle: e.now(),
	}, nil
}

type poolMember struct {
	units     uint64
	claimable *big.Int
}

type streamPool struct {
	owner common.Address
	now   func() time.Time

	mu         sync.Mutex
	rate       int64
	totalUnits uint64
	members    map[common.Address]*poolMember
	lastSettle time.Time
}

var nanosPerSecond = big.NewInt(int64(time.Second))

// settle credits every member with its share of the value streamed since
// the last settlement. Must be called with the lock held before any unit or
// rate change.
func (p *streamPool) settle() {
	now := p.now()
	elapsed := now.Sub(p.lastSettle)
	p.lastSettle = now

	if elapsed <= 0 || p.rate == 0 || p.totalUnits == 0 {
		return
	}

	// streamed share = rate * elapsed * units / totalUnits, computed at
	// nanosecond resolution. Quo truncates toward zero, so tiny remainders
	// stay undistributed rather than minted.
	streamed := big.NewInt(p.rate)
	streamed.Mul(streamed, big.NewInt(elapsed.Nanoseconds()))

	total := new(big.Int).SetUint64(p.totalUnits)
	denom := new(big.Int).Mul(nanosPerSecond, total)

	for _, m := range p.members {
		if m.units == 0 {
			continue
		}
		share := new(big.Int).SetUint64(m.units)
		share.Mul(share, streamed)
		share.Quo(share, denom)
		m.claimable.Add(m.claimable, share)
	}
}

func (p *streamPool) SetMemberUnits(member common.Address, units uint64) error {
	if member.IsZero() {
		return errors.New("pool member must not be the zero address")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.settle()

	m, ok := p.members[member]
	if !ok {
		m = &poolMember{claimable: new(big.Int)}
		p.members[member] = m
	}
	p.totalUnits = p.totalUnits - m.units + units
	m.units = units
	return nil
}

func (p *streamPool) SetDistributionRate(rate int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settle()
	p.rate = rate
	return nil
}

func (p *streamPool) Claimable(member common.Address) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settle()
	m, ok := p.members[member]
	if !ok {
		return new(big.Int)
	}
	return new(big.Int).Set(m.claimable)
}

func (p *streamPool) MemberRate(member common.Address) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.members[member]
	if !ok || p.totalUnits == 0 {
		return 0
	}
	share := big.NewInt(p.rate)
	share.Mul(share, new(big.Int).SetUint64(m.units))
	share.Quo(share, new(big.Int).SetUint64(p.totalUnits))
	return share.Int64()
}

func (p *streamPool) TotalUnits() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.totalUnits
}
