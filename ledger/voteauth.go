package ledger

import (
	"time"

	"github.com/flowsplit/flowsplit/common"
)

// TokenOwnerLookup resolves the current owner of a voting token.
type TokenOwnerLookup interface {
	OwnerOf(tokenID uint64) (common.Address, bool)
}

// OwnershipAuthorizer authorizes a vote when the caller is the current
// owner of the token. Used by deployments without an external proof
// verifier.
type OwnershipAuthorizer struct {
	Tokens TokenOwnerLookup
}

// CanVoteWithToken implements the vote authorization capability.
func (a OwnershipAuthorizer) CanVoteWithToken(tokenID uint64, owner, caller common.Address) bool {
	actual, ok := a.Tokens.OwnerOf(tokenID)
	if !ok {
		return false
	}
	return actual == owner && caller == owner
}

// StaticTokenOwners is a fixed token ownership table, mainly for tests and
// single-process deployments.
type StaticTokenOwners map[uint64]common.Address

// OwnerOf implements TokenOwnerLookup.
func (s StaticTokenOwners) OwnerOf(tokenID uint64) (common.Address, bool) {
	owner, ok := s[tokenID]
	return owner, ok
}

// ProofVerifier is the external cryptographic capability that vouches a
// caller may vote with a token on behalf of its claimed owner. IssuedAt is
// when the proof was produced; its correctness is out of scope here.
type ProofVerifier interface {
	VerifyProof(tokenID uint64, owner, caller common.Address) (issuedAt time.Time, ok bool)
}

// ProofAuthorizer authorizes votes through an external proof verifier and
// rejects proofs older than MaxProofAge. Staleness is a plain threshold
// comparison against the current clock, never a wait.
type ProofAuthorizer struct {
	Verifier    ProofVerifier
	MaxProofAge time.Duration
	Now         func() time.Time
}

// CanVoteWithToken implements the vote authorization capability.
func (a ProofAuthorizer) CanVoteWithToken(tokenID uint64, owner, caller common.Address) bool {
	issuedAt, ok := a.Verifier.VerifyProof(tokenID, owner, caller)
	if !ok {
		return false
	}
	if a.MaxProofAge <= 0 {
		return true
	}
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return now().Sub(issuedAt) <= a.MaxProofAge
}
