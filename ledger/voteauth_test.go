package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flowsplit/flowsplit/common"
)

func TestOwnershipAuthorizer(t *testing.T) {
	assert := assert.New(t)

	auth := OwnershipAuthorizer{Tokens: StaticTokenOwners{1: voterAddr}}

	assert.True(auth.CanVoteWithToken(1, voterAddr, voterAddr))
	assert.False(auth.CanVoteWithToken(1, voterAddr, randomAddr))
	assert.False(auth.CanVoteWithToken(1, randomAddr, randomAddr))
	assert.False(auth.CanVoteWithToken(2, voterAddr, voterAddr))
}

type fixedProofVerifier struct {
	issuedAt time.Time
	ok       bool
}

func (v fixedProofVerifier) VerifyProof(tokenID uint64, owner, caller common.Address) (time.Time, bool) {
	return v.issuedAt, v.ok
}

func TestProofAuthorizerAcceptsFreshProof(t *testing.T) {
	assert := assert.New(t)

	now := time.Unix(5000, 0)
	auth := ProofAuthorizer{
		Verifier:    fixedProofVerifier{issuedAt: now.Add(-time.Minute), ok: true},
		MaxProofAge: time.Hour,
		Now:         func() time.Time { return now },
	}
	assert.True(auth.CanVoteWithToken(1, voterAddr, voterAddr))
}

func TestProofAuthorizerRejectsStaleProof(t *testing.T) {
	assert := assert.New(t)

	now := time.Unix(5000, 0)
	auth := ProofAuthorizer{
		Verifier:    fixedProofVerifier{issuedAt: now.Add(-2 * time.Hour), ok: true},
		MaxProofAge: time.Hour,
		Now:         func() time.Time { return now },
	}
	assert.False(auth.CanVoteWithToken(1, voterAddr, voterAddr))
}

func TestProofAuthorizerRejectsInvalidProof(t *testing.T) {
	assert := assert.New(t)

	auth := ProofAuthorizer{
		Verifier:    fixedProofVerifier{ok: false},
		MaxProofAge: time.Hour,
	}
	assert.False(auth.CanVoteWithToken(1, voterAddr, voterAddr))
}

func TestProofAuthorizerZeroAgeMeansNoExpiry(t *testing.T) {
	assert := assert.New(t)

	auth := ProofAuthorizer{
		Verifier: fixedProofVerifier{issuedAt: time.Unix(0, 0), ok: true},
	}
	assert.True(auth.CanVoteWithToken(1, voterAddr, voterAddr))
}
