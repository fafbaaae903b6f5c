package types

import (
	"fmt"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/common/result"
)

// RecipientKind tags how a recipient receives its share of the budget.
type RecipientKind uint8

const (
	// KindNone is the zero value and never valid for a registered recipient.
	KindNone RecipientKind = iota

	// KindExternalAccount is a plain account address.
	KindExternalAccount

	// KindNestedAllocator is a recipient that is itself a child allocator,
	// further subdividing its inbound rate. Its address is assigned by the
	// flow factory during registration.
	KindNestedAllocator
)

func (k RecipientKind) String() string {
	switch k {
	case KindExternalAccount:
		return "ExternalAccount"
	case KindNestedAllocator:
		return "NestedAllocator"
	default:
		return "None"
	}
}

// RecipientMetadata describes a recipient. All fields are required.
type RecipientMetadata struct {
	Title       string
	Description string
	Image       string
}

// Validate checks that all required text fields are present.
func (md RecipientMetadata) Validate() result.Result {
	if md.Title == "" || md.Description == "" || md.Image == "" {
		return result.Error("metadata title, description and image are required").
			WithErrorCode(result.CodeInvalidMetadata)
	}
	return result.OK
}

// Recipient is an approved budget recipient. Recipients are never physically
// deleted: removal flips the Removed flag and zeroes the unit grants, so ids
// stay unique for the lifetime of the allocator.
type Recipient struct {
	ID       common.Hash
	Address  common.Address // zero for a nested allocator until the child is deployed
	Kind     RecipientKind
	Removed  bool
	Metadata RecipientMetadata

	// Unit grants currently held in the distribution pools. These mirror
	// the member units pushed to the pool abstraction.
	BaselineUnits uint64
	BonusUnits    uint64
}

// Active reports whether the recipient currently participates in the pools.
func (r *Recipient) Active() bool {
	return r != nil && !r.Removed
}

func (r *Recipient) String() string {
	if r == nil {
		return "nil-Recipient"
	}
	return fmt.Sprintf("Recipient{%v %v %v removed:%v baseline:%v bonus:%v}",
		r.ID.Hex(), r.Kind, r.Address.Hex(), r.Removed, r.BaselineUnits, r.BonusUnits)
}
