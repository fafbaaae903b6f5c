package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowsplit/flowsplit/common/result"
)

func TestRecipientMetadataValidate(t *testing.T) {
	assert := assert.New(t)

	md := RecipientMetadata{Title: "Water Project", Description: "Clean water", Image: "ipfs://abc"}
	assert.True(md.Validate().IsOK())

	for _, broken := range []RecipientMetadata{
		{Description: "d", Image: "i"},
		{Title: "t", Image: "i"},
		{Title: "t", Description: "d"},
		{},
	} {
		res := broken.Validate()
		assert.True(res.IsError())
		assert.Equal(result.CodeInvalidMetadata, res.Code)
	}
}

func TestRecipientActive(t *testing.T) {
	assert := assert.New(t)

	var nilRecipient *Recipient
	assert.False(nilRecipient.Active())
	assert.True((&Recipient{}).Active())
	assert.False((&Recipient{Removed: true}).Active())
}

func TestRecipientKindString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("ExternalAccount", KindExternalAccount.String())
	assert.Equal("NestedAllocator", KindNestedAllocator.String())
	assert.Equal("None", KindNone.String())
}
