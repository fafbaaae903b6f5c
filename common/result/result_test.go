package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultOK(t *testing.T) {
	assert := assert.New(t)

	assert.True(OK.IsOK())
	assert.False(OK.IsError())
}

func TestErrorFormatting(t *testing.T) {
	assert := assert.New(t)

	res := Error("recipient %v not found", "0xabc")
	assert.True(res.IsError())
	assert.Equal(CodeGenericError, res.Code)
	assert.Equal("recipient 0xabc not found", res.Message)
}

func TestWithErrorCode(t *testing.T) {
	assert := assert.New(t)

	res := Error("nope").WithErrorCode(CodeUnauthorized)
	assert.Equal(CodeUnauthorized, res.Code)
	assert.Equal("nope", res.Message)
	assert.True(res.IsError())
}
