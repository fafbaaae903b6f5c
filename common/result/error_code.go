package result

// ErrorCode classifies rejected state transitions.
type ErrorCode int

const (
	CodeOK ErrorCode = 0

	CodeGenericError ErrorCode = 10000

	// Validation errors: shape or range violations, rejected before any
	// state mutation.
	CodeInvalidShareSum   ErrorCode = 10101
	CodeZeroAllocation    ErrorCode = 10102
	CodeTooFewRecipients  ErrorCode = 10103
	CodeInvalidMetadata   ErrorCode = 10104
	CodeInvalidPercent    ErrorCode = 10105
	CodeAddressZero       ErrorCode = 10106
	CodeTooManyRecipients ErrorCode = 10107

	// Authorization errors.
	CodeUnauthorized          ErrorCode = 10201
	CodeNotAuthorizedForToken ErrorCode = 10202

	// Reference errors.
	CodeUnknownRecipient     ErrorCode = 10301
	CodeNotApprovedRecipient ErrorCode = 10302
	CodeDuplicateRecipient   ErrorCode = 10303
	CodeInvalidRecipientType ErrorCode = 10304

	// CodeReentrantCall is returned when an entry point is invoked while
	// another transition on the same allocator is still in flight.
	CodeReentrantCall ErrorCode = 10401
)
