package types

const (
	// Scale is the fixed-point denominator used for vote shares and rate
	// percentages. Scale == 100%.
	Scale = 1000000

	// BaselineUnits is the flat number of baseline pool units granted to
	// every active recipient. Removed recipients hold zero.
	BaselineUnits = 1000

	// MaxVoteRecipients bounds the number of entries in a single vote
	// allocation. A sane limit keeps a single cast from touching an
	// unbounded number of pool members.
	MaxVoteRecipients = 100
)
