package smoke

// Runner configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
)
