package progression

// EXP curve constants
const (
	// BaseExp is the coefficient of the threshold curve: floor(BaseExp * level^1.5)
	BaseExp = 100

	// LevelExponent is the exponent of the threshold curve. ComputeExpThreshold
	// evaluates it exactly via an integer square root, so this value documents
	// the curve rather than feeding math.Pow.
	LevelExponent = 1.5

	// StartingLevel is the level of a fresh profile
	StartingLevel = 1

	// maxExactLevel is the largest level for which 10000*level^3 fits in int64
	maxExactLevel = 97_000
)

// Reward constants
const (
	// LevelUpEnergyReward is granted once per award that gains at least one level,
	// regardless of how many levels were gained
	LevelUpEnergyReward = 50

	// DefaultMaxEnergy caps the energy balance
	DefaultMaxEnergy = 100
)

// Grant constraints
const (
	// MaxReasonLength is the longest accepted grant reason, in characters
	MaxReasonLength = 200

	// MaxGrantAmount bounds a single EXP or ruby award. Balances that a further
	// award would push past int64 are rejected separately.
	MaxGrantAmount = 1_000_000_000

	// DefaultExpGrantReason is recorded when an EXP grant omits its reason
	DefaultExpGrantReason = "EXP grant"
)

// Notification copy
const (
	NotificationTitleLevelUp       = "Level up!"
	NotificationTitleExpGranted    = "EXP received"
	NotificationTitleRubiesGranted = "Rubies received"

	NotificationMsgLevelUpFormat       = "You reached level %d and received %d energy."
	NotificationMsgExpGrantedFormat    = "You received %d EXP: %s"
	NotificationMsgRubiesGrantedFormat = "You received %d rubies: %s"
)

// Log messages
const (
	LogMsgExpAwarded      = "Awarded EXP"
	LogMsgLevelUp         = "User leveled up"
	LogMsgEnergyClamped   = "Level-up energy reward clamped at max energy"
	LogMsgRubiesGranted   = "Granted rubies"
	LogMsgPublishFailed   = "Failed to publish progression event"
	LogMsgRollbackFailed  = "Failed to rollback progression transaction"
	LogMsgServiceShutdown = "Progression service shutting down..."
)
