package constants

import "time"

// Request handling
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultTimeout        = 30 * time.Second

	ContextTokenData = "token_data"
)

// Database pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
)

// Suggestion scoring defaults. These are the upstream tuning values; they can
// be overridden through the scoring.* config keys but are never re-derived.
const (
	ScoreBase                = 1.0
	ScoreExplorationBonus    = 0.35
	ScoreEveryoneBonus       = 0.2
	ScoreMinRelevance        = 1.25
	ScoreAutoInsertThreshold = 1.5
	ScoreLearningRate        = 0.25
)

// Tag conventions
const (
	EveryoneTag = "#alle"
	DatingTag   = "dating"

	TagKeyPersonPrefix   = "person:"
	TagKeyTimeslotPrefix = "timeslot:"
	TagKeyLocationPrefix = "location:"
)

// Smart meeting plan bounds and defaults
const (
	PlanMinDurationMinutes = 15
	PlanMaxDurationMinutes = 1440

	PlanMinAcceptedLower = 1
	PlanMinAcceptedUpper = 50

	PlanResponseWindowHoursLower   = 1
	PlanResponseWindowHoursUpper   = 336
	PlanDefaultResponseWindowHours = 24

	PlanSlotIntervalMinutesLower   = 15
	PlanSlotIntervalMinutesUpper   = 180
	PlanDefaultSlotIntervalMinutes = 30

	PlanMaxAttemptsLower   = 1
	PlanMaxAttemptsUpper   = 10
	PlanDefaultMaxAttempts = 5
)

// Calendar synchronization
const (
	SyncCooldown       = 90 * time.Second
	BusyCacheTTL       = 60 * time.Second
	SyncLookaheadDays  = 30
	TokenRefreshSkew   = 5 * time.Minute
	ProviderAPITimeout = 30 * time.Second
)

// Dating profile bounds
const (
	DatingMinAge          = 18
	DatingMaxAge          = 99
	DatingMaxSoughtGender = 3
)

// Suggestion decision note limit
const DecisionNoteMaxLength = 300
