package constants

import "time"

// Request handling
const (
	DefaultTimeout        = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	ProviderCallTimeout   = 30 * time.Second
	LLMCallTimeout        = 60 * time.Second
)

// Context keys
const (
	ContextTokenData = "token_data"
	ContextRawToken  = "raw_token"
)

// Scheduling defaults. The timezone here is the fallback when the
// SCHEDULE_TIMEZONE config value is absent; all temporal computation runs in
// the single configured zone, never in per-call zone literals.
const (
	DefaultTimezone       = "Asia/Dubai"
	DefaultStartRange     = "08:00"
	DefaultEndRange       = "20:00"
	DefaultDurationMin    = 60
	SlotRoundingMinutes   = 15
	EventMatchToleranceS  = 300
	ResolverSearchHours   = 3
	DeleteSearchWindowDur = time.Hour
)

// Database pool settings
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis key prefixes
const (
	RedisKeyTokenBlacklist = "blacklist:token:"
	RedisKeyOAuthState     = "oauth:state:"
)

// Session tokens
const (
	ScopeTokenAccess   = "access"
	SessionTokenTTL    = 24 * time.Hour
	OAuthStateTTL      = 10 * time.Minute
	SessionCookieName  = "access_token"
)

// Asynq task types
const (
	TaskChatLog = "chat:log"
)
