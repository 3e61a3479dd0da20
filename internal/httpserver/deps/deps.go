package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webspot/webspot/internal/logger"
	"github.com/webspot/webspot/internal/session"
	"github.com/webspot/webspot/internal/state"
	"github.com/webspot/webspot/internal/websites"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Websites *websites.Service // storage router + optimistic list behind one call site
	Sessions *session.Manager  // session mode state machine
	List     *state.List       // in-memory snapshot, read by infra reporting

	RedisClient *redis.Client // remote backend connection, pinged by infra reporting

	SeedReloadTrigger chan struct{} // manual seed import trigger (nil if seeding disabled)

	// Rate limiting for auth endpoints
	AuthRateBurst  int
	AuthRateRefill int
	TrustProxy     bool
}
