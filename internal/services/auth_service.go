package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/authorizerdev/authorizer-go"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/gridbase/gridbase/internal/config"
	"github.com/gridbase/gridbase/internal/utils"
)

// SessionUser is the resolved identity of an authenticated caller.
type SessionUser struct {
	ID    string
	Email string
}

var (
	authClient   *authorizer.AuthorizerClient
	authOnce     sync.Once
	sessionCache *expirable.LRU[string, SessionUser]
)

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client (singleton) and the
// validated-session cache. Session validation is a network round trip, so
// recently validated cookies are cached for a short TTL.
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
		log.Info().
			Str("authorizerURL", cfg.AuthzURL).
			Str("clientID", cfg.AuthzClientID).
			Str("redirectURL", redirectURL).
			Msg("initializing authorizer")

		var err error
		authClient, err = authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}

		ttl := cfg.SessionCacheTTL
		if ttl <= 0 {
			ttl = 30 * time.Second
		}
		sessionCache = expirable.NewLRU[string, SessionUser](1024, nil, ttl)
	})

	return initErr
}

// ValidateSession validates a session cookie for the given roles and
// returns the authenticated user.
func ValidateSession(cookie string, roles []string) (SessionUser, error) {
	if authClient == nil {
		return SessionUser{}, fmt.Errorf("authorizer client not initialized")
	}

	if sessionCache != nil {
		if user, ok := sessionCache.Get(cookie); ok {
			return user, nil
		}
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := authClient.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return SessionUser{}, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid {
		return SessionUser{}, fmt.Errorf("session is not valid")
	}

	user := SessionUser{ID: res.User.ID, Email: res.User.Email}

	if sessionCache != nil {
		sessionCache.Add(cookie, user)
	}
	return user, nil
}
