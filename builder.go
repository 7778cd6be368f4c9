package adminauth

import (
	"errors"
	"time"

	"github.com/clayworks/adminauth/audit"
	"github.com/clayworks/adminauth/password"
	"github.com/clayworks/adminauth/rate"
	"github.com/clayworks/adminauth/token"
	"github.com/redis/go-redis/v9"
)

// PasswordHasher is the hashing boundary the gateway depends on. The bcrypt
// implementation in the password package is the production choice; tests
// substitute counting fakes.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encodedHash string) bool
}

// Builder assembles a [Gateway]. Construction is allocation-only; no I/O
// happens before the gateway handles its first request.
type Builder struct {
	config  Config
	store   AccountStore
	hasher  PasswordHasher
	limiter rate.Limiter
	sink    audit.Sink
	redis   redis.UniversalClient

	built bool
}

// New returns a [Builder] preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithTokenSecret sets the signing secret without replacing the rest of the
// token configuration.
func (b *Builder) WithTokenSecret(secret []byte) *Builder {
	b.config.Token.Secret = secret
	return b
}

// WithStore sets the account store. Required.
func (b *Builder) WithStore(store AccountStore) *Builder {
	b.store = store
	return b
}

// WithHasher overrides the default bcrypt hasher.
func (b *Builder) WithHasher(h PasswordHasher) *Builder {
	b.hasher = h
	return b
}

// WithLimiter overrides the default in-memory login rate limiter.
func (b *Builder) WithLimiter(l rate.Limiter) *Builder {
	b.limiter = l
	return b
}

// WithRedis switches the login rate limiter to the shared redis window.
// Ignored when WithLimiter was also called.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithAuditSink sets the audit destination. Defaults to a no-op sink.
func (b *Builder) WithAuditSink(sink audit.Sink) *Builder {
	b.sink = sink
	return b
}

// Build validates the configuration and returns a ready [Gateway].
func (b *Builder) Build() (*Gateway, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.store == nil {
		return nil, errors.New("account store is required")
	}

	tokens, err := token.NewManager(b.config.Token)
	if err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		hasher, err = password.NewBcrypt(b.config.Password)
		if err != nil {
			return nil, err
		}
	}

	limiter := b.limiter
	if limiter == nil {
		if b.redis != nil {
			limiter = rate.NewRedisLimiter(b.redis, b.config.RateLimit)
		} else {
			limiter = rate.NewMemoryLimiter(b.config.RateLimit)
		}
	}

	sink := b.sink
	if sink == nil {
		sink = audit.NoOpSink{}
	}

	minLen := b.config.MinSecretLength
	if minLen <= 0 {
		minLen = DefaultConfig().MinSecretLength
	}

	b.built = true
	return &Gateway{
		store:     b.store,
		hasher:    hasher,
		tokens:    tokens,
		limiter:   limiter,
		sink:      sink,
		metrics:   NewMetrics(),
		minSecret: minLen,
		now:       time.Now,
	}, nil
}
