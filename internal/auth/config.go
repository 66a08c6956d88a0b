package auth

// Mode selects how session tokens are verified.
type Mode string

const (
	// ModeJWT verifies HS256-signed session tokens with a shared secret.
	ModeJWT Mode = "jwt"
	// ModeRedis resolves opaque session tokens against a Redis session store.
	ModeRedis Mode = "redis"
	// ModeDisabled accepts every request as a fixed development session.
	ModeDisabled Mode = "disabled"
)

// Config contains session verification settings.
type Config struct {
	Mode        Mode   `env:"AUTH_MODE"         envDefault:"jwt"`
	Secret      string `env:"AUTH_SECRET"`
	Issuer      string `env:"AUTH_ISSUER"`
	Audience    string `env:"AUTH_AUDIENCE"`
	CookieName  string `env:"AUTH_COOKIE_NAME"  envDefault:"next-auth.session-token"`
	RedisURL    string `env:"AUTH_REDIS_URL"    envDefault:"redis://localhost:6379/0"`
	RedisPrefix string `env:"AUTH_REDIS_PREFIX" envDefault:"session:"`
}
