package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string

	JWTSigningKey string
	// JWTSigningKeyGenerated is true when no key was configured and a random
	// per-process key was generated instead.
	JWTSigningKeyGenerated bool
	JWTIssuer              string
	TokenTTL               time.Duration

	BcryptCost         int
	CORSAllowedOrigins []string
	SeedDemoData       bool
	// ProtectPostMutations puts post update and delete behind the token gate.
	ProtectPostMutations bool

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv loads an optional .env file and builds a Server config from the environment.
// Variables already set in the process win over the file.
func FromEnv() (Server, error) {
	_ = godotenv.Load() // ok if missing
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Server config from lookup, applying defaults for unset keys.
func FromLookup(lookup LookupFunc) (Server, error) {
	r := reader{lookup: lookup}
	cfg := Server{
		Addr:                 r.string("POSTBOARD_ADDR", ":3000"),
		JWTSigningKey:        r.string("JWT_SIGNING_KEY", ""),
		JWTIssuer:            r.string("JWT_ISSUER", "postboard"),
		TokenTTL:             r.duration("TOKEN_TTL", 24*time.Hour),
		BcryptCost:           r.int("BCRYPT_COST", 10),
		CORSAllowedOrigins:   r.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SeedDemoData:         r.bool("SEED_DEMO_DATA", true),
		ProtectPostMutations: r.bool("POSTBOARD_PROTECT_POST_MUTATIONS", false),
		LogLevel:             strings.ToLower(r.string("LOG_LEVEL", "info")),
		LogFormat:            strings.ToLower(r.string("LOG_FORMAT", "json")),
		ShutdownTimeout:      r.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if r.err != nil {
		return Server{}, r.err
	}

	if cfg.TokenTTL <= 0 {
		return Server{}, fmt.Errorf("TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Server{}, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}

	if cfg.JWTSigningKey == "" {
		key, err := randomKey()
		if err != nil {
			return Server{}, fmt.Errorf("generate JWT signing key: %w", err)
		}
		cfg.JWTSigningKey = key
		cfg.JWTSigningKeyGenerated = true
	}
	return cfg, nil
}

func randomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// reader keeps the first parse error so FromLookup can report it once.
type reader struct {
	lookup LookupFunc
	err    error
}

func (r *reader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) string(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return n
}

func (r *reader) bool(key string, def bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}
	return d
}

func (r *reader) list(key string, def []string) []string {
	v, ok := r.raw(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}
