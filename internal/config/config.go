package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The backend base URL points at the REST service
// owning all persistent state; the gateway itself keeps nothing durable, so
// there is no database configuration here.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	BackendBaseURL string // base URL of the cinema REST backend
	JWTSecret      string // secret used to sign operator JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	OperatorEmail  string // the back-office operator account email
	OperatorHash   string // bcrypt hash of the operator password
	BufferMin      int    // post-show changeover buffer in minutes
	GridMaxRows    int    // seat grid row cap
	GridMaxCols    int    // seat grid column cap
	SessionTTLMin  int    // editor session idle TTL in minutes
}

// Load reads configuration from environment variables.  Required variables
// are enforced by must(); missing values exit with a fatal log message.
// The scheduling buffer, grid caps and session TTL are tunable but default
// to the values the storefront was built around.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		BackendBaseURL: must("BACKEND_BASE_URL"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		OperatorEmail:  must("OPERATOR_EMAIL"),
		OperatorHash:   must("OPERATOR_PASSWORD_HASH"),
		BufferMin:      envInt("SCHEDULE_BUFFER_MIN", 60),
		GridMaxRows:    envInt("GRID_MAX_ROWS", 15),
		GridMaxCols:    envInt("GRID_MAX_COLS", 20),
		SessionTTLMin:  envInt("EDITOR_SESSION_TTL_MIN", 30),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
