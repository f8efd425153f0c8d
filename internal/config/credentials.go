package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment variable names. These follow the conventions of the respective
// dashboards so values can be pasted straight from there.
const (
	EnvSDKKey    = "ZOOM_MEETING_SDK_KEY"
	EnvSDKSecret = "ZOOM_MEETING_SDK_SECRET"

	EnvAccountID    = "ZOOM_ACCOUNT_ID"
	EnvClientID     = "ZOOM_CLIENT_ID"
	EnvClientSecret = "ZOOM_CLIENT_SECRET"

	EnvAPIKey    = "ZOOM_API_KEY"
	EnvAPISecret = "ZOOM_API_SECRET"

	EnvSupabaseURL        = "SUPABASE_URL"
	EnvSupabaseServiceKey = "SUPABASE_SERVICE_ROLE_KEY"
)

// Credentials holds every secret the process can use. Loaded once at startup
// and immutable afterwards. Missing values are not an error here; absence is
// surfaced when a dependent operation is attempted.
type Credentials struct {
	SDKKey    string
	SDKSecret string

	AccountID    string
	ClientID     string
	ClientSecret string

	APIKey    string
	APISecret string

	SupabaseURL        string
	SupabaseServiceKey string
}

// LoadCredentials reads credentials from the environment, after loading an
// optional .env file from the working directory.
func LoadCredentials() Credentials {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	return Credentials{
		SDKKey:    Sanitize(EnvSDKKey, os.Getenv(EnvSDKKey)),
		SDKSecret: Sanitize(EnvSDKSecret, os.Getenv(EnvSDKSecret)),

		AccountID:    Sanitize(EnvAccountID, os.Getenv(EnvAccountID)),
		ClientID:     Sanitize(EnvClientID, os.Getenv(EnvClientID)),
		ClientSecret: Sanitize(EnvClientSecret, os.Getenv(EnvClientSecret)),

		APIKey:    Sanitize(EnvAPIKey, os.Getenv(EnvAPIKey)),
		APISecret: Sanitize(EnvAPISecret, os.Getenv(EnvAPISecret)),

		SupabaseURL:        strings.TrimRight(Sanitize(EnvSupabaseURL, os.Getenv(EnvSupabaseURL)), "/"),
		SupabaseServiceKey: Sanitize(EnvSupabaseServiceKey, os.Getenv(EnvSupabaseServiceKey)),
	}
}

// Sanitize cleans up a pasted configuration value: surrounding whitespace,
// one layer of matched quotes, and the trailing "Copy" literal some
// dashboards append to the clipboard when copying a secret.
func Sanitize(name, raw string) string {
	value := strings.TrimSpace(raw)

	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			value = strings.TrimSpace(value[1 : len(value)-1])
		}
	}

	if len(value) > 4 && strings.EqualFold(value[len(value)-4:], "copy") {
		value = strings.TrimSpace(value[:len(value)-4])
		log.Warn().
			Str("name", name).
			Msg("stripped trailing 'Copy' clipboard artifact from configuration value")
	}

	return value
}

func (c Credentials) HasSDKCredentials() bool {
	return c.SDKKey != "" && c.SDKSecret != ""
}

func (c Credentials) HasOAuthCredentials() bool {
	return c.AccountID != "" && c.ClientID != "" && c.ClientSecret != ""
}

func (c Credentials) HasLegacyCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// HasAPICredentials reports whether any way of calling the meeting API is
// configured. OAuth takes precedence over the legacy pair when both are set.
func (c Credentials) HasAPICredentials() bool {
	return c.HasOAuthCredentials() || c.HasLegacyCredentials()
}

func (c Credentials) HasStorageCredentials() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}
