package supabase

import "time"

// Config contains hosted auth service settings with environment variable mappings.
type Config struct {
	URL            string        `env:"SUPABASE_URL,required"`
	AnonKey        string        `env:"SUPABASE_ANON_KEY,required"`
	RequestTimeout time.Duration `env:"SUPABASE_REQUEST_TIMEOUT" envDefault:"10s"`

	// RefreshMargin is how long before access token expiry a refresh is
	// attempted, both lazily in CurrentSession and by AutoRefresh.
	RefreshMargin time.Duration `env:"SUPABASE_REFRESH_MARGIN" envDefault:"30s"`
}
