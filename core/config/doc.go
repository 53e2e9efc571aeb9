// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/localkaam/localkaam/core/config"
//
//	type GatewayConfig struct {
//		URL     string `env:"SUPABASE_URL,required"`
//		AnonKey string `env:"SUPABASE_ANON_KEY,required"`
//	}
//
//	func main() {
//		var cfg GatewayConfig
//
//		// Load with error handling
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&cfg)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 GatewayConfig
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 GatewayConfig
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently, so every package can declare its
// own configuration struct without coordinating with the rest of the app.
package config
