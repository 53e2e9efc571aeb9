// Package redis provides Redis client initialization and health checking.
//
// Connect validates the connection URL, builds a go-redis client, and
// verifies connectivity with exponential backoff retries before returning
// it. The resulting client backs the Redis-based redirect stash in
// pkg/redirect.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	stash := redirect.NewRedisStore(client)
//
// Both redis:// and rediss:// (TLS) URL schemes are supported through
// go-redis URL parsing.
package redis
