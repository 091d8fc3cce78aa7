// Package redis opens go-redis clients from environment configuration.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer client.Close()
//
// The client backs the cross-instance tenant lock in pkg/rbac/redislock.
package redis
