package main

import (
	"time"

	"github.com/assokit/assokit/pkg/httpserver"
	"github.com/assokit/assokit/pkg/logger"
	"github.com/assokit/assokit/pkg/pg"
	"github.com/assokit/assokit/pkg/redis"
)

type rbacConfig struct {
	// RedisLock serializes mutations across processes and enables snapshot
	// invalidation over pub/sub. Without it locking is per process.
	RedisLock            bool          `env:"RBAC_REDIS_LOCK" envDefault:"false"`
	LockTTL              time.Duration `env:"RBAC_LOCK_TTL" envDefault:"10s"`
	StrictMandatoryRoles bool          `env:"RBAC_STRICT_MANDATORY_ROLES" envDefault:"false"`
	TenantHeader         string        `env:"RBAC_TENANT_HEADER" envDefault:"X-Association-ID"`
	MemberHeader         string        `env:"RBAC_MEMBER_HEADER" envDefault:"X-Member-ID"`
	TenantCacheTTL       time.Duration `env:"RBAC_TENANT_CACHE_TTL" envDefault:"1m"`
}

type appConfig struct {
	Log   logger.Config
	DB    pg.Config
	Redis redis.Config
	HTTP  httpserver.Config
	RBAC  rbacConfig
}
