package bootstrap

import (
	"github.com/eleven-am/zone-feedback/internal/session"
	"github.com/eleven-am/zone-feedback/internal/zone"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideZoneStore(db *gorm.DB) *zone.Store {
	return zone.NewStore(db)
}

func ProvideSessionStore(redisClient *redis.Client) *session.Store {
	return session.NewStore(redisClient)
}

func RunMigrations(zoneStore *zone.Store) error {
	return zoneStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideZoneStore,
		ProvideSessionStore,
	),
	fx.Invoke(RunMigrations),
)
