package wire

import (
	"os"
	"sync"
	"time"

	"sonometre-server/cmd/config"
	"sonometre-server/internal/infra/sql"
)

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

var (
	databaseOnce     sync.Once
	databaseInstance sql.ORM
)

// provideDatabase yields the process-wide ORM handle. Injectors share one
// connection pool, so the singleton is resolved here rather than in wire.
func provideDatabase(cfg config.AppConfig) sql.ORM {
	databaseOnce.Do(func() {
		env, ok := os.LookupEnv("ENV")
		if !ok {
			env = "production"
		}

		if env == "local" {
			orm, err := sql.NewMemoryORM()
			if err != nil {
				panic(err)
			}

			databaseInstance = orm
			return
		}

		orm, err := sql.NewPostgreORM(cfg.Postgresql.DSN)
		if err != nil {
			panic(err)
		}

		databaseInstance = orm
	})

	return databaseInstance
}

func provideSensorCount(cfg config.AppConfig) int {
	return cfg.General.SensorCount
}

func provideNowFn() func() time.Time {
	return time.Now
}
