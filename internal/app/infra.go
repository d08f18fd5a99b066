package app

import (
	"context"
	"errors"
	"time"

	"skill-auth-service/internal/config"
	"skill-auth-service/internal/db"
	"skill-auth-service/internal/events"
	"skill-auth-service/internal/logger"
	"skill-auth-service/internal/redis"
)

type Infra struct {
	DB *db.DB
	// Redis is nil unless REDIS_ADDR is set.
	Redis  *redis.Client
	Events events.Publisher
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	if err := db.Migrate(cfg.DatabaseDSN); err != nil {
		return nil, err
	}

	database, err := db.Open(ctx, cfg.DatabaseDSN, db.PoolOptions{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: database, Events: events.Nop{}}

	if cfg.RedisAddr != "" {
		infra.Redis, err = redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			infra.Close()
			return nil, err
		}
		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	}

	if cfg.NATSURL != "" {
		pub, err := events.Connect(cfg.NATSURL)
		if err != nil {
			infra.Close()
			return nil, err
		}
		infra.Events = pub
		logger.Info("nats ready", map[string]any{"url": cfg.NATSURL})
	}

	return infra, nil
}

// Close releases every connection the infra owns.
func (i *Infra) Close() error {
	var errs []error

	if i.Events != nil {
		i.Events.Close()
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}

	return errors.Join(errs...)
}
