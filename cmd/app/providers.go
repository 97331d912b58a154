package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/profile"
	"github.com/ecoquest/quest-engine/internal/domain/quest"
	"github.com/ecoquest/quest-engine/internal/infra/config"
	"github.com/ecoquest/quest-engine/internal/infra/env/openweather"
	"github.com/ecoquest/quest-engine/internal/infra/notifystore"
	"github.com/ecoquest/quest-engine/internal/infra/profilerepo"
	"github.com/ecoquest/quest-engine/internal/infra/push"
	"github.com/ecoquest/quest-engine/internal/infra/questrepo"
	"github.com/ecoquest/quest-engine/internal/scheduler"
)

func provideWeatherClient(cfg *config.Config) *openweather.Client {
	return openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL)
}

func provideSyntheticGenerator(cfg *config.Config) *environment.SyntheticGenerator {
	seed := cfg.Engine.SyntheticSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return environment.NewSyntheticGenerator(seed)
}

func provideSynthesizer(cfg *config.Config, logger *slog.Logger) *quest.Synthesizer {
	tz := time.UTC
	if cfg.Engine.Timezone != "" {
		loaded, err := time.LoadLocation(cfg.Engine.Timezone)
		if err != nil {
			logger.Warn("invalid timezone, falling back to UTC", "timezone", cfg.Engine.Timezone, "error", err)
		} else {
			tz = loaded
		}
	}
	return quest.NewSynthesizer(tz)
}

func providePgxPool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Storage.Postgres.DSN)
	if dsn == "" {
		logger.Info("postgres dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Storage.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Storage.Postgres.MaxConns
	}
	if cfg.Storage.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Storage.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideQuestRepository(pool *pgxpool.Pool) quest.Repository {
	if pool == nil {
		return questrepo.NewMemoryRepository()
	}
	return questrepo.NewPostgresRepository(pool)
}

func provideProfileRepository(pool *pgxpool.Pool) profile.Repository {
	if pool == nil {
		return profilerepo.NewMemoryRepository()
	}
	return profilerepo.NewPostgresRepository(pool)
}

func provideNotificationStore(cfg *config.Config, logger *slog.Logger) quest.NotificationStore {
	if cfg.Storage.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return notifystore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return notifystore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey notification store enabled", "addr", cfg.Storage.Valkey.Addr)
			return notifystore.NewValkeyStore(client, "notify", cfg.Storage.Valkey.TTL)
		}
	}
	return notifystore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Storage.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Storage.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Storage.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func providePushSink(cfg *config.Config, logger *slog.Logger) quest.PushSink {
	if strings.TrimSpace(cfg.Notify.WebhookURL) == "" {
		return push.NewLogSink(logger)
	}
	return push.NewWebhookSink(cfg.Notify.WebhookURL)
}

func provideScheduler(cfg *config.Config, quests quest.Service, logger *slog.Logger) *scheduler.Scheduler {
	return scheduler.New(cfg.Scheduler, quests, logger)
}
