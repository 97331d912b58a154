//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/ecoquest/quest-engine/internal/bootstrap"
	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/quest"
	"github.com/ecoquest/quest-engine/internal/infra/config"
	"github.com/ecoquest/quest-engine/internal/infra/env/openweather"
	httpiface "github.com/ecoquest/quest-engine/internal/interface/http"
	"github.com/ecoquest/quest-engine/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideWeatherClient,
		provideSyntheticGenerator,
		provideSynthesizer,
		providePgxPool,
		provideQuestRepository,
		provideProfileRepository,
		provideNotificationStore,
		providePushSink,
		provideScheduler,
		environment.NewService,
		quest.NewDispatcher,
		quest.NewService,
		wire.Bind(new(environment.WeatherClient), new(*openweather.Client)),
		wire.Bind(new(environment.AirQualityClient), new(*openweather.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
