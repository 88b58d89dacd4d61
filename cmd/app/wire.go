//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/samutthan/internal/bootstrap"
	"github.com/yanqian/samutthan/internal/domain/diagnosis"
	"github.com/yanqian/samutthan/internal/domain/report"
	"github.com/yanqian/samutthan/internal/domain/session"
	"github.com/yanqian/samutthan/internal/domain/wizard"
	"github.com/yanqian/samutthan/internal/infra/config"
	httpiface "github.com/yanqian/samutthan/internal/interface/http"
	"github.com/yanqian/samutthan/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideClinicLocation,
		provideDiagnosisConfig,
		provideGenerator,
		provideSessionConfig,
		provideWizardConfig,
		provideSessionStore,
		provideWeatherProvider,
		provideReportRenderer,
		provideReportStorage,
		diagnosis.NewService,
		report.NewService,
		session.NewIssuer,
		wizard.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
