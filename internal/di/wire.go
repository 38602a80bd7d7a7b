//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	domrepo "HurstLab/internal/domain/repository"
	internalrepo "HurstLab/internal/repository"
	"HurstLab/internal/usecase"
	"HurstLab/pkg/config"
	"HurstLab/pkg/server"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideCache,
	ProvideClickHouseClient,
	ProvideReportPublisher,
)

var analysisSet = wire.NewSet(
	ProvideQuoteSource,
	ProvideQuoteLoader,
	wire.Bind(new(domrepo.QuoteLoader), new(*internalrepo.CachedQuoteLoader)),
	wire.Bind(new(domrepo.QuoteRefresher), new(*internalrepo.CachedQuoteLoader)),
	ProvideWaveletTransform,
	ProvideSettings,
	usecase.NewResearch,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		infraSet,
		analysisSet,
		usecase.NewAnalyse,
		ProvideHandler,
		ProvideHTTPServer,
		ProvideRefreshScheduler,
		ProvideApp,
	)
	return &server.App{}, nil
}

// InitializeTool wires the research use case for the command line.
func InitializeTool(cfg *config.Config) (*Tool, error) {
	wire.Build(
		infraSet,
		analysisSet,
		ProvideTool,
	)
	return &Tool{}, nil
}
