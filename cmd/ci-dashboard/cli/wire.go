package cli

import (
	"github.com/davarch/ci-dashboard/internal/application"
	"github.com/davarch/ci-dashboard/internal/domain"
	"github.com/davarch/ci-dashboard/internal/infrastructure/config"
	"github.com/davarch/ci-dashboard/internal/infrastructure/gh_cli"
	"go.uber.org/zap"
)

type deps struct {
	agg      *application.Aggregator
	triggers *application.TriggerUseCase
}

func wire(log *zap.Logger, cfg config.Config) deps {
	gh := gh_cli.New(cfg.GitHub.GhPath, cfg.GitHub.Owner, cfg.GitHub.Limit, cfg.GitHub.Timeout)
	agg := application.NewAggregator(log, gh, domain.SystemClock{}, cfg.Roster(), cfg.Poll.Concurrency)
	triggers := application.NewTriggerUseCase(log, gh, agg, cfg.Workflows(), cfg.Trigger.Spacing)
	return deps{agg: agg, triggers: triggers}
}
