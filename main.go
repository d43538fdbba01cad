package main

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-tracker/api"
	"github.com/carson-networks/expense-tracker/internal/analytics"
	"github.com/carson-networks/expense-tracker/internal/cache"
	"github.com/carson-networks/expense-tracker/internal/config"
	"github.com/carson-networks/expense-tracker/internal/logging"
	"github.com/carson-networks/expense-tracker/internal/notify"
	"github.com/carson-networks/expense-tracker/internal/operator"
	"github.com/carson-networks/expense-tracker/internal/operator/actions"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
	"github.com/carson-networks/expense-tracker/internal/service"
	"github.com/carson-networks/expense-tracker/internal/storage"
	"github.com/carson-networks/expense-tracker/internal/tracker"
)

const numOperatorWorkers = 4

func main() {
	logger := logging.SetupLogging()
	logrus.Info("expense-tracker starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	dbStorage := storage.NewStorage(envConfig)

	reportCache := cache.NewLRUCache[*analytics.Report](envConfig.AnalyticsCacheSize, envConfig.AnalyticsCacheTTL)
	svc := service.NewService(dbStorage, reportCache, logger)

	limiter := ratelimit.NewLimiter(ratelimit.Config{
		Enabled:        envConfig.RateLimitEnabled,
		Capacity:       envConfig.RateLimitCapacity,
		RefillTokens:   envConfig.RateLimitRefill,
		RefillInterval: envConfig.RateLimitInterval,
		MaxKeys:        envConfig.RateLimitMaxKeys,
	})

	notifier := notify.ForConfig(notify.Config{
		Host:     envConfig.SMTPHost,
		Port:     envConfig.SMTPPort,
		From:     envConfig.SMTPFrom,
		Username: envConfig.SMTPUsername,
		Password: envConfig.SMTPPassword,
	})

	deps := &actions.Deps{
		Users:               dbStorage.Users,
		Notifier:            notifier,
		Locks:               tracker.NewKeyedMutex(),
		InvalidateAnalytics: svc.Analytics.InvalidateUser,
	}
	delegator := operator.NewOperatorDelegator(dbStorage, deps, numOperatorWorkers)
	delegator.Start()
	defer delegator.Stop()

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     envConfig.HTTPPort,
			Service:  svc,
			Operator: delegator,
			Limiter:  limiter,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
