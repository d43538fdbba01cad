package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/expense-tracker/internal/handlers/v1/analytics"
	"github.com/carson-networks/expense-tracker/internal/handlers/v1/budget"
	"github.com/carson-networks/expense-tracker/internal/handlers/v1/category"
	"github.com/carson-networks/expense-tracker/internal/handlers/v1/status"
	"github.com/carson-networks/expense-tracker/internal/handlers/v1/transaction"
	"github.com/carson-networks/expense-tracker/internal/logging"
	"github.com/carson-networks/expense-tracker/internal/operator"
	"github.com/carson-networks/expense-tracker/internal/ratelimit"
	"github.com/carson-networks/expense-tracker/internal/service"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Operator *operator.OperatorDelegator
	Limiter  *ratelimit.Limiter
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()
	humaAPI := humago.New(mux, huma.DefaultConfig("expense-tracker", "1.0.0"))
	humaAPI.UseMiddleware(logging.Middleware(r.Logger))

	status.NewHandler().Register(humaAPI)

	transaction.NewCreateTransactionHandler(r.Operator, r.Limiter).Register(humaAPI)
	transaction.NewUpdateTransactionHandler(r.Operator, r.Limiter).Register(humaAPI)
	transaction.NewDeleteTransactionHandler(r.Operator, r.Limiter).Register(humaAPI)
	transaction.NewGetTransactionHandler(r.Service.Transaction).Register(humaAPI)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(humaAPI)

	budget.NewCreateBudgetHandler(r.Operator, r.Limiter).Register(humaAPI)
	budget.NewUpdateBudgetHandler(r.Operator, r.Limiter).Register(humaAPI)
	budget.NewDeleteBudgetHandler(r.Operator, r.Limiter).Register(humaAPI)
	budget.NewGetBudgetHandler(r.Service.Budget).Register(humaAPI)
	budget.NewListBudgetsHandler(r.Service.Budget).Register(humaAPI)

	category.NewCreateCategoryHandler(r.Operator, r.Limiter).Register(humaAPI)
	category.NewListCategoriesHandler(r.Service.Category).Register(humaAPI)

	analytics.NewReportHandler(r.Service.Analytics).Register(humaAPI)
	analytics.NewCategoryAnalyticsHandler(r.Service.Analytics).Register(humaAPI)
	analytics.NewMonthlyComparisonHandler(r.Service.Analytics).Register(humaAPI)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
