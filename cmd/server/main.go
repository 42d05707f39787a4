package main

import (
	"context"
	"os"

	"github.com/dakshbank/ledger-service/pkg/admission"
	"github.com/dakshbank/ledger-service/pkg/api"
	"github.com/dakshbank/ledger-service/pkg/app"
	"github.com/dakshbank/ledger-service/pkg/auth"
	"github.com/dakshbank/ledger-service/pkg/core/diag"
	"github.com/dakshbank/ledger-service/pkg/core/router"
	"github.com/dakshbank/ledger-service/pkg/dal"
	"github.com/dakshbank/ledger-service/pkg/ledger"
	"github.com/dakshbank/ledger-service/pkg/query"
)

var logger = diag.CreateLogger()

func main() {
	appCfg := app.LoadConfig()
	app.SetupLogging(appCfg)

	injector := app.BootstrapServices(appCfg)
	ctx := context.Background()

	if err := injector(func(
		storage dal.Storage,
		authSvc auth.Service,
		ledgerSvc ledger.Service,
		querySvc query.Service,
		filter admission.Filter,
	) error {
		if err := storage.Setup(ctx); err != nil {
			return err
		}

		port := appCfg.Server.Port.Value()
		logger.Info(ctx, "Starting server on port %v", port)
		return router.StartServer(port, func(r router.Router) {
			r.Use(diag.NewRequestIDMiddleware())
			r.Use(diag.NewRecoveryMiddleware())
			r.Use(diag.NewLogRequestsMiddleware())

			api.New(
				api.WithAuthService(authSvc),
				api.WithLedgerService(ledgerSvc),
				api.WithQueryService(querySvc),
				api.WithAdmissionFilter(filter),
			).Register(r)
		})
	}); err != nil {
		logger.WithError(err).Error(ctx, "Server failed")
		os.Exit(1)
	}
}
