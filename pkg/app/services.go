package app

import (
	"database/sql"
	"time"

	"go.uber.org/dig"

	"github.com/dakshbank/ledger-service/config"
	"github.com/dakshbank/ledger-service/pkg/admission"
	"github.com/dakshbank/ledger-service/pkg/auth"
	"github.com/dakshbank/ledger-service/pkg/dal"
	"github.com/dakshbank/ledger-service/pkg/ledger"
	"github.com/dakshbank/ledger-service/pkg/query"
)

// Injector is a function that will inject desired services
// to a target function
type Injector func(function interface{}) error

// BootstrapServices setup di container with all app services
func BootstrapServices(appCfg *config.AppConfig) Injector {
	c := dig.New()

	c.Provide(func() (*sql.DB, error) {
		return sql.Open(appCfg.Storage.Driver.Value(), appCfg.Storage.DSN.Value())
	})

	c.Provide(func(db *sql.DB) (dal.Storage, error) {
		return dal.NewSQLStorage(dal.WithSQLDb(db))
	})

	c.Provide(func(storage dal.Storage) auth.Service {
		return auth.NewService(
			auth.WithStorage(storage),
			auth.WithTokenTTL(time.Duration(appCfg.Auth.TokenTTLHours.Value())*time.Hour),
		)
	})

	c.Provide(func(storage dal.Storage) ledger.Service {
		return ledger.NewService(ledger.WithStorage(storage))
	})

	c.Provide(func(storage dal.Storage) query.Service {
		return query.NewService(query.WithStorage(storage))
	})

	c.Provide(func() admission.Filter {
		budget := func(b config.AdmissionBudget) admission.Limit {
			return admission.Limit{PerSecond: float64(b.PerSecond.Value()), Burst: b.Burst.Value()}
		}
		return admission.NewFilter(
			admission.WithLimit(admission.ClassGeneral, budget(appCfg.Admission.General)),
			admission.WithLimit(admission.ClassAuth, budget(appCfg.Admission.Auth)),
			admission.WithLimit(admission.ClassTransaction, budget(appCfg.Admission.Transaction)),
		)
	})

	return func(function interface{}) error {
		return c.Invoke(function)
	}
}
