package main

import (
	"context"
	"flag"
	"os"

	"github.com/dakshbank/ledger-service/pkg/app"
	"github.com/dakshbank/ledger-service/pkg/core/diag"
	"github.com/dakshbank/ledger-service/pkg/dal"
)

var logger = diag.CreateLogger()

var cliArgs struct {
	cmd string
}

func init() {
	flag.StringVar(&cliArgs.cmd, "cmd", "", "Command to run. Available commands: setup")

	flag.Parse()
}

func showHelpAndExit() {
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	if cliArgs.cmd == "" {
		showHelpAndExit()
	}
	ctx := context.Background()

	appCfg := app.LoadConfig()
	app.SetupLogging(appCfg)

	injector := app.BootstrapServices(appCfg)

	switch cliArgs.cmd {
	case "setup":
		if err := injector(func(storage dal.Storage) error {
			return storage.Setup(ctx)
		}); err != nil {
			logger.WithError(err).Error(ctx, "Failed to setup storage")
			os.Exit(1)
		}

	default:
		flag.PrintDefaults()
		os.Exit(1)
	}
}
