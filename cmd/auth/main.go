package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dakshbank/ledger-service/pkg/app"
	"github.com/dakshbank/ledger-service/pkg/auth"
	"github.com/dakshbank/ledger-service/pkg/core/diag"
)

var logger = diag.CreateLogger()

var cliArgs struct {
	cmd         string
	principalID string
	displayName string
	secret      string
}

func init() {
	flag.StringVar(&cliArgs.cmd, "cmd", "", "Command to run. Available commands: enroll, issue-token")
	flag.StringVar(&cliArgs.principalID, "principal", "", "Principal id")
	flag.StringVar(&cliArgs.displayName, "name", "", "Display name, defaults to principal id")
	flag.StringVar(&cliArgs.secret, "secret", "", "Principal secret")

	flag.Parse()
}

func showHelpAndExit() {
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	if cliArgs.cmd == "" || cliArgs.principalID == "" || cliArgs.secret == "" {
		showHelpAndExit()
	}

	appCfg := app.LoadConfig()
	app.SetupLogging(appCfg)

	injector := app.BootstrapServices(appCfg)
	ctx := context.Background()

	switch cliArgs.cmd {
	case "enroll":
		if err := injector(func(authSvc auth.Service) error {
			principal, err := authSvc.Enroll(ctx, auth.EnrollRequest{
				PrincipalID: cliArgs.principalID,
				DisplayName: cliArgs.displayName,
				Secret:      cliArgs.secret,
			})
			if err != nil {
				return err
			}
			fmt.Println("Enrolled principal", principal.ID)
			return nil
		}); err != nil {
			logger.WithError(err).Error(ctx, "Failed to enroll principal")
			os.Exit(1)
		}

	case "issue-token":
		if err := injector(func(authSvc auth.Service) error {
			session, err := authSvc.IssueToken(ctx, cliArgs.principalID, cliArgs.secret)
			if err != nil {
				return err
			}
			fmt.Println("Token:", session.Token.Value())
			fmt.Println("Expires at:", session.ExpiresAt)
			return nil
		}); err != nil {
			logger.WithError(err).Error(ctx, "Failed to issue token")
			os.Exit(1)
		}

	default:
		flag.PrintDefaults()
		os.Exit(1)
	}
}
