package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "psetu",
		Usage: "P-SETU backend: accounts, donations, eSewa payments and sign detection",
		Before: func(*cli.Context) error {
			// Command flags read their EnvVars after this, so .env values apply to them too.
			_ = godotenv.Load()
			return nil
		},
		Commands: []*cli.Command{
			serveCommand,
			seedCommand,
			signCommand,
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
