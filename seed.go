package main

import (
	"context"
	"fmt"

	"psetu-backend/config"
	db "psetu-backend/database"
	"psetu-backend/services"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var samplePrograms = []services.ProgramInput{
	{
		Title:       "Sign Language Classes for Deaf Children",
		Description: "Fund weekly Nepali Sign Language classes for deaf children in rural schools.",
		GoalAmount:  150000,
		Category:    "Education",
		Location:    "Kathmandu",
		Urgent:      true,
	},
	{
		Title:       "Interpreter Training Program",
		Description: "Train community interpreters to support deaf people at hospitals and government offices.",
		GoalAmount:  250000,
		Category:    "Training",
		Location:    "Pokhara",
	},
	{
		Title:       "Hearing Aids for Elderly",
		Description: "Provide hearing aids and fitting sessions for elderly citizens with hearing loss.",
		GoalAmount:  100000,
		Category:    "Health",
	},
}

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Insert sample donation programs when none exist",
	Action: func(c *cli.Context) error {
		cfg, err := config.Load(logrus.StandardLogger())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := cfg.NewLogger()

		ctx := context.Background()

		client, err := db.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Disconnect(client, logger)

		donations := services.NewDonationService(db.NewProgramRepository(client.Database(cfg.MongoDatabase)), nil, logger)

		n, err := donations.Seed(ctx, samplePrograms)
		if err != nil {
			return fmt.Errorf("failed to seed donation programs: %w", err)
		}
		if n == 0 {
			logger.Info("donation programs already present, nothing seeded")
			return nil
		}

		logger.WithField("count", n).Info("donation programs seeded")
		return nil
	},
}
