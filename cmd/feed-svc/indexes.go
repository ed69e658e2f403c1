package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"gotweet/internal/config"
	"gotweet/internal/dbmongo"
	"gotweet/internal/wire"
)

func newIndexesCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes the feed queries rely on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			mc, cleanup, err := wire.InitializeMongo(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			names, err := dbmongo.EnsureIndexes(ctx, dbmongo.FeedIndexes(mc))
			for _, n := range names {
				cmd.Printf("index ready: %s\n", n)
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall deadline for index creation")
	return cmd
}
