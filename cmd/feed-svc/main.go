package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "feed-svc",
		Short: "Tweet feed, search and engagement API",
		Long: `feed-svc serves the news feed, child tweet listings and full-text search
over the tweets stored in MongoDB.

Configuration is read from the environment, with a .env file in the working
directory loaded first when present.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newIndexesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
