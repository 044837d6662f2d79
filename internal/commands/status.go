package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"subcon/internal/api"
	"subcon/internal/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the requests 'status' has in flight at once
const maxConcurrentLookups = 4

type lookupResult struct {
	userID       string
	subscription json.RawMessage
	err          error
}

var statusCmd = &cobra.Command{
	Use:   "status [userId...]",
	Short: "Show subscription status",
	Long: `Fetch the current subscription of one or more users. Without arguments the
configured default user is looked up. Lookups run concurrently; results are
printed in argument order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{globalConfig.DefaultUserID}
		}

		client := newClient()
		results := make([]lookupResult, len(args))

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(maxConcurrentLookups)
		for i, userID := range args {
			g.Go(func() error {
				sub, err := client.GetSubscriptionStatus(ctx, userID)
				results[i] = lookupResult{userID: userID, subscription: sub, err: err}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.err != nil {
				failed++
			}
			printLookup(cmd.OutOrStdout(), r)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d lookups failed", failed, len(results))
		}
		return nil
	},
}

func printLookup(w io.Writer, r lookupResult) {
	if r.err != nil {
		color.New(color.FgRed).Fprintf(w, "✗ %s: %s\n", r.userID, api.DescribeError("Error: ", r.err))
		return
	}

	color.New(color.FgGreen).Fprintf(w, "✓ %s\n", r.userID)
	if r.subscription == nil {
		fmt.Fprintln(w, "No subscription returned.")
		return
	}
	fmt.Fprintln(w, util.PrettyJSON(r.subscription))
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
