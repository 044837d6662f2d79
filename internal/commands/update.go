package commands

import (
	"errors"
	"fmt"
	"time"

	"subcon/internal/api"
	"subcon/internal/models"
	"subcon/internal/util"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	updateUserID    string
	updatePlan      string
	updateEffective string
	updateNoRefresh bool
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change a user's subscription plan",
	Long: `Submit a plan change with an effective date. The date may be given as
YYYY-MM-DDTHH:MM in local time or as a full RFC 3339 timestamp; it is sent as
UTC. After a successful update the user's status is fetched again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := updateUserID
		if !cmd.Flags().Changed("user") {
			userID = globalConfig.DefaultUserID
		}
		effective := updateEffective
		if !cmd.Flags().Changed("effective") {
			effective = api.FormatEffectiveDate(time.Now())
		}

		if util.AnyBlank(userID, updatePlan, effective) {
			return models.ErrMissingFields
		}

		plan, err := models.ParsePlan(updatePlan)
		if err != nil {
			return err
		}

		effectiveDate, err := api.NormalizeEffectiveDate(effective, time.Local)
		if err != nil {
			return err
		}

		req := models.UpdateRequest{
			UserID:        userID,
			NewPlan:       plan,
			EffectiveDate: effectiveDate,
		}
		logger.WithFields(logrus.Fields{
			"user_id":        req.UserID,
			"plan":           req.NewPlan,
			"effective_date": req.EffectiveDate,
		}).Info("submitting subscription update")

		client := newClient()
		out := cmd.OutOrStdout()

		resp, err := client.UpdateSubscription(cmd.Context(), req)
		if err != nil {
			return errors.New(api.DescribeError("Error updating subscription: ", err))
		}

		color.New(color.FgGreen).Fprintln(out, "Subscription updated successfully!")
		if resp != nil {
			fmt.Fprintln(out, util.PrettyJSON(resp))
		}

		if updateNoRefresh {
			return nil
		}

		sub, err := client.GetSubscriptionStatus(cmd.Context(), req.UserID)
		printLookup(out, lookupResult{userID: req.UserID, subscription: sub, err: err})
		if err != nil {
			return fmt.Errorf("status refresh for %s failed", req.UserID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().StringVarP(&updateUserID, "user", "u", "", "User ID (defaults to the configured default user)")
	updateCmd.Flags().StringVarP(&updatePlan, "plan", "p", string(models.PlanMonthlySpiritual), "New plan: monthly_spiritual, annual_spiritual or free")
	updateCmd.Flags().StringVarP(&updateEffective, "effective", "e", "", "Effective date (defaults to now)")
	updateCmd.Flags().BoolVar(&updateNoRefresh, "no-refresh", false, "Skip fetching the status after the update")
}
