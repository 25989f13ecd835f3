package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meshintel/deepresearch/internal/store"
	"github.com/meshintel/deepresearch/pkg/types"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show the current month's research usage against the plan limit",
	RunE: func(cmd *cobra.Command, args []string) error {
		userEmail, _ := cmd.Flags().GetString("user-email")

		usage, err := store.NewStore(types.StoreConfig{Path: viper.GetString("store.path")})
		if err != nil {
			return fmt.Errorf("opening usage store: %w", err)
		}
		defer usage.Close()

		user, err := usage.GetOrCreateUser(userEmail, "")
		if err != nil {
			return fmt.Errorf("resolving user: %w", err)
		}

		status, err := usage.CheckUsageLimit(user.ID, "research")
		if err != nil {
			return fmt.Errorf("checking usage limit: %w", err)
		}

		fmt.Printf("User:  %s (plan: %s)\n", user.Email, user.Plan)
		if status.Unlimited {
			fmt.Printf("Usage: %d research runs this month (unlimited plan)\n", status.Current)
			return nil
		}
		fmt.Printf("Usage: %d/%d research runs this month\n", status.Current, status.Limit)
		if !status.WithinLimit {
			fmt.Println("Limit reached. Upgrade the plan to continue this month.")
		}
		return nil
	},
}

func init() {
	usageCmd.Flags().String("user-email", defaultUserEmail, "user identity for usage tracking")

	rootCmd.AddCommand(usageCmd)
}
