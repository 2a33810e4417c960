package main

import (
	"errors"
	"fmt"

	"github.com/dalemusser/repairhub/internal/app/bootstrap"
	"github.com/spf13/cobra"
)

func init() {
	var username, password string
	var createAdminCmd = &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator, or promote an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--username is required")
			}
			db, closeFn, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := bootstrap.EnsureAdmin(cmd.Context(), db, username, password, logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is an administrator\n", username)
			return nil
		},
	}
	createAdminCmd.Flags().StringVar(&username, "username", "", "Administrator username")
	createAdminCmd.Flags().StringVar(&password, "password", "", "Password, used only when the user is created")
	rootCmd.AddCommand(createAdminCmd)
}
