package cmd

import (
	"fmt"
	"os"

	"github.com/example/askbox/internal/directory"
	"github.com/example/askbox/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var username string

	c := &cobra.Command{
		Use:   "add",
		Short: "Register a username from the shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			logger := zap.Must(zap.NewProduction()).Sugar()
			defer func() { _ = logger.Sync() }()

			dataFile := os.Getenv("DATA_FILE")
			if dataFile == "" {
				dataFile = "askbox.json"
			}

			st, err := store.Open(dataFile, logger)
			if err != nil {
				return err
			}

			u, err := directory.New(st).Register(username, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created user %q (id=%s)\n", u.Username, u.ID)
			return nil
		},
	}

	c.Flags().StringVar(&username, "username", "", "username")
	_ = c.MarkFlagRequired("username")
	return c
}
