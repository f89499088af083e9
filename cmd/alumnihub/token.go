package main

import (
	"fmt"
	"time"

	"github.com/Alumni-Hub/Alumni-Hub-Backend/security"
	"github.com/spf13/cobra"
)

var createTokenCmd = &cobra.Command{
	Use:   "create-token --id ID --name NAME",
	Short: "Issue an admin identity token",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetInt("id")
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		expires, _ := cmd.Flags().GetDuration("expires")
		if id <= 0 || name == "" {
			return fmt.Errorf("--id and --name are required")
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.SigningSecret == "" {
			return fmt.Errorf("ALUMNIHUB_SIGNING_SECRET is not set")
		}

		token, err := security.CreateIdentityToken(&security.AdminIdentity{
			Id:       id,
			UserName: name,
			Email:    email,
		}, cfg.SigningSecret, expires)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	createTokenCmd.Flags().Int("id", 0, "Admin user id recorded as markedBy")
	createTokenCmd.Flags().String("name", "", "Admin user name")
	createTokenCmd.Flags().String("email", "", "Admin email")
	createTokenCmd.Flags().Duration("expires", 12*time.Hour, "Token lifetime")
}
