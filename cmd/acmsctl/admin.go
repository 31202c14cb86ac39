package main

import (
	"errors"
	"fmt"

	"acms/internal/domain/user"
	"acms/internal/repository"
	ucauth "acms/internal/usecase/auth"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an active administrator account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		email := viper.GetString("admin-email")
		password := viper.GetString("admin-password")
		if email == "" || password == "" {
			return errors.New("--email and --password are required")
		}

		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		svc := ucauth.NewService(repository.NewPostgresUserRepository(s.db))
		admin, err := svc.Register(cmd.Context(), ucauth.RegisterInput{
			Email:     email,
			Password:  password,
			FirstName: viper.GetString("admin-first-name"),
			LastName:  viper.GetString("admin-last-name"),
			Role:      user.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("creating admin: %w", err)
		}

		s.logger.Info("admin created", zap.String("email", admin.Email), zap.String("id", admin.ID.String()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().String("email", "", "admin email")
	createAdminCmd.Flags().String("password", "", "admin password")
	createAdminCmd.Flags().String("first-name", "", "admin first name")
	createAdminCmd.Flags().String("last-name", "", "admin last name")

	viper.BindPFlag("admin-email", createAdminCmd.Flags().Lookup("email"))
	viper.BindPFlag("admin-password", createAdminCmd.Flags().Lookup("password"))
	viper.BindPFlag("admin-first-name", createAdminCmd.Flags().Lookup("first-name"))
	viper.BindPFlag("admin-last-name", createAdminCmd.Flags().Lookup("last-name"))

	if err := viper.BindEnv("admin-password", "ACMS_ADMIN_PASSWORD"); err != nil {
		panic(err)
	}
}
