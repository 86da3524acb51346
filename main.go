package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mesaja/seating/config"
	"github.com/mesaja/seating/middlewares"
	"github.com/mesaja/seating/models"
	"github.com/mesaja/seating/utils"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mesaja",
		Short:         "MesaJa seating service",
		Long:          "MesaJa runs the waiting queue, table allocation and staff notifications of a restaurant floor.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newTokenCommand())

	if err := rootCmd.Execute(); err != nil {
		utils.ErrorLogger.Errorf("%v", err)
		os.Exit(1)
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			utils.SetLevel(cfg.LogLevel)

			db, err := config.InitDB(cfg.DB)
			if err != nil {
				return err
			}
			return autoMigrate(db)
		},
	}
}

func newTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a staff access token signed with JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			switch role {
			case middlewares.RoleManager, middlewares.RoleStaff:
			default:
				return fmt.Errorf("invalid --role %q; use %s|%s", role, middlewares.RoleStaff, middlewares.RoleManager)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, err := utils.GenerateToken([]byte(cfg.JWTSecret), name, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Staff member name")
	cmd.Flags().String("role", middlewares.RoleStaff, "Role: staff|manager")
	cmd.Flags().Duration("ttl", 12*time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func autoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to AutoMigrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}
