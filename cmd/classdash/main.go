package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/classdash/core/cmd/classdash/commands"
)

// @title classdash API
// @version 1.0
// @description Class dashboard: schedule, to-dos, pomodoro, test countdown and the shared dataset admin

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin token.

func main() {
	rootCmd := &cobra.Command{
		Use:          "classdash",
		Short:        "Class dashboard server and CLI",
		Long:         `classdash serves a single-class dashboard (clock, schedule, to-dos, pomodoro, test countdown) and publishes the shared schedule dataset to a GitHub repository.`,
		SilenceUsage: true,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDashboardCommand())
	rootCmd.AddCommand(commands.NewDatasetCommand())
	rootCmd.AddCommand(commands.NewSettingsCommand())
	rootCmd.AddCommand(commands.NewCredentialsCommand())
	rootCmd.AddCommand(commands.NewTodoCommand())
	rootCmd.AddCommand(commands.NewPomodoroCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
