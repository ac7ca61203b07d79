package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dwhalen/todo-list/cmd/todo/commands"
)

func main() {
	var serverURL string

	rootCmd := &cobra.Command{
		Use:   "todo",
		Short: "Client for the todo-list server",
		Long:  "Manage todos from the command line or the interactive terminal UI",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the todo-list server")

	rootCmd.AddCommand(commands.NewListCmd(&serverURL))
	rootCmd.AddCommand(commands.NewAddCmd(&serverURL))
	rootCmd.AddCommand(commands.NewToggleCmd(&serverURL))
	rootCmd.AddCommand(commands.NewDeleteCmd(&serverURL))
	rootCmd.AddCommand(commands.NewTUICmd(&serverURL))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
