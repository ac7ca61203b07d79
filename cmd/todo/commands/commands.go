// Package commands implements the todo CLI subcommands. Each command is a
// thin wrapper over the API client; the tui command hands control to the
// interactive terminal UI.
package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dwhalen/todo-list/internal/client"
	"github.com/dwhalen/todo-list/internal/client/state"
	"github.com/dwhalen/todo-list/internal/tui"
)

// NewListCmd prints all todos, grouped into active and completed.
func NewListCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*serverURL)
			todos, err := c.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(todos) == 0 {
				fmt.Println("No todos yet.")
				return nil
			}

			active, completed := state.Partition(todos)
			if len(active) > 0 {
				fmt.Println("Active:")
				for _, t := range active {
					printTodo(t.ID, t.Title, t.Description, false)
				}
			}
			if len(completed) > 0 {
				fmt.Println("Completed:")
				for _, t := range completed {
					printTodo(t.ID, t.Title, t.Description, true)
				}
			}
			return nil
		},
	}
}

// NewAddCmd creates a todo from the command line.
func NewAddCmd(serverURL *string) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(*serverURL)
			todo, err := c.Create(cmd.Context(), strings.Join(args, " "), description)
			if err != nil {
				return err
			}
			fmt.Printf("Created todo #%d: %s\n", todo.ID, todo.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "Optional description")
	return cmd
}

// NewToggleCmd flips the completed flag of a todo.
func NewToggleCmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Toggle a todo's completed state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			c := client.New(*serverURL)
			todo, err := c.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}

			status := "active"
			if todo.Completed {
				status = "completed"
			}
			fmt.Printf("Todo #%d is now %s\n", todo.ID, status)
			return nil
		},
	}
}

// NewDeleteCmd removes a todo, asking for confirmation unless --yes is set.
func NewDeleteCmd(serverURL *string) *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !skipConfirm {
				fmt.Printf("Delete todo #%d? [y/N] ", id)
				reader := bufio.NewReader(os.Stdin)
				answer, _ := reader.ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			c := client.New(*serverURL)
			if err := c.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted todo #%d\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// NewTUICmd starts the interactive terminal UI.
func NewTUICmd(serverURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(client.New(*serverURL))
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid todo id %q", arg)
	}
	return id, nil
}

func printTodo(id int64, title string, description *string, completed bool) {
	box := "[ ]"
	if completed {
		box = "[x]"
	}
	line := fmt.Sprintf("  %s #%d %s", box, id, title)
	if description != nil {
		line += " — " + *description
	}
	fmt.Println(line)
}
