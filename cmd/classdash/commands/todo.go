package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/classdash/core/internal/domain/entities"
)

// NewTodoCommand creates the todo command with subcommands
func NewTodoCommand() *cobra.Command {
	todoCmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the to-do list",
	}

	todoCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List to-do items",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			items, err := c.Todos.List(cmd.Context())
			if err != nil {
				return err
			}
			renderTodos(cmd.OutOrStdout(), items)
			return nil
		},
	})

	todoCmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add an item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			item, err := c.Todos.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", item.ID)
			return nil
		},
	})

	todoCmd.AddCommand(&cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark an item done or open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			item, err := c.Todos.Toggle(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderTodos(cmd.OutOrStdout(), []entities.TodoItem{*item})
			return nil
		},
	})

	todoCmd.AddCommand(&cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			return c.Todos.Delete(cmd.Context(), args[0])
		},
	})

	todoCmd.AddCommand(&cobra.Command{
		Use:   "clear-done",
		Short: "Delete every finished item",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer teardown(c)

			removed, err := c.Todos.ClearDone(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d item(s)\n", removed)
			return nil
		},
	})

	return todoCmd
}

func renderTodos(w io.Writer, items []entities.TodoItem) {
	for _, item := range items {
		box := "[ ]"
		if item.Done {
			box = "[x]"
		}
		fmt.Fprintf(w, "%s %s  %s\n", box, item.ID, item.Text)
	}
	p := entities.ComputeTodoProgress(items)
	fmt.Fprintf(w, "%d/%d done (%.0f%%)\n", p.Done, p.Total, p.Percent)
}
