package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/classdash/core/internal/application/services"
)

const clearScreen = "\033[H\033[2J"

// NewDashboardCommand creates the dashboard command
func NewDashboardCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the dashboard",
		Long:  "Fetch the shared dataset and print today's dashboard. With --watch it is redrawn every tick.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c, err := setup(ctx, true)
			if err != nil {
				return err
			}
			defer teardown(c)

			c.Load(ctx)
			out := cmd.OutOrStdout()

			if !watch {
				renderDashboard(out, c.Dashboard.View(c.Dashboard.Now()))
				return nil
			}

			err = c.Dashboard.Watch(ctx, func(view *services.DashboardView) error {
				fmt.Fprint(out, clearScreen)
				renderDashboard(out, view)
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Redraw on every tick until interrupted")
	return cmd
}

func renderDashboard(w io.Writer, v *services.DashboardView) {
	fmt.Fprintf(w, "%s  %s\n", v.Clock, v.Date)
	fmt.Fprintf(w, "%s\n\n", v.Greeting)

	next := v.NextClass.Label
	if v.NextClass.Period > 0 {
		state := "starts " + v.NextClass.Start
		if v.NextClass.InProgress {
			state = "in progress"
		}
		next = fmt.Sprintf("%d. %s (%s)", v.NextClass.Period, v.NextClass.Label, state)
	}
	fmt.Fprintf(w, "Next class: %s\n\n", next)

	fmt.Fprintf(w, "Schedule for %s (%s)\n", v.ClassID, v.Weekday)
	if v.NoClasses {
		fmt.Fprintln(w, "  No classes")
	}
	for _, p := range v.Periods {
		marker := " "
		if p.Current {
			marker = ">"
		}
		times := ""
		if p.Start != "" {
			times = p.Start + "-" + p.End
		}
		fmt.Fprintf(w, "%s %d  %-11s %s\n", marker, p.Period, times, p.Subject)
	}

	fmt.Fprintf(w, "\nNext test: %s  days left: %s\n", v.Countdown.Name, v.Countdown.Days)

	if v.Pomodoro != nil {
		state := "stopped"
		if v.Pomodoro.Running {
			state = "running"
		}
		fmt.Fprintf(w, "Pomodoro: %s %s (%s)\n", v.Pomodoro.Mode, v.Pomodoro.Display, state)
	}

	if v.Calendar.Configured {
		fmt.Fprintf(w, "Calendar: %s\n", v.Calendar.EmbedURL)
	}
	fmt.Fprintf(w, "Classes: %s\n", strings.Join(v.ClassOptions, ", "))
}
