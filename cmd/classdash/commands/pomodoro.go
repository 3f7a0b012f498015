package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/classdash/core/internal/application/services"
	"github.com/classdash/core/internal/domain/entities"
	"github.com/classdash/core/internal/infrastructure/logger"
	"github.com/classdash/core/internal/infrastructure/metrics"
)

// NewPomodoroCommand creates the pomodoro command
func NewPomodoroCommand() *cobra.Command {
	var workMinutes, breakMinutes int

	cmd := &cobra.Command{
		Use:   "pomodoro",
		Short: "Run one pomodoro phase in the terminal",
		Long:  "Count one work phase down in the terminal. Interrupt to stop early.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			timer := services.NewPomodoroService(workMinutes, breakMinutes, metrics.New(), logger.NewNop())
			defer timer.Close()

			if _, err := timer.Configure(workMinutes, breakMinutes); err != nil {
				return err
			}
			timer.Toggle()

			out := cmd.OutOrStdout()
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()

			for {
				s := timer.State()
				fmt.Fprintf(out, "\r%s %s", s.Mode, s.Display())
				if !s.Running {
					fmt.Fprintf(out, "\nPhase finished, next: %s (%d min)\n", s.Mode, s.PhaseMinutes())
					return nil
				}

				select {
				case <-ctx.Done():
					fmt.Fprintln(out, "\nStopped")
					return nil
				case <-ticker.C:
				}
			}
		},
	}

	cmd.Flags().IntVar(&workMinutes, "work", entities.DefaultWorkMinutes, "Work phase length in minutes")
	cmd.Flags().IntVar(&breakMinutes, "break", entities.DefaultBreakMinutes, "Break phase length in minutes")
	return cmd
}
