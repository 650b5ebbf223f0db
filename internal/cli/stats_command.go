package cli

import (
	"context"
	"fmt"
	"io"

	"taskboard/internal/services"
)

// StatsOptions are the flags of the stats command
type StatsOptions struct {
	User   string
	Format string
}

// StatsCommand prints the due-date statistics of a user's board
type StatsCommand struct {
	app  *App
	opts *StatsOptions
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App, opts *StatsOptions) *StatsCommand {
	if opts == nil {
		opts = &StatsOptions{}
	}
	return &StatsCommand{app: app, opts: opts}
}

// Execute runs the stats command
func (c *StatsCommand) Execute(ctx context.Context, args []string) error {
	format, err := parseFormat(c.opts.Format)
	if err != nil {
		return err
	}

	return c.app.withServices(ctx, func(svc *services.ServiceContainer) error {
		account, err := resolveUser(ctx, svc, c.opts.User)
		if err != nil {
			return err
		}

		stats, err := svc.BoardService.GetStatistics(ctx, account.ID)
		if err != nil {
			return err
		}

		switch format {
		case FormatJSON:
			return writeJSON(c.app.out, stats)
		case FormatCSV:
			fmt.Fprintln(c.app.out, "Overdue,Due Today,Due This Week,Total")
			fmt.Fprintf(c.app.out, "%d,%d,%d,%d\n", stats.Overdue, stats.DueToday, stats.DueWeek, stats.Total)
			return nil
		default:
			writeStatsLine(c.app.out, *stats)
			return nil
		}
	})
}

func writeStatsLine(w io.Writer, stats services.BoardStatistics) {
	fmt.Fprintf(w, "Overdue: %d  Due today: %d  Due this week: %d  Total: %d\n",
		stats.Overdue, stats.DueToday, stats.DueWeek, stats.Total)
}
