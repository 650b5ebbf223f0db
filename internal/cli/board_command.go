package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/errors"
	"taskboard/internal/services"
)

// DisplayLayout is how due and creation dates are printed
const DisplayLayout = "2006-01-02 15:04"

// Output formats shared by board and stats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// BoardOptions are the flags of the board command
type BoardOptions struct {
	User     string
	Search   string
	Status   string
	Category string
	Sort     string
	Format   string
}

// BoardCommand prints a user's board
type BoardCommand struct {
	app  *App
	opts *BoardOptions
}

// NewBoardCommand creates a new board command handler. opts is read at Execute time so it can
// be bound to flags.
func NewBoardCommand(app *App, opts *BoardOptions) *BoardCommand {
	if opts == nil {
		opts = &BoardOptions{}
	}
	return &BoardCommand{app: app, opts: opts}
}

// Execute runs the board command. A positional argument is used as the search text when --q is unset.
func (c *BoardCommand) Execute(ctx context.Context, args []string) error {
	search := c.opts.Search
	if search == "" && len(args) > 0 {
		search = strings.Join(args, " ")
	}

	format, err := parseFormat(c.opts.Format)
	if err != nil {
		return err
	}

	query := domain.ParseQuery(search, c.opts.Status, c.opts.Category, c.opts.Sort)

	return c.app.withServices(ctx, func(svc *services.ServiceContainer) error {
		account, err := resolveUser(ctx, svc, c.opts.User)
		if err != nil {
			return err
		}

		board, err := svc.BoardService.GetBoard(ctx, account.ID, query)
		if err != nil {
			return err
		}

		loc, _ := c.app.config.Location()
		switch format {
		case FormatJSON:
			return writeJSON(c.app.out, board)
		case FormatCSV:
			return writeBoardCSV(c.app.out, board.Tasks, loc)
		default:
			return writeBoardTable(c.app.out, account.Username, board, loc)
		}
	})
}

func parseFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", errors.NewInvalidInputError("format", raw, "supported formats are table, json and csv")
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeBoardTable prints one section per category followed by the statistics line
func writeBoardTable(w io.Writer, username string, board *services.Board, loc *time.Location) error {
	fmt.Fprintf(w, "Board for %s: %d tasks shown\n", username, len(board.Tasks))

	if len(board.Groups) == 0 {
		fmt.Fprintln(w, "No tasks found.")
	}

	for _, group := range board.Groups {
		fmt.Fprintf(w, "\n%s (%d)\n", group.Category, len(group.Tasks))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
		for _, task := range group.Tasks {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
				task.ID, task.Status, task.Priority, formatDue(task, loc), task.Title)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	writeStatsLine(w, board.Stats)
	if board.Skipped > 0 {
		fmt.Fprintf(w, "%d malformed task records were skipped\n", board.Skipped)
	}
	return nil
}

// formatDue renders the due date with an overdue or today marker
func formatDue(task domain.Task, loc *time.Location) string {
	if task.DueDate == nil {
		return "-"
	}
	due := formatTime(task.DueDate, loc)
	switch {
	case task.IsOverdue:
		return due + " (overdue)"
	case task.IsDueToday:
		return due + " (today)"
	default:
		return due
	}
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc != nil {
		return t.In(loc).Format(DisplayLayout)
	}
	return t.Format(DisplayLayout)
}

// writeBoardCSV writes the filtered tasks in display order
func writeBoardCSV(w io.Writer, tasks []domain.Task, loc *time.Location) error {
	writer := csv.NewWriter(w)

	header := []string{"ID", "Title", "Description", "Status", "Priority", "Category", "Due Date", "Created At", "Overdue"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, task := range tasks {
		row := []string{
			strconv.FormatInt(task.ID, 10),
			task.Title,
			task.Description,
			string(task.Status),
			string(task.Priority),
			task.Category,
			formatTime(task.DueDate, loc),
			formatTime(task.CreatedAt, loc),
			strconv.FormatBool(task.IsOverdue),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
