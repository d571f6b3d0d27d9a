package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/meetscheduler/internal/instrumentation"
	"github.com/teemow/meetscheduler/internal/meeting"
	"github.com/teemow/meetscheduler/internal/timeslot"
)

const dateLayout = "2006-01-02"

// withApp runs fn with an app built from cmd's configuration. Logs go to
// stderr so stdout only carries the result.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = instrumentation.WithTransport(ctx, instrumentation.TransportCLI)

	a, err := newApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(ctx))

	return fn(ctx, a)
}

func newInstantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "instant",
		Short: "Create a meeting that starts now",
		Long: `Create a Google Meet meeting that starts now and print its join link.

The calendar event used to obtain the link is deleted right away, so the
meeting does not stay on the calendar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				token, err := a.accessToken(ctx)
				if err != nil {
					return err
				}
				m, err := a.meetings.CreateInstant(ctx, token)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), m)
			})
		},
	}
}

func newScheduleCmd() *cobra.Command {
	var req meeting.ScheduleRequest

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Create a meeting at a future time",
		Long: `Create a Google Meet meeting at a future time.

--at accepts RFC 3339 ("2024-01-01T15:30:00Z"), a local ISO-8601 time
("2024-01-01T15:30") or "dd-mm-yyyy h:mma" ("01-01-2024 3:30pm").
Values without an offset are interpreted in --time-zone.`,
		Example: `  meetscheduler schedule --at "2024-01-01T15:30:00Z" --title "Team Sync"
  meetscheduler schedule --at "01-01-2024 3:30pm" --time-zone Europe/Berlin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				token, err := a.accessToken(ctx)
				if err != nil {
					return err
				}
				m, err := a.meetings.CreateScheduled(ctx, token, req)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), m)
			})
		},
	}

	cmd.Flags().StringVar(&req.DateTime, "at", "", "Start of the meeting (required)")
	cmd.Flags().StringVar(&req.Title, "title", "", "Meeting title (default: \"Scheduled Meeting\")")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newSlotsCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the bookable time slots of a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, a *app) error {
				slots, err := daySlots(a.meetings, date)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), slots)
				}
				for _, slot := range slots {
					fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", slot.Label, slot.Value)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day in YYYY-MM-DD format (default: today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the slots as JSON")
	return cmd
}

// daySlots lists the slots of date, or of today when date is empty.
func daySlots(svc *meeting.Service, date string) ([]timeslot.TimeSlot, error) {
	now := svc.Now()
	day := now
	if date != "" {
		parsed, err := time.ParseInLocation(dateLayout, date, svc.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
		}
		day = parsed
	}
	return timeslot.Generate(day, now), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
