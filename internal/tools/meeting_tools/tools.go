package meeting_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetscheduler/internal/meeting"
	"github.com/teemow/meetscheduler/internal/server"
	"github.com/teemow/meetscheduler/internal/timeslot"
	"github.com/teemow/meetscheduler/internal/tools/common"
)

// Tool names.
const (
	ToolCreateInstant = "meeting_create_instant"
	ToolSchedule      = "meeting_schedule"
	ToolTimeSlots     = "meeting_time_slots"
)

const dateLayout = "2006-01-02"

// Tools returns the meeting tool definitions.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolCreateInstant,
			mcp.WithDescription("Create a Google Meet meeting that starts now and return its join link. "+
				"The temporary calendar event used to obtain the link is removed afterwards."),
		),
		mcp.NewTool(ToolSchedule,
			mcp.WithDescription("Schedule a Google Meet meeting at a future date and time. "+
				"Creates a calendar event with a conference link."),
			mcp.WithString("date_time",
				mcp.Required(),
				mcp.Description("Start of the meeting: RFC 3339 (e.g. '2024-01-01T15:30:00Z'), local ISO-8601 (e.g. '2024-01-01T15:30') or 'dd-mm-yyyy h:mma' (e.g. '01-01-2024 3:30pm'); values without an offset use the server's time zone"),
			),
			mcp.WithString("title",
				mcp.Description("Meeting title (default: 'Scheduled Meeting')"),
			),
		),
		mcp.NewTool(ToolTimeSlots,
			mcp.WithDescription("List the 15 minute time slots still available on a day"),
			mcp.WithString("date",
				mcp.Description("Day in YYYY-MM-DD format (default: today)"),
			),
		),
	}
}

// RegisterMeetingTools registers the meeting tools with the MCP server.
func RegisterMeetingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	handlers := map[string]common.ToolHandler{
		ToolCreateInstant: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateInstant(ctx, request, sc)
		},
		ToolSchedule: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSchedule(ctx, request, sc)
		},
		ToolTimeSlots: func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleTimeSlots(ctx, request, sc)
		},
	}

	for _, tool := range Tools() {
		handler, ok := handlers[tool.Name]
		if !ok {
			return fmt.Errorf("no handler for tool %s", tool.Name)
		}
		s.AddTool(tool, common.InstrumentedToolHandler(tool.Name, sc, handler))
	}
	return nil
}

func handleCreateInstant(ctx context.Context, _ mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	token, err := sc.AccessToken(ctx)
	if err != nil {
		return mcp.NewToolResultError(common.ErrorMessage(err)), nil
	}

	m, err := sc.Meetings().CreateInstant(ctx, token)
	if err != nil {
		return mcp.NewToolResultError(common.ErrorMessage(err)), nil
	}
	return mcp.NewToolResultText(formatMeeting("Instant meeting created", m, sc.Meetings().Location())), nil
}

func handleSchedule(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	req := meeting.ScheduleRequest{
		DateTime: common.StringArg(args, "date_time"),
		Title:    common.StringArg(args, "title"),
	}
	if req.DateTime == "" {
		return mcp.NewToolResultError("date_time is required"), nil
	}

	token, err := sc.AccessToken(ctx)
	if err != nil {
		return mcp.NewToolResultError(common.ErrorMessage(err)), nil
	}

	m, err := sc.Meetings().CreateScheduled(ctx, token, req)
	if err != nil {
		return mcp.NewToolResultError(common.ErrorMessage(err)), nil
	}
	return mcp.NewToolResultText(formatMeeting("Meeting scheduled", m, sc.Meetings().Location())), nil
}

func handleTimeSlots(_ context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	svc := sc.Meetings()
	now := svc.Now()
	day := now

	if date := common.StringArg(request.GetArguments(), "date"); date != "" {
		parsed, err := time.ParseInLocation(dateLayout, date, svc.Location())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", date)), nil
		}
		day = parsed
	}

	slots := timeslot.Generate(day, now)
	if len(slots) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No time slots left on %s.", day.Format(dateLayout))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d time slot(s) on %s (%s):\n\n", len(slots), day.Format(dateLayout), svc.Location())
	for _, slot := range slots {
		fmt.Fprintf(&b, "- %s  %s\n", slot.Label, slot.Value)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// formatMeeting renders m with times in loc.
func formatMeeting(heading string, m *meeting.Meeting, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n\n", heading)
	fmt.Fprintf(&b, "Link: %s\n", m.MeetingLink)
	fmt.Fprintf(&b, "Event ID: %s\n", m.MeetingID)
	fmt.Fprintf(&b, "Start: %s (%s)\n", timeslot.Format(m.StartTime.In(loc)), timeslot.FormatWire(m.StartTime))
	fmt.Fprintf(&b, "End: %s (%s)\n", timeslot.Format(m.EndTime.In(loc)), timeslot.FormatWire(m.EndTime))
	return b.String()
}
