package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/fittrack/internal/timer"
)

type contextKey int

const userKey contextKey = iota

// UserFromContext extracts the login injected by the transport layer.
func UserFromContext(ctx context.Context) string {
	if login, ok := ctx.Value(userKey).(string); ok && login != "" {
		return login
	}
	return "local"
}

// WithUser returns a context carrying the caller's login.
func WithUser(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, userKey, login)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, clock timer.Clock, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("fittrack", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("fittrack gym and running log. Query workouts, exercise history, personal records, runs, body weight and calorie estimates. All tools are read-only."),
	)

	h := &handlers{ds: ds, clock: clock, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetExerciseHistory, Handler: h.getExerciseHistory},
		server.ServerTool{Tool: toolGetPersonalRecords, Handler: h.getPersonalRecords},
		server.ServerTool{Tool: toolGetRuns, Handler: h.getRuns},
		server.ServerTool{Tool: toolGetBodyWeight, Handler: h.getBodyWeight},
		server.ServerTool{Tool: toolGetCalories, Handler: h.getCalories},
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resToday, Handler: h.today},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
		server.ServerResource{Resource: resTrainingPlan, Handler: h.trainingPlan},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds    DataSource
	clock timer.Clock
	log   *slog.Logger
}

// --- Resource definitions ---

var resToday = mcp.NewResource(
	"fittrack://today",
	"Today",
	mcp.WithResourceDescription("Today's scheduled programs, the active workout or run, today's calories and the current body weight"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"fittrack://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("Workouts from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resTrainingPlan = mcp.NewResource(
	"fittrack://training_plan",
	"Training Plan",
	mcp.WithResourceDescription("Training days with their weekdays and exercises"),
	mcp.WithMIMEType("application/json"),
)
