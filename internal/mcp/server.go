package mcp

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/martinsuchenak/netorg/internal/classify"
	"github.com/martinsuchenak/netorg/internal/health"
	"github.com/martinsuchenak/netorg/internal/identify"
	"github.com/martinsuchenak/netorg/internal/log"
	"github.com/martinsuchenak/netorg/internal/model"
	"github.com/martinsuchenak/netorg/internal/organize"
	"github.com/martinsuchenak/netorg/internal/oui"
	"github.com/martinsuchenak/netorg/internal/report"
	"github.com/martinsuchenak/netorg/internal/storage"
	"github.com/martinsuchenak/netorg/internal/unifi"
	"github.com/paularlott/mcp"
)

// Controller is the subset of the controller client the MCP tools need.
type Controller interface {
	FetchClients(ctx context.Context) ([]model.Client, error)
	FetchDevices(ctx context.Context) ([]model.Device, error)
	CommitReservation(ctx context.Context, mac, ip, hostname string) error
}

// Server wraps the MCP server with the organizer collaborators
type Server struct {
	mcpServer   *mcp.Server
	storage     storage.Storage
	controller  Controller
	organizer   *organize.Organizer
	advisor     *health.Advisor
	classifier  *classify.Classifier
	identifier  *identify.Identifier
	bearerToken string
}

// NewServer creates a new MCP server for network organization
func NewServer(store storage.Storage, controller Controller, organizer *organize.Organizer,
	advisor *health.Advisor, classifier *classify.Classifier, identifier *identify.Identifier,
	bearerToken string) *Server {
	s := &Server{
		mcpServer:   mcp.NewServer("netorg", "1.0.0"),
		storage:     store,
		controller:  controller,
		organizer:   organizer,
		advisor:     advisor,
		classifier:  classifier,
		identifier:  identifier,
		bearerToken: bearerToken,
	}
	s.registerTools()
	return s
}

// registerTools registers all organization tools
func (s *Server) registerTools() {
	// organize_run - Run an organization pass
	s.mcpServer.RegisterTool(
		mcp.NewTool("organize_run", "Run an organization pass over the network: classify every client, assign each one an address in its category range, and report the outcome. Dry run by default.",
			mcp.String("apply", "Set to 'true' to commit the assignments as fixed-IP reservations on the controller"),
		),
		s.handleOrganizeRun,
	)

	// run_list - List past organization runs
	s.mcpServer.RegisterTool(
		mcp.NewTool("run_list", "List past organization runs, newest first",
			mcp.String("limit", "Maximum number of runs to return (default 10)"),
		),
		s.handleRunList,
	)

	// run_get - Get the report for a past run
	s.mcpServer.RegisterTool(
		mcp.NewTool("run_get", "Get the full report for a past organization run",
			mcp.String("id", "Run ID", mcp.Required()),
		),
		s.handleRunGet,
	)

	// classify_client - Classify a single client without touching the network
	s.mcpServer.RegisterTool(
		mcp.NewTool("classify_client", "Classify a hypothetical or real client by its attributes and show which category it would land in",
			mcp.String("mac", "Client MAC address", mcp.Required()),
			mcp.String("name", "Client name or hostname"),
			mcp.String("os", "Operating system reported by fingerprinting"),
			mcp.String("model", "Device model reported by fingerprinting"),
		),
		s.handleClassifyClient,
	)

	// oui_lookup - Look up a MAC address manufacturer
	s.mcpServer.RegisterTool(
		mcp.NewTool("oui_lookup", "Look up the manufacturer for a MAC address prefix",
			mcp.String("mac", "MAC address or prefix", mcp.Required()),
		),
		s.handleOUILookup,
	)

	// health_check - Evaluate network health
	s.mcpServer.RegisterTool(
		mcp.NewTool("health_check", "Evaluate network health: weak wireless signals, overloaded access points, stale clients"),
		s.handleHealthCheck,
	)
}

// HandleRequest handles MCP HTTP requests with optional bearer token authentication
func (s *Server) HandleRequest(w http.ResponseWriter, r *http.Request) {
	log.Debug("MCP request received", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)

	// Check bearer token if configured
	if s.bearerToken != "" {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			log.Warn("MCP request missing Authorization header", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Missing Authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			log.Warn("MCP request invalid Authorization format", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Invalid Authorization format", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")
		if token != s.bearerToken {
			log.Warn("MCP request invalid token", "remote_addr", r.RemoteAddr)
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}
	}

	s.mcpServer.HandleRequest(w, r)
}

func (s *Server) handleOrganizeRun(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	apply := req.StringOr("apply", "") == "true"

	log.Debug("MCP organize run", "apply", apply)

	clients, err := s.controller.FetchClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching clients: %w", err)
	}
	devices, err := s.controller.FetchDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching devices: %w", err)
	}
	unifi.ResolveUplinks(clients, devices)

	opts := organize.Options{Apply: apply}
	if apply {
		opts.Committer = s.controller
	}

	result, err := s.organizer.Run(ctx, clients, opts)
	if err != nil {
		return nil, err
	}

	if err := s.storage.SaveRun(result); err != nil {
		log.Error("Failed to persist run", "run_id", result.RunID, "error", err)
	}

	return mcp.NewToolResponseText(report.Markdown(result)), nil
}

func (s *Server) handleRunList(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	limit := 10
	if v := req.StringOr("limit", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, mcp.NewToolErrorInvalidParams("limit must be a positive integer")
		}
		limit = n
	}

	runs, err := s.storage.ListRuns(limit)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return mcp.NewToolResponseText("No runs recorded"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d run(s):\n\n", len(runs))
	for _, r := range runs {
		mode := "dry-run"
		if r.Applied {
			mode = "applied"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): %d clients, %d organized, %d unclassified, %d rejected\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), mode,
			r.Total, r.Organized, r.Unclassified, r.Rejected)
	}

	return mcp.NewToolResponseText(b.String()), nil
}

func (s *Server) handleRunGet(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	id, err := req.String("id")
	if err != nil {
		return nil, mcp.NewToolErrorInvalidParams("id is required: " + err.Error())
	}

	result, err := s.storage.GetRun(id)
	if err != nil {
		if err == storage.ErrRunNotFound {
			return mcp.NewToolResponseText(fmt.Sprintf("No run found with ID: %s", id)), nil
		}
		return nil, err
	}

	return mcp.NewToolResponseText(report.Markdown(result)), nil
}

func (s *Server) handleClassifyClient(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	mac, err := req.String("mac")
	if err != nil {
		return nil, mcp.NewToolErrorInvalidParams("mac is required: " + err.Error())
	}

	client := model.Client{
		MAC:  mac,
		Name: req.StringOr("name", ""),
	}
	osName := req.StringOr("os", "")
	devModel := req.StringOr("model", "")
	if osName != "" || devModel != "" {
		client.Meta = &model.ClientMeta{OSName: osName, DeviceModel: devModel}
	}

	match, ok := s.classifier.Classify(&client)
	if !ok {
		guess := s.identifier.Describe(&client)
		return mcp.NewToolResponseText(fmt.Sprintf("No rule matched. Suggestion: %s", guess)), nil
	}

	return mcp.NewToolResponseText(fmt.Sprintf("Category: %s (matched on %s, rule priority %d)",
		match.Category, match.Tier.String(), match.Priority)), nil
}

func (s *Server) handleOUILookup(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	mac, err := req.String("mac")
	if err != nil {
		return nil, mcp.NewToolErrorInvalidParams("mac is required: " + err.Error())
	}
	if oui.Prefix(mac) == "" {
		return nil, mcp.NewToolErrorInvalidParams("not a valid MAC address or prefix: " + mac)
	}

	manufacturer := oui.Lookup(mac)
	if manufacturer == oui.Unknown {
		return mcp.NewToolResponseText(fmt.Sprintf("No manufacturer known for prefix %s", oui.Prefix(mac))), nil
	}

	resp := fmt.Sprintf("Manufacturer: %s", manufacturer)
	if hint := oui.ProductHint(manufacturer); hint != "" {
		resp += fmt.Sprintf("\nLikely product: %s", hint)
	}

	return mcp.NewToolResponseText(resp), nil
}

func (s *Server) handleHealthCheck(ctx context.Context, req *mcp.ToolRequest) (*mcp.ToolResponse, error) {
	clients, err := s.controller.FetchClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching clients: %w", err)
	}
	devices, err := s.controller.FetchDevices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching devices: %w", err)
	}

	recs := s.advisor.Evaluate(clients, devices)
	return mcp.NewToolResponseText(report.HealthMarkdown(recs)), nil
}
