package mcp

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/stephendolan/chartmogul-cli/internal/api"
	"github.com/stephendolan/chartmogul-cli/internal/apierror"
	"github.com/stephendolan/chartmogul-cli/internal/auth"
	"github.com/stephendolan/chartmogul-cli/internal/money"
)

// Tool describes an MCP tool definition.
type Tool struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema any    `json:"inputSchema"`
}

// ToolResult is returned from tool invocations.
type ToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ToolContent holds a single piece of tool output.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// jsonResult serializes a successful API value, normalizing monetary fields
// exactly once.
func jsonResult(v any) ToolResult {
	data, err := json.MarshalIndent(money.Normalize(v), "", "  ")
	if err != nil {
		return errorResult(err)
	}
	return ToolResult{Content: []ToolContent{{Type: "text", Text: string(data)}}}
}

// errorResult serializes a failure through the error classifier.
func errorResult(err error) ToolResult {
	data, merr := json.MarshalIndent(apierror.Handle(err), "", "  ")
	if merr != nil {
		data = []byte(`{"error":{"name":"unknown_error","detail":"An unexpected error occurred","statusCode":1}}`)
	}
	return ToolResult{
		Content: []ToolContent{{Type: "text", Text: string(data)}},
		IsError: true,
	}
}

// result folds an (value, error) pair into a ToolResult.
func result(v any, err error) ToolResult {
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(v)
}

// toolHandler is a function that handles an MCP tool call.
type toolHandler func(ctx context.Context, s *Server, params json.RawMessage) ToolResult

// toolEntry bundles a tool definition with its handler.
type toolEntry struct {
	Tool    Tool
	Handler toolHandler
}

// dateRangeParams are shared by the metrics tools.
type dateRangeParams struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Interval  string `json:"interval"`
}

func (p dateRangeParams) apiParams() api.Params {
	return api.Params{
		"start-date": p.StartDate,
		"end-date":   p.EndDate,
		"interval":   p.Interval,
	}
}

var dateRangeSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"startDate": {"type": "string", "description": "Start date (YYYY-MM-DD)"},
		"endDate": {"type": "string", "description": "End date (YYYY-MM-DD)"},
		"interval": {"type": "string", "enum": ["day", "week", "month", "quarter"], "description": "Aggregation interval"}
	},
	"required": ["startDate", "endDate"]
}`)

// metricsTool builds a tool entry for a single metrics endpoint.
func metricsTool(name, description, metric string) toolEntry {
	return toolEntry{
		Tool: Tool{Name: name, Description: description, InputSchema: dateRangeSchema},
		Handler: func(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
			var p dateRangeParams
			if len(params) > 0 {
				json.Unmarshal(params, &p)
			}
			return result(s.client.Metrics(ctx, metric, p.apiParams()))
		},
	}
}

func intParam(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// allTools returns the set of MCP tools the server exposes.
func allTools() []toolEntry {
	return []toolEntry{
		metricsTool("get_all_metrics",
			"Get all revenue metrics (MRR, ARR, ARPA, churn rates, LTV, customer count) for a date range",
			api.MetricAll),
		metricsTool("get_mrr",
			"Get Monthly Recurring Revenue (MRR) for a date range",
			api.MetricMRR),
		metricsTool("get_arr",
			"Get Annual Recurring Revenue (ARR) for a date range",
			api.MetricARR),
		metricsTool("get_customer_churn_rate",
			"Get customer churn rate for a date range",
			api.MetricCustomerChurnRate),
		metricsTool("get_mrr_churn_rate",
			"Get MRR churn rate for a date range",
			api.MetricMRRChurnRate),
		{
			Tool: Tool{
				Name:        "list_activities",
				Description: "List subscription activities (new business, expansion, contraction, churn). Set enrich to add customer tenure data.",
				InputSchema: json.RawMessage(`{
	"type": "object",
	"properties": {
		"startDate": {"type": "string", "description": "Start date (YYYY-MM-DD)"},
		"endDate": {"type": "string", "description": "End date (YYYY-MM-DD)"},
		"type": {"type": "string", "enum": ["new_biz", "expansion", "contraction", "churn", "reactivation"], "description": "Activity type filter"},
		"page": {"type": "number", "description": "Page number"},
		"perPage": {"type": "number", "description": "Results per page"},
		"enrich": {"type": "boolean", "description": "Add customer-since and customer-tenure-months to each activity"}
	},
	"required": []
}`),
			},
			Handler: handleListActivities,
		},
		{
			Tool: Tool{
				Name:        "search_customers",
				Description: "Search for customers by email address",
				InputSchema: json.RawMessage(`{"type": "object", "properties": {"email": {"type": "string", "description": "Email address to search for"}}, "required": ["email"]}`),
			},
			Handler: handleSearchCustomers,
		},
		{
			Tool: Tool{
				Name:        "get_customer",
				Description: "Get detailed information about a specific customer",
				InputSchema: json.RawMessage(`{"type": "object", "properties": {"uuid": {"type": "string", "description": "Customer UUID"}}, "required": ["uuid"]}`),
			},
			Handler: handleGetCustomer,
		},
		{
			Tool: Tool{
				Name:        "get_customer_activities",
				Description: "Get subscription activities for a specific customer. Set enrich to add customer tenure data.",
				InputSchema: json.RawMessage(`{
	"type": "object",
	"properties": {
		"uuid": {"type": "string", "description": "Customer UUID"},
		"page": {"type": "number", "description": "Page number"},
		"perPage": {"type": "number", "description": "Results per page"},
		"enrich": {"type": "boolean", "description": "Add customer-since and customer-tenure-months to each activity"}
	},
	"required": ["uuid"]
}`),
			},
			Handler: handleCustomerActivities,
		},
		{
			Tool: Tool{
				Name:        "get_customer_subscriptions",
				Description: "Get active subscriptions for a specific customer",
				InputSchema: json.RawMessage(`{"type": "object", "properties": {"uuid": {"type": "string", "description": "Customer UUID"}}, "required": ["uuid"]}`),
			},
			Handler: handleCustomerSubscriptions,
		},
		{
			Tool: Tool{
				Name:        "list_customers",
				Description: "List all customers with optional filtering",
				InputSchema: json.RawMessage(`{
	"type": "object",
	"properties": {
		"status": {"type": "string", "enum": ["Lead", "Active", "Past Due", "Cancelled"], "description": "Customer status"},
		"page": {"type": "number", "description": "Page number"},
		"perPage": {"type": "number", "description": "Results per page"}
	},
	"required": []
}`),
			},
			Handler: handleListCustomers,
		},
		{
			Tool: Tool{
				Name:        "get_account",
				Description: "Get ChartMogul account information",
				InputSchema: json.RawMessage(`{"type": "object", "properties": {}, "required": []}`),
			},
			Handler: handleGetAccount,
		},
		{
			Tool: Tool{
				Name:        "check_auth",
				Description: "Check if ChartMogul authentication is configured",
				InputSchema: json.RawMessage(`{"type": "object", "properties": {}, "required": []}`),
			},
			Handler: handleCheckAuth,
		},
	}
}

// ---------------------------------------------------------------------------
// Tool handlers
// ---------------------------------------------------------------------------

type listActivitiesParams struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Type      string `json:"type"`
	Page      int    `json:"page"`
	PerPage   int    `json:"perPage"`
	Enrich    bool   `json:"enrich"`
}

func handleListActivities(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
	var p listActivitiesParams
	if len(params) > 0 {
		json.Unmarshal(params, &p)
	}

	page, err := s.client.Activities(ctx, api.Params{
		"start-date": p.StartDate,
		"end-date":   p.EndDate,
		"type":       p.Type,
		"page":       intParam(p.Page),
		"per_page":   intParam(p.PerPage),
	})
	if err != nil {
		return errorResult(err)
	}

	if p.Enrich {
		page = s.enricher.Activities(ctx, page)
	}
	return jsonResult(page)
}

type searchCustomersParams struct {
	Email string `json:"email"`
}

func handleSearchCustomers(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
	var p searchCustomersParams
	if len(params) > 0 {
		json.Unmarshal(params, &p)
	}
	return result(s.client.SearchCustomers(ctx, p.Email))
}

type customerParams struct {
	UUID    string `json:"uuid"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
	Enrich  bool   `json:"enrich"`
}

func handleGetCustomer(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
	var p customerParams
	if len(params) > 0 {
		json.Unmarshal(params, &p)
	}
	return result(s.client.Customer(ctx, p.UUID))
}

func handleCustomerActivities(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
	var p customerParams
	if len(params) > 0 {
		json.Unmarshal(params, &p)
	}

	page, err := s.client.CustomerActivities(ctx, p.UUID, api.Params{
		"page":     intParam(p.Page),
		"per_page": intParam(p.PerPage),
	})
	if err != nil {
		return errorResult(err)
	}

	if p.Enrich {
		page = s.enricher.Activities(ctx, page)
	}
	return jsonResult(page)
}

func handleCustomerSubscriptions(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
	var p customerParams
	if len(params) > 0 {
		json.Unmarshal(params, &p)
	}
	return result(s.client.CustomerSubscriptions(ctx, p.UUID))
}

type listCustomersParams struct {
	Status  string `json:"status"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

func handleListCustomers(ctx context.Context, s *Server, params json.RawMessage) ToolResult {
	var p listCustomersParams
	if len(params) > 0 {
		json.Unmarshal(params, &p)
	}
	return result(s.client.Customers(ctx, api.Params{
		"status":   p.Status,
		"page":     intParam(p.Page),
		"per_page": intParam(p.PerPage),
	}))
}

func handleGetAccount(ctx context.Context, s *Server, _ json.RawMessage) ToolResult {
	return result(s.client.Account(ctx))
}

func handleCheckAuth(_ context.Context, _ *Server, _ json.RawMessage) ToolResult {
	return jsonResult(map[string]any{"authenticated": auth.IsAuthenticated()})
}
