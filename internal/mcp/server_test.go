package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stephendolan/chartmogul-cli/internal/api"
	"github.com/stephendolan/chartmogul-cli/pkg/testutil"
)

// runServer feeds JSON-RPC lines to a server backed by a fake API and returns
// the decoded responses.
func runServer(t *testing.T, server *testutil.APIServer, lines ...string) []Response {
	t.Helper()

	client := api.New(
		api.WithBaseURL(server.URL+"/v1"),
		api.WithKeyProvider(func() string { return testutil.TestAPIKey }),
	)

	s := NewServer(client, zap.NewNop())
	var out bytes.Buffer
	s.stdin = strings.NewReader(strings.Join(lines, "\n") + "\n")
	s.stdout = &out

	require.NoError(t, s.Serve(context.Background()))

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func resultMap(t *testing.T, resp Response) map[string]any {
	t.Helper()
	data, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

// toolText extracts and decodes the JSON text content of a tools/call result.
func toolText(t *testing.T, resp Response) (map[string]any, bool) {
	t.Helper()
	result := resultMap(t, resp)
	content := result["content"].([]any)
	require.NotEmpty(t, content)
	text := content[0].(map[string]any)["text"].(string)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	isError, _ := result["isError"].(bool)
	return decoded, isError
}

func callLine(t *testing.T, id int, tool string, args map[string]any) string {
	t.Helper()
	params := map[string]any{"name": tool, "arguments": args}
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0", "id": id, "method": "tools/call", "params": params,
	})
	require.NoError(t, err)
	return string(raw)
}

func TestInitializeHandshake(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	responses := runServer(t, fake, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	require.Len(t, responses, 1)
	result := resultMap(t, responses[0])
	info := result["serverInfo"].(map[string]any)
	assert.Equal(t, "chartmogul", info["name"])
}

func TestInitializedNotificationGetsNoReply(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	responses := runServer(t, fake,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	)
	require.Len(t, responses, 1)
}

func TestToolsList(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	responses := runServer(t, fake, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	require.Len(t, responses, 1)
	tools := resultMap(t, responses[0])["tools"].([]any)
	assert.Len(t, tools, 13)

	names := make(map[string]bool)
	for _, tool := range tools {
		names[tool.(map[string]any)["name"].(string)] = true
	}
	for _, expected := range []string{
		"get_all_metrics", "get_mrr", "list_activities", "get_customer", "check_auth",
	} {
		assert.True(t, names[expected], "missing tool %s", expected)
	}
}

func TestNullIDIsARequest(t *testing.T) {
	// A literal "id": null decodes to the raw bytes `null`, so the message
	// is a request, not a notification, and gets a reply with a null id.
	fake := testutil.NewAPIServer(t)
	responses := runServer(t, fake, `{"jsonrpc":"2.0","id":null,"method":"tools/list"}`)

	require.Len(t, responses, 1)
	assert.Equal(t, json.RawMessage("null"), responses[0].ID)
	assert.NotEmpty(t, resultMap(t, responses[0])["tools"])
}

func TestUnknownMethod(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	responses := runServer(t, fake, `{"jsonrpc":"2.0","id":1,"method":"bogus"}`)

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, ErrCodeNoMethod, responses[0].Error.Code)
}

func TestGetCustomerToolNormalizesMoney(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	id := fake.SeedCustomer(map[string]any{"name": "Acme", "mrr": 150000})

	responses := runServer(t, fake, callLine(t, 1, "get_customer", map[string]any{"uuid": id}))

	require.Len(t, responses, 1)
	decoded, isError := toolText(t, responses[0])
	assert.False(t, isError)
	assert.Equal(t, "Acme", decoded["name"])
	assert.Equal(t, 1500.0, decoded["mrr"])
}

func TestToolErrorIsClassified(t *testing.T) {
	fake := testutil.NewAPIServer(t)

	responses := runServer(t, fake, callLine(t, 1, "get_customer", map[string]any{"uuid": "cus_missing"}))

	require.Len(t, responses, 1)
	decoded, isError := toolText(t, responses[0])
	assert.True(t, isError)

	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, "not_found", errObj["name"])
	assert.Equal(t, "Customer not found", errObj["detail"])
	assert.Equal(t, 404.0, errObj["statusCode"])
}

func TestListActivitiesEnriched(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	cus := fake.SeedCustomer(map[string]any{"name": "Acme", "customer-since": "2024-01-01T00:00:00Z"})
	fake.SeedActivity(map[string]any{
		"customer-uuid": cus,
		"date":          "2024-07-01T00:00:00Z",
		"type":          "expansion",
		"activity_mrr":  5000,
	})

	responses := runServer(t, fake, callLine(t, 1, "list_activities", map[string]any{"enrich": true}))

	require.Len(t, responses, 1)
	decoded, isError := toolText(t, responses[0])
	require.False(t, isError)

	entries := decoded["entries"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, 6.0, entry["customer-tenure-months"])
	assert.Equal(t, "2024-01-01T00:00:00Z", entry["customer-since"])
	// Normalization ran after enrichment: money converted, tenure untouched.
	assert.Equal(t, 50.0, entry["activity_mrr"])
}

func TestRateLimitToolError(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	fake.SetRateLimited(true)

	responses := runServer(t, fake, callLine(t, 1, "get_account", nil))

	require.Len(t, responses, 1)
	decoded, isError := toolText(t, responses[0])
	assert.True(t, isError)
	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, "cli_error", errObj["name"])
	assert.Equal(t, 429.0, errObj["statusCode"])
}

func TestUnknownToolName(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	responses := runServer(t, fake, callLine(t, 1, "no_such_tool", nil))

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Contains(t, responses[0].Error.Message, "no_such_tool")
}

func TestParseError(t *testing.T) {
	fake := testutil.NewAPIServer(t)
	responses := runServer(t, fake, `{not json`)

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, ErrCodeParse, responses[0].Error.Code)
}
