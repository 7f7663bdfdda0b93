package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sahajm/bidscope/internal/contract"
	mcp_internal "github.com/sahajm/bidscope/internal/mcp"
	"github.com/sahajm/bidscope/internal/refdata"
	"github.com/sahajm/bidscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServerConfig() *contract.Config {
	return &contract.Config{
		ResultLimit:          10,
		Workers:              2,
		MinScore:             30,
		Precision:            1,
		ComputedScoreWeights: schema.GetDefaultScoreWeights(),
		ComputedSpecWeights:  schema.GetDefaultSpecWeights(),
	}
}

func testServerRefData() *refdata.Tables {
	return refdata.NewTables(
		[]schema.CatalogProduct{
			{
				ID:            "CBL-MV-11-CU-XLPE-3C",
				Name:          "11kV MV XLPE Cable",
				Category:      "MV Power Cable",
				Voltage:       "11 kV",
				Material:      "Copper",
				Insulation:    "XLPE",
				Cores:         "3",
				Armoring:      "SWA",
				SizeSqMM:      "185",
				TempRating:    "90",
				Standards:     "IS 7098, IEC 60502",
				UnitPrice:     500,
				MOQ:           1000,
				LeadTimeDays:  45,
				BISCertified:  true,
				WarrantyYears: 2,
			},
		},
		nil,
		nil,
	)
}

func writeTendersFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tenders.json")
	content := `[{
		"project_id": "TND-2025-001",
		"scope_of_supply": "1. MV Power Cable 11kV 3-core copper XLPE armoured, Quantity: 1900 meters"
	}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(testServerConfig(), testServerRefData())
	ctx := context.Background()
	tendersPath := writeTendersFile(t)

	t.Run("evaluate_tenders missing tenders_path", func(t *testing.T) {
		tool := s.GetTool("evaluate_tenders")
		require.NotNil(t, tool, "Tool evaluate_tenders should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "evaluate_tenders",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "tenders_path is required")
	})

	t.Run("evaluate_tenders invalid within", func(t *testing.T) {
		tool := s.GetTool("evaluate_tenders")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "evaluate_tenders",
				Arguments: map[string]any{
					"tenders_path": tendersPath,
					"within":       "45y", // Unsupported unit
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid within window")
	})

	t.Run("match_specifications invalid min_score", func(t *testing.T) {
		tool := s.GetTool("match_specifications")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "match_specifications",
				Arguments: map[string]any{
					"tenders_path": tendersPath,
					"min_score":    150.0, // Out of range
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "min_score must be between 0 and 100")
	})
}

func TestMCPServerHandlers_EvaluateTenders(t *testing.T) {
	s := mcp_internal.NewMCPServer(testServerConfig(), testServerRefData())
	ctx := context.Background()

	tool := s.GetTool("evaluate_tenders")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "evaluate_tenders",
			Arguments: map[string]any{
				"tenders_path": writeTendersFile(t),
			},
		},
	}

	res, err := tool.Handler(ctx, req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	var enriched []schema.EnrichedTenderResult
	text := res.Content[0].(mcp.TextContent).Text
	require.NoError(t, json.Unmarshal([]byte(text), &enriched))
	require.Len(t, enriched, 1)
	assert.Equal(t, "TND-2025-001", enriched[0].Project)
	assert.True(t, enriched[0].Best)
	assert.Positive(t, enriched[0].Score)
}

func TestMCPServerHandlers_PriceLineItems(t *testing.T) {
	s := mcp_internal.NewMCPServer(testServerConfig(), testServerRefData())
	ctx := context.Background()

	tool := s.GetTool("price_line_items")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "price_line_items",
			Arguments: map[string]any{
				"tenders_path": writeTendersFile(t),
			},
		},
	}

	res, err := tool.Handler(ctx, req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	var views []struct {
		Project string                `json:"project"`
		Pricing schema.PricingSummary `json:"pricing"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "TND-2025-001", views[0].Project)
	require.Len(t, views[0].Pricing.Items, 1)
	assert.Equal(t, "CBL-MV-11-CU-XLPE-3C", views[0].Pricing.Items[0].ProductID)
	assert.Positive(t, views[0].Pricing.GrandTotal)
}
