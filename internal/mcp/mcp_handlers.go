package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sahajm/bidscope/core"
	"github.com/sahajm/bidscope/internal/contract"
	"github.com/sahajm/bidscope/internal/refdata"
	"github.com/sahajm/bidscope/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	ref     contract.ReferenceData
}

// prepareRequest clones the base config with per-call overrides and loads
// the requested tenders.
func (h *toolHandler) prepareRequest(request mcp.CallToolRequest) (*contract.Config, []schema.Tender, error) {
	cfg := h.baseCfg.Clone()

	path := request.GetString("tenders_path", "")
	if path == "" {
		return nil, nil, fmt.Errorf("tenders_path is required")
	}
	if s := request.GetFloat("min_score", 0); s != 0 {
		if s < 0 || s > 100 {
			return nil, nil, fmt.Errorf("min_score must be between 0 and 100 (received %.2f)", s)
		}
		cfg.MinScore = s
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	tenders, err := refdata.NewFileTenderSource(path).Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tenders: %w", err)
	}
	return cfg, tenders, nil
}

func (h *toolHandler) handleEvaluateTenders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, tenders, err := h.prepareRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	now := time.Now()
	if w := request.GetString("within", ""); w != "" {
		window, err := contract.ParseWindow(w)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid within window: %v", err)), nil
		}
		tenders = core.FilterTendersByWindow(tenders, window, now)
	}
	if len(tenders) == 0 {
		return mcp.NewToolResultError("no tenders to evaluate"), nil
	}

	result := core.EvaluateTenders(ctx, cfg, h.ref, tenders, now)

	enriched := schema.EnrichEvaluations(result.Evaluations, result.BestIndex)
	if cfg.ResultLimit > 0 && len(enriched) > cfg.ResultLimit {
		enriched = enriched[:cfg.ResultLimit]
	}
	jsonData, _ := json.MarshalIndent(enriched, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

// matchView is the JSON shape returned by the match_specifications tool.
type matchView struct {
	Project string                          `json:"project"`
	Items   []schema.LineItem               `json:"items"`
	Matches map[int][]schema.MatchCandidate `json:"matches"`
}

func (h *toolHandler) handleMatchSpecifications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, tenders, err := h.prepareRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tenders) == 0 {
		return mcp.NewToolResultError("no tenders to match"), nil
	}

	result := core.EvaluateTenders(ctx, cfg, h.ref, tenders, time.Now())

	views := make([]matchView, len(result.Evaluations))
	for i, eval := range result.Evaluations {
		views[i] = matchView{
			Project: eval.Tender.ProjectID,
			Items:   eval.Items,
			Matches: eval.Matches,
		}
	}
	jsonData, _ := json.MarshalIndent(views, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

// quoteView is the JSON shape returned by the price_line_items tool.
type quoteView struct {
	Project string                `json:"project"`
	Pricing schema.PricingSummary `json:"pricing"`
}

func (h *toolHandler) handlePriceLineItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, tenders, err := h.prepareRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tenders) == 0 {
		return mcp.NewToolResultError("no tenders to quote"), nil
	}

	result := core.EvaluateTenders(ctx, cfg, h.ref, tenders, time.Now())

	views := make([]quoteView, len(result.Evaluations))
	for i, eval := range result.Evaluations {
		views[i] = quoteView{
			Project: eval.Tender.ProjectID,
			Pricing: eval.Pricing,
		}
	}
	jsonData, _ := json.MarshalIndent(views, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}
