// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sahajm/bidscope/internal/contract"
)

// NewMCPServer initializes and configures the bidscope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, ref contract.ReferenceData) *server.MCPServer {
	s := server.NewMCPServer(
		"Bidscope Evaluation Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		ref:     ref,
	}

	// --- 1. Tool: evaluate_tenders ---
	s.AddTool(mcp.NewTool("evaluate_tenders",
		mcp.WithDescription("Evaluate all tenders in a file and rank them by composite bid-worthiness score."),
		mcp.WithString("tenders_path", mcp.Description("Path to the tenders JSON file."), mcp.Required()),
		mcp.WithNumber("min_score", mcp.Description("Minimum match score threshold (0-100). Defaults to the configured threshold.")),
		mcp.WithString("within", mcp.Description("Only evaluate tenders with deadlines inside this window (e.g. '45d', '6w', '2m').")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked results returned.")),
	), h.handleEvaluateTenders)

	// --- 2. Tool: match_specifications ---
	s.AddTool(mcp.NewTool("match_specifications",
		mcp.WithDescription("Match tender line items against the product catalog and return ranked candidates per line item."),
		mcp.WithString("tenders_path", mcp.Description("Path to the tenders JSON file."), mcp.Required()),
		mcp.WithNumber("min_score", mcp.Description("Minimum match score threshold (0-100).")),
	), h.handleMatchSpecifications)

	// --- 3. Tool: price_line_items ---
	s.AddTool(mcp.NewTool("price_line_items",
		mcp.WithDescription("Build a priced quote per tender: order quantities, volume discounts, compliance tests and totals."),
		mcp.WithString("tenders_path", mcp.Description("Path to the tenders JSON file."), mcp.Required()),
		mcp.WithNumber("min_score", mcp.Description("Minimum match score threshold (0-100).")),
	), h.handlePriceLineItems)

	return s
}

// StartMCPServer starts the bidscope MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, ref contract.ReferenceData) error {
	s := NewMCPServer(baseCfg, ref)
	return server.ServeStdio(s)
}
