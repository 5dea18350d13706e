package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	service "github.com/okian/medals/internal/app"
	"github.com/okian/medals/internal/domain/model"
	"github.com/okian/medals/internal/domain/query"
	"github.com/okian/medals/pkg/metrics"
)

// Tool names.
const (
	ToolAsk     = "ask_medals"
	ToolCountry = "country_medals"
	ToolRanking = "medal_ranking"
)

const defaultRankingLimit = 10

func (s *Server) buildTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool(ToolAsk,
				mcp.WithDescription("Answer a natural-language question about the Summer Olympics medal table"),
				mcp.WithString("question", mcp.Required(),
					mcp.Description("Question, e.g. \"¿Quién ganó más oros en 2016?\"")),
			),
			Handler: s.handleAsk,
		},
		{
			Tool: mcp.NewTool(ToolCountry,
				mcp.WithDescription("Return one nation's gold, silver, bronze and total medals for a year"),
				mcp.WithString("country", mcp.Required(),
					mcp.Description("Country name in Spanish or English")),
				mcp.WithNumber("year",
					mcp.Description("Olympic year; omit for the most recent year")),
			),
			Handler: s.handleCountry,
		},
		{
			Tool: mcp.NewTool(ToolRanking,
				mcp.WithDescription("Return the medal standings of a year ordered by medal type"),
				mcp.WithNumber("year",
					mcp.Description("Olympic year; omit for the most recent year")),
				mcp.WithString("medal",
					mcp.Description("Medal type to order by"),
					mcp.Enum("total", "gold", "silver", "bronze")),
				mcp.WithNumber("limit",
					mcp.Description("Number of nations to return"),
					mcp.Min(1)),
			),
			Handler: s.handleRanking,
		},
	}
}

func (s *Server) handleAsk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := req.RequireString("question")
	if err != nil {
		return toolError(ToolAsk, err), nil
	}
	reply, err := s.deps.Ask(ctx, question)
	if err != nil {
		return toolError(ToolAsk, err), nil
	}
	return mcp.NewToolResultText(replyText(reply)), nil
}

func (s *Server) handleCountry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	country, err := req.RequireString("country")
	if err != nil {
		return toolError(ToolCountry, err), nil
	}
	year := req.GetInt("year", 0)
	if year < 0 {
		return toolError(ToolCountry, fmt.Errorf("invalid year %d", year)), nil
	}
	reply, err := s.deps.Country(ctx, country, year)
	if err != nil {
		return toolError(ToolCountry, err), nil
	}
	return mcp.NewToolResultText(replyText(reply)), nil
}

func (s *Server) handleRanking(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	year := req.GetInt("year", 0)
	if year < 0 {
		return toolError(ToolRanking, fmt.Errorf("invalid year %d", year)), nil
	}
	medal, err := model.ParseMedalType(req.GetString("medal", ""))
	if err != nil {
		return toolError(ToolRanking, err), nil
	}
	limit := req.GetInt("limit", defaultRankingLimit)
	if limit < 1 || limit > s.maxLimit {
		return toolError(ToolRanking, fmt.Errorf("limit must be between 1 and %d", s.maxLimit)), nil
	}

	entries, err := s.deps.Ranking(ctx, year, medal, limit)
	if err != nil {
		return toolError(ToolRanking, err), nil
	}
	body, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(body)), nil
}

// replyText picks the sentence a client should show: the answer, or the
// NoData reason.
func replyText(r service.Reply) string {
	if r.Outcome == query.OutcomeNoData && r.Reason != "" {
		return r.Reason
	}
	return r.Text
}

func toolError(tool string, err error) *mcp.CallToolResult {
	severity := "low"
	if errors.Is(err, service.ErrNotStarted) {
		severity = "high"
	}
	metrics.RecordErrorByType("mcp_"+tool, severity)
	return mcp.NewToolResultError(err.Error())
}
