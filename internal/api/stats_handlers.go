package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/paperlog/paperlog-server/internal/domain"
	"github.com/paperlog/paperlog-server/internal/service"
)

func (s *Server) registerStatsRoutes() {
	authed := huma.Middlewares{s.requireAuth}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Reading statistics",
		Description: "Computes aggregate statistics for a period (all or a year)",
		Tags:        []string{"Stats"},
		Middlewares: authed,
	}, s.handleStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-stats-years",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/years",
		Summary:     "Available reading years",
		Description: "Lists the years that have readings, newest first, always including the current year",
		Tags:        []string{"Stats"},
		Middlewares: authed,
	}, s.handleStatsYears)
}

// StatsInput holds the period query for statistics.
type StatsInput struct {
	Period string `query:"period" doc:"Stats period: \"all\" or a four digit year" example:"all"`
}

// StatsOutput wraps computed statistics for Huma.
type StatsOutput struct {
	Body domain.Stats
}

// YearsOutput wraps the available years list for Huma.
type YearsOutput struct {
	Body struct {
		Years []int `json:"years" doc:"Years with readings, newest first"`
	}
}

func (s *Server) handleStats(ctx context.Context, input *StatsInput) (*StatsOutput, error) {
	period, err := service.ParsePeriod(input.Period)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.Compute(ctx, getUserID(ctx), period)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{Body: *stats}, nil
}

func (s *Server) handleStatsYears(ctx context.Context, _ *struct{}) (*YearsOutput, error) {
	years, err := s.services.Stats.AvailableYears(ctx, getUserID(ctx))
	if err != nil {
		return nil, err
	}

	out := &YearsOutput{}
	out.Body.Years = years
	return out, nil
}
