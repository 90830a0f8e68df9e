package api

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/povarna/mf-faq-agent/internal/api/middleware"
	"github.com/povarna/mf-faq-agent/internal/models"
	"github.com/povarna/mf-faq-agent/internal/orchestrator"
	"github.com/povarna/mf-faq-agent/internal/schemes"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type SchemesResponse struct {
	Schemes []string `json:"schemes"`
}

type Handler struct {
	orchestrator *orchestrator.Orchestrator
	resolver     *schemes.Resolver
	logger       *zerolog.Logger
}

func NewHandler(orch *orchestrator.Orchestrator, resolver *schemes.Resolver, logger *zerolog.Logger) *Handler {
	return &Handler{
		orchestrator: orch,
		resolver:     resolver,
		logger:       logger,
	}
}

// POST /api/v1/ask
// Body: AskRequest
// Returns: FormattedResponse
func (h *Handler) Ask(req *restful.Request, resp *restful.Response) {
	var askRequest models.AskRequest
	if err := req.ReadEntity(&askRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	h.logger.Info().
		Str("query_id", askRequest.QueryID).
		Str("query", askRequest.Query).
		Msg("Start query processing")

	ctx := req.Request.Context()
	response := h.orchestrator.Process(ctx, askRequest.Query)

	h.logger.Info().
		Str("query_id", askRequest.QueryID).
		Bool("is_valid", response.IsValid).
		Str("scheme", response.SchemeName).
		Msg("Query processed")

	resp.WriteHeaderAndEntity(http.StatusOK, response)
}

// GET /api/v1/schemes
func (h *Handler) Schemes(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, SchemesResponse{
		Schemes: h.resolver.Available(),
	})
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
