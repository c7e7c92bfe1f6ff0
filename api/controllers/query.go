package controllers

import (
	"net/http"
	"strings"

	"github.com/freshnest/insights-backend/api/responses"
	"github.com/freshnest/insights-backend/api/validators"
	"github.com/freshnest/insights-backend/internal/insights"
	pkgerrors "github.com/freshnest/insights-backend/pkg/errors"
	"github.com/freshnest/insights-backend/pkg/logger"
)

type QueryRequest struct {
	Query     string `json:"query" validate:"required"`
	SessionID string `json:"sessionId"`
}

type QueryResponse struct {
	Content string         `json:"content"`
	Data    map[string]any `json:"data,omitempty"`
}

// AIQuery resolves one free-text question. Classification failures never
// surface as HTTP errors; only a malformed request body does.
func AIQuery(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if strings.TrimSpace(req.Query) == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "query is required"))
			return
		}

		result := service.Answer(r.Context(), req.Query, req.SessionID)

		data := map[string]any{
			"type":  string(result.Kind),
			"query": req.Query,
		}
		for k, v := range result.Payload {
			data[k] = v
		}

		responses.WriteSuccess(w, QueryResponse{
			Content: result.Content,
			Data:    data,
		})
	}
}
