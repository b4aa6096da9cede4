package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/ai-flowgen/internal/domain/auth"
	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

// FlowHandler wires the HTTP transport to the flow generation service.
type FlowHandler struct {
	svc    flowgen.Service
	logger *slog.Logger
}

// NewFlowHandler constructs the flow handler.
func NewFlowHandler(svc flowgen.Service, logger *slog.Logger) *FlowHandler {
	return &FlowHandler{
		svc:    svc,
		logger: logger.With("component", "http.flow_handler"),
	}
}

// generateBody accepts snake_case fields and the older camelCase aliases.
type generateBody struct {
	Description    string          `json:"description"`
	StartDate      string          `json:"start_date"`
	StartDateCamel string          `json:"startDate"`
	EndDate        string          `json:"end_date"`
	EndDateCamel   string          `json:"endDate"`
	FlowName       string          `json:"flow_name"`
	FlowNameCamel  string          `json:"flowName"`
	FlowColor      json.RawMessage `json:"flow_color"`
	FlowColorCamel json.RawMessage `json:"flowColor"`
	Timezone       string          `json:"timezone"`
	SourceText     string          `json:"source_text"`
	SourceCamel    string          `json:"sourceText"`
}

func (b generateBody) toRequest() (flowgen.GenerationRequest, error) {
	start, err := parseOptionalDate("start_date", firstNonEmpty(b.StartDate, b.StartDateCamel))
	if err != nil {
		return flowgen.GenerationRequest{}, err
	}
	end, err := parseOptionalDate("end_date", firstNonEmpty(b.EndDate, b.EndDateCamel))
	if err != nil {
		return flowgen.GenerationRequest{}, err
	}
	color := b.FlowColor
	if len(color) == 0 {
		color = b.FlowColorCamel
	}
	return flowgen.GenerationRequest{
		Description: b.Description,
		StartDate:   start,
		EndDate:     end,
		FlowName:    firstNonEmpty(b.FlowName, b.FlowNameCamel),
		FlowColor:   color,
		Timezone:    b.Timezone,
		SourceText:  firstNonEmpty(b.SourceText, b.SourceCamel),
	}, nil
}

// parseOptionalDate leaves missing dates zero so the service reports them.
func parseOptionalDate(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	parsed, err := flowgen.ParseDate(raw)
	if err != nil {
		return time.Time{}, errors.New(field + " must be a YYYY-MM-DD date")
	}
	return parsed, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Generate handles POST /api/v1/flows/generate.
func (h *FlowHandler) Generate(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, auth.CodeUnauthenticated, "authentication required", nil))
		return
	}

	var body generateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, flowgen.CodeInvalidRequest, "request body must be a JSON object", err))
		return
	}
	req, err := body.toRequest()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, flowgen.CodeInvalidRequest, err.Error(), err))
		return
	}

	resp, err := h.svc.Generate(c.Request.Context(), identity.UserID, req)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health reports liveness.
func (h *FlowHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
