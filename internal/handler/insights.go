package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cleberrangel/jira-insights-api/internal/logger"
	"github.com/cleberrangel/jira-insights-api/internal/metrics"
	"github.com/cleberrangel/jira-insights-api/internal/model"
	"github.com/cleberrangel/jira-insights-api/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InsightsHandler manipula as requisições de insights
type InsightsHandler struct {
	service *service.InsightsService
}

// NewInsightsHandler cria um novo handler de insights
func NewInsightsHandler(insightsService *service.InsightsService) *InsightsHandler {
	return &InsightsHandler{
		service: insightsService,
	}
}

// WorkEstimates retorna as estimativas de tempo de uma issue
// GET /jira/work/estimates?issueKey=PROJ-1
func (h *InsightsHandler) WorkEstimates(c *gin.Context) {
	issueKey, ok := h.requireIssueKey(c)
	if !ok {
		return
	}

	estimate, err := h.service.WorkEstimate(c.Request.Context(), issueKey)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// WorkLogs retorna os registros de trabalho de uma issue
// GET /jira/work/logs?issueKey=PROJ-1
func (h *InsightsHandler) WorkLogs(c *gin.Context) {
	issueKey, ok := h.requireIssueKey(c)
	if !ok {
		return
	}

	summary, err := h.service.WorkLogs(c.Request.Context(), issueKey)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// SprintInsight retorna os agregados de um sprint
// GET /jira/insights/sprint/:sprintID
func (h *InsightsHandler) SprintInsight(c *gin.Context) {
	sprintID, ok := h.requireSprintID(c)
	if !ok {
		return
	}

	insight, err := h.service.SprintInsight(c.Request.Context(), sprintID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, insight)
}

// SprintExport retorna o relatório Excel de um sprint
// GET /jira/insights/sprint/:sprintID/export
func (h *InsightsHandler) SprintExport(c *gin.Context) {
	sprintID, ok := h.requireSprintID(c)
	if !ok {
		return
	}

	insight, buf, err := h.service.SprintReport(c.Request.Context(), sprintID)
	if err != nil {
		metrics.Get().IncrementReportExported(false)
		h.handleError(c, err)
		return
	}

	metrics.Get().IncrementReportExported(true)
	logger.FromGin(c).Info().
		Int("sprint_id", sprintID).
		Int("bytes", buf.Len()).
		Msg("Relatório do sprint exportado")

	filename := fmt.Sprintf("sprint_%d_%s.xlsx", sprintID, time.Now().Format("2006-01-02_15-04-05"))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))
	c.Header("X-Sprint-Planned", strconv.Itoa(insight.Planned))
	c.Header("X-Sprint-Completed", strconv.Itoa(insight.Completed))

	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ProjectEstimates retorna as estimativas de todas as issues do projeto
// GET /jira/issues/work-estimates
func (h *InsightsHandler) ProjectEstimates(c *gin.Context) {
	estimates, err := h.service.ProjectEstimates(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimates)
}

// IssueDetails retorna a visão detalhada de uma issue
// GET /jira/issues/:issueKey
func (h *InsightsHandler) IssueDetails(c *gin.Context) {
	issueKey := strings.TrimSpace(c.Param("issueKey"))
	if issueKey == "" {
		h.badRequest(c, "issueKey é obrigatório", "")
		return
	}

	details, err := h.service.IssueDetails(c.Request.Context(), issueKey)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// FilterIssues retorna issues do projeto filtradas por prioridade e status
// GET /jira/issues/filter?priority=High&status=Done
func (h *InsightsHandler) FilterIssues(c *gin.Context) {
	priority := strings.TrimSpace(c.Query("priority"))
	status := strings.TrimSpace(c.Query("status"))

	issues, err := h.service.FilterIssues(c.Request.Context(), priority, status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, issues)
}

// AssignedIssues retorna issues atribuídas a um usuário em um projeto
// GET /jira/issues/assigned/:assignee/:projectKey
func (h *InsightsHandler) AssignedIssues(c *gin.Context) {
	assignee := strings.TrimSpace(c.Param("assignee"))
	projectKey := strings.TrimSpace(c.Param("projectKey"))

	if assignee == "" || projectKey == "" {
		h.badRequest(c, "assignee e projectKey são obrigatórios", "")
		return
	}

	result, err := h.service.AssignedIssues(c.Request.Context(), assignee, projectKey)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeliveryMetrics retorna as métricas de entrega do projeto
// GET /jira/insights/delivery
func (h *InsightsHandler) DeliveryMetrics(c *gin.Context) {
	deliveryMetrics, err := h.service.DeliveryMetrics(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, deliveryMetrics)
}

// requireIssueKey extrai e valida o parâmetro issueKey
func (h *InsightsHandler) requireIssueKey(c *gin.Context) (string, bool) {
	issueKey := strings.TrimSpace(c.Query("issueKey"))
	if issueKey == "" {
		h.badRequest(c, "issueKey é obrigatório", "informe ?issueKey=PROJ-1")
		return "", false
	}
	return issueKey, true
}

// requireSprintID extrai e valida o parâmetro sprintID
func (h *InsightsHandler) requireSprintID(c *gin.Context) (int, bool) {
	raw := c.Param("sprintID")
	sprintID, err := strconv.Atoi(raw)
	if err != nil || sprintID <= 0 {
		h.badRequest(c, "sprintID inválido", fmt.Sprintf("%q não é um id de sprint", raw))
		return 0, false
	}
	return sprintID, true
}

// badRequest responde 400 com o formato padrão de erro
func (h *InsightsHandler) badRequest(c *gin.Context, msg, details string) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Success: false,
		Error:   msg,
		Details: details,
	})
}

// handleError trata erros do serviço e retorna a resposta apropriada
func (h *InsightsHandler) handleError(c *gin.Context, err error) {
	logger.FromGin(c).Warn().Err(err).Msg("Erro ao consultar o Jira")

	switch {
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{
			Success: false,
			Error:   "recurso não encontrado",
			Details: err.Error(),
		})
	case errors.Is(err, model.ErrUnauthorized):
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Success: false,
			Error:   "credenciais do Jira recusadas",
			Details: "verifique as variáveis JIRA_EMAIL e JIRA_API_TOKEN",
		})
	case errors.Is(err, model.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, model.ErrorResponse{
			Success: false,
			Error:   "rate limit excedido no Jira",
			Details: "aguarde alguns segundos e tente novamente",
		})
	case errors.Is(err, model.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, model.ErrorResponse{
			Success: false,
			Error:   "timeout na requisição",
			Details: "a API do Jira demorou muito para responder",
		})
	case errors.Is(err, model.ErrInvalidResponse):
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Success: false,
			Error:   "resposta inválida do Jira",
			Details: err.Error(),
		})
	case errors.Is(err, service.ErrProjectNotConfigured):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Success: false,
			Error:   "JIRA_PROJECT não configurado",
			Details: "este endpoint requer a variável JIRA_PROJECT",
		})
	default:
		c.JSON(http.StatusBadGateway, model.ErrorResponse{
			Success: false,
			Error:   "falha ao consultar o Jira",
			Details: err.Error(),
		})
	}
}
