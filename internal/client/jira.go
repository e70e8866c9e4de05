package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cleberrangel/jira-insights-api/internal/logger"
	"github.com/cleberrangel/jira-insights-api/internal/metrics"
	"github.com/cleberrangel/jira-insights-api/internal/model"
)

const (
	apiPath   = "/rest/api/2"
	agilePath = "/rest/agile/1.0"

	// PageSize tamanho da página usado nas buscas paginadas
	PageSize = 50

	// issueFields campos solicitados nas buscas de issues
	issueFields = "summary,description,status,priority,reporter,assignee,issuetype," +
		"created,updated,labels,components,project,resolution,resolutiondate," +
		"timetracking,timespent,timeoriginalestimate"
)

// Client é o cliente HTTP para a API REST do Jira
type Client struct {
	baseURL    string
	email      string
	token      string
	httpClient *http.Client
}

// NewClient cria um novo cliente Jira. Com email configurado usa basic
// auth (email + API token); sem email usa o token como Bearer.
func NewClient(baseURL, email, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

// GetIssue busca uma issue pelo key
func (c *Client) GetIssue(ctx context.Context, issueKey string) (*model.Issue, error) {
	u := fmt.Sprintf("%s%s/issue/%s?fields=%s",
		c.baseURL, apiPath, url.PathEscape(issueKey), url.QueryEscape(issueFields))

	var issue model.Issue
	if err := c.doGet(ctx, u, &issue); err != nil {
		return nil, fmt.Errorf("buscar issue %s: %w", issueKey, err)
	}

	return &issue, nil
}

// GetWorklogs busca todos os registros de trabalho de uma issue,
// seguindo a paginação até o fim
func (c *Client) GetWorklogs(ctx context.Context, issueKey string) ([]model.Worklog, error) {
	worklogs := make([]model.Worklog, 0)
	startAt := 0

	for {
		u := fmt.Sprintf("%s%s/issue/%s/worklog?startAt=%d&maxResults=%d",
			c.baseURL, apiPath, url.PathEscape(issueKey), startAt, PageSize)

		var resp model.WorklogResponse
		if err := c.doGet(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("buscar worklogs de %s: %w", issueKey, err)
		}

		worklogs = append(worklogs, resp.Worklogs...)

		startAt += len(resp.Worklogs)
		if len(resp.Worklogs) == 0 || startAt >= resp.Total {
			break
		}
	}

	logger.Get(ctx).Debug().
		Str("issue_key", issueKey).
		Int("worklogs", len(worklogs)).
		Msg("Worklogs coletados")

	return worklogs, nil
}

// SearchIssues executa uma busca JQL paginada
func (c *Client) SearchIssues(ctx context.Context, jql string) ([]model.Issue, error) {
	issues := make([]model.Issue, 0)
	startAt := 0

	for {
		params := url.Values{}
		params.Set("jql", jql)
		params.Set("fields", issueFields)
		params.Set("startAt", fmt.Sprintf("%d", startAt))
		params.Set("maxResults", fmt.Sprintf("%d", PageSize))

		u := fmt.Sprintf("%s%s/search?%s", c.baseURL, apiPath, params.Encode())

		var resp model.SearchResponse
		if err := c.doGet(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("buscar issues (jql %q): %w", jql, err)
		}

		issues = append(issues, resp.Issues...)

		startAt += len(resp.Issues)
		if len(resp.Issues) == 0 || startAt >= resp.Total {
			break
		}
	}

	logger.Get(ctx).Debug().
		Str("jql", jql).
		Int("issues", len(issues)).
		Msg("Busca JQL concluída")

	return issues, nil
}

// GetSprint busca os metadados de um sprint na API Agile
func (c *Client) GetSprint(ctx context.Context, sprintID int) (*model.Sprint, error) {
	u := fmt.Sprintf("%s%s/sprint/%d", c.baseURL, agilePath, sprintID)

	var sprint model.Sprint
	if err := c.doGet(ctx, u, &sprint); err != nil {
		return nil, fmt.Errorf("buscar sprint %d: %w", sprintID, err)
	}

	return &sprint, nil
}

// GetSprintIssues busca todas as issues de um sprint, com paginação
func (c *Client) GetSprintIssues(ctx context.Context, sprintID int) ([]model.Issue, error) {
	issues := make([]model.Issue, 0)
	startAt := 0

	for {
		u := fmt.Sprintf("%s%s/sprint/%d/issue?fields=%s&startAt=%d&maxResults=%d",
			c.baseURL, agilePath, sprintID, url.QueryEscape(issueFields), startAt, PageSize)

		var resp model.SearchResponse
		if err := c.doGet(ctx, u, &resp); err != nil {
			return nil, fmt.Errorf("buscar issues do sprint %d: %w", sprintID, err)
		}

		issues = append(issues, resp.Issues...)

		startAt += len(resp.Issues)
		if len(resp.Issues) == 0 || startAt >= resp.Total {
			break
		}
	}

	return issues, nil
}

// doGet executa uma requisição GET autenticada contra a API do Jira
func (c *Client) doGet(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("criar request: %w", err)
	}

	if c.email != "" {
		req.SetBasicAuth(c.email, c.token)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		metrics.Get().IncrementJiraRequest(false, latency)
		if ctx.Err() != nil {
			return model.ErrTimeout
		}
		// Timeout do próprio http.Client
		if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
			return model.ErrTimeout
		}
		return fmt.Errorf("executar request: %w", err)
	}
	defer resp.Body.Close()

	// Tratamento de erros HTTP
	switch resp.StatusCode {
	case http.StatusOK:
		// OK, continua
	case http.StatusTooManyRequests:
		metrics.Get().IncrementJiraRequest(false, latency)
		return model.ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		metrics.Get().IncrementJiraRequest(false, latency)
		return model.ErrUnauthorized
	case http.StatusNotFound:
		metrics.Get().IncrementJiraRequest(false, latency)
		return model.ErrNotFound
	default:
		metrics.Get().IncrementJiraRequest(false, latency)
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	metrics.Get().IncrementJiraRequest(true, latency)

	// Parse da resposta
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidResponse, err)
	}

	return nil
}
