package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cleberrangel/jira-insights-api/internal/client"
	"github.com/cleberrangel/jira-insights-api/internal/logger"
	"github.com/cleberrangel/jira-insights-api/internal/metrics"
	"github.com/cleberrangel/jira-insights-api/internal/model"
)

// ErrProjectNotConfigured indica que um endpoint de projeto foi chamado
// sem JIRA_PROJECT configurado
var ErrProjectNotConfigured = errors.New("JIRA_PROJECT não configurado")

// jiraTimeLayout é o formato de timestamp retornado pelo Jira
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

// InsightsService monta os resumos a partir das respostas do Jira
type InsightsService struct {
	jira    *client.Client
	project string
}

// NewInsightsService cria um novo serviço de insights
func NewInsightsService(jira *client.Client, project string) *InsightsService {
	return &InsightsService{
		jira:    jira,
		project: project,
	}
}

// WorkEstimate busca as estimativas de tempo de uma issue
func (s *InsightsService) WorkEstimate(ctx context.Context, issueKey string) (*model.WorkEstimate, error) {
	issue, err := s.jira.GetIssue(ctx, issueKey)
	if err != nil {
		return nil, err
	}

	return buildWorkEstimate(issue), nil
}

// WorkLogs busca e agrega os registros de trabalho de uma issue.
// Uma issue sem worklogs retorna lista vazia e total zero.
func (s *InsightsService) WorkLogs(ctx context.Context, issueKey string) (*model.WorkLogSummary, error) {
	worklogs, err := s.jira.GetWorklogs(ctx, issueKey)
	if err != nil {
		return nil, err
	}

	return buildWorkLogSummary(issueKey, worklogs), nil
}

// SprintInsight busca o sprint e suas issues e computa os agregados
func (s *InsightsService) SprintInsight(ctx context.Context, sprintID int) (*model.SprintInsight, error) {
	insight, _, err := s.sprintData(ctx, sprintID)
	return insight, err
}

// sprintData busca sprint + issues e monta o insight
func (s *InsightsService) sprintData(ctx context.Context, sprintID int) (*model.SprintInsight, []model.Issue, error) {
	sprint, err := s.jira.GetSprint(ctx, sprintID)
	if err != nil {
		return nil, nil, err
	}

	issues, err := s.jira.GetSprintIssues(ctx, sprintID)
	if err != nil {
		return nil, nil, err
	}

	insight := buildSprintInsight(sprint, issues)
	metrics.Get().IncrementInsightComputed()

	logger.Get(ctx).Info().
		Int("sprint_id", sprintID).
		Int("planned", insight.Planned).
		Int("completed", insight.Completed).
		Int("carried_over", insight.CarriedOver).
		Msg("Insight do sprint computado")

	return insight, issues, nil
}

// ProjectEstimates busca as estimativas de todas as issues do projeto
func (s *InsightsService) ProjectEstimates(ctx context.Context) ([]model.WorkEstimate, error) {
	if s.project == "" {
		return nil, ErrProjectNotConfigured
	}

	jql := fmt.Sprintf("project = %q ORDER BY created DESC", s.project)
	issues, err := s.jira.SearchIssues(ctx, jql)
	if err != nil {
		return nil, err
	}

	estimates := make([]model.WorkEstimate, 0, len(issues))
	for i := range issues {
		estimates = append(estimates, *buildWorkEstimate(&issues[i]))
	}

	return estimates, nil
}

// IssueDetails busca a visão detalhada de uma issue
func (s *InsightsService) IssueDetails(ctx context.Context, issueKey string) (*model.IssueDetails, error) {
	issue, err := s.jira.GetIssue(ctx, issueKey)
	if err != nil {
		return nil, err
	}

	return buildIssueDetails(issue), nil
}

// FilterIssues busca issues do projeto filtradas por prioridade e status
func (s *InsightsService) FilterIssues(ctx context.Context, priority, status string) ([]model.FilteredIssue, error) {
	if s.project == "" {
		return nil, ErrProjectNotConfigured
	}

	parts := []string{fmt.Sprintf("project = %q", s.project)}
	if priority != "" {
		parts = append(parts, fmt.Sprintf("priority = %q", priority))
	}
	if status != "" {
		parts = append(parts, fmt.Sprintf("status = %q", status))
	}

	issues, err := s.jira.SearchIssues(ctx, strings.Join(parts, " AND "))
	if err != nil {
		return nil, err
	}

	filtered := make([]model.FilteredIssue, 0, len(issues))
	for _, issue := range issues {
		filtered = append(filtered, model.FilteredIssue{
			IssueKey: issue.Key,
			Summary:  issue.Fields.Summary,
			Priority: namedOr(issue.Fields.Priority, "N/A"),
			Status:   statusName(issue),
		})
	}

	return filtered, nil
}

// AssignedIssues busca issues atribuídas a um usuário em um projeto
func (s *InsightsService) AssignedIssues(ctx context.Context, assignee, projectKey string) (*model.AssignedIssues, error) {
	jql := fmt.Sprintf("project = %q AND assignee = %q ORDER BY updated DESC", projectKey, assignee)
	issues, err := s.jira.SearchIssues(ctx, jql)
	if err != nil {
		return nil, err
	}

	result := &model.AssignedIssues{
		TotalIssues: len(issues),
		Issues:      make([]model.AssignedIssue, 0, len(issues)),
	}

	for _, issue := range issues {
		result.Issues = append(result.Issues, model.AssignedIssue{
			Key:      issue.Key,
			Summary:  issue.Fields.Summary,
			Status:   statusName(issue),
			Assignee: userOr(issue.Fields.Assignee, "Unassigned"),
			Reporter: userOr(issue.Fields.Reporter, "Unknown"),
			Created:  issue.Fields.Created,
			Updated:  issue.Fields.Updated,
		})
	}

	return result, nil
}

// DeliveryMetrics computa métricas de entrega do projeto: total de
// issues, concluídas, tempo médio de resolução e trabalho registrado
func (s *InsightsService) DeliveryMetrics(ctx context.Context) (*model.DeliveryMetrics, error) {
	if s.project == "" {
		return nil, ErrProjectNotConfigured
	}

	jql := fmt.Sprintf("project = %q", s.project)
	issues, err := s.jira.SearchIssues(ctx, jql)
	if err != nil {
		return nil, err
	}

	var (
		completed        int
		resolvedCount    int
		totalResolveSecs int64
		totalLoggedSecs  int64
	)

	for _, issue := range issues {
		if isDone(issue) {
			completed++
		}

		created, okCreated := parseJiraTime(issue.Fields.Created)
		resolved, okResolved := parseJiraTime(issue.Fields.ResolutionDate)
		if okCreated && okResolved && resolved.After(created) {
			totalResolveSecs += int64(resolved.Sub(created).Seconds())
			resolvedCount++
		}

		if issue.Fields.TimeSpent > 0 {
			totalLoggedSecs += issue.Fields.TimeSpent
		}
	}

	avgResolve := "0h"
	if resolvedCount > 0 {
		avgResolve = model.FormatHours(totalResolveSecs / int64(resolvedCount))
	}

	metrics.Get().IncrementInsightComputed()

	return &model.DeliveryMetrics{
		TotalIssues:          len(issues),
		CompletedIssues:      completed,
		AverageTimeToResolve: avgResolve,
		TotalWorkLogged:      model.FormatHours(totalLoggedSecs),
	}, nil
}

// buildWorkEstimate monta o WorkEstimate de uma issue. Durações
// negativas são normalizadas para zero.
func buildWorkEstimate(issue *model.Issue) *model.WorkEstimate {
	estimate := &model.WorkEstimate{
		IssueKey: issue.Key,
		Summary:  issue.Fields.Summary,
	}

	if tt := issue.Fields.TimeTracking; tt != nil {
		estimate.OriginalSeconds = clampSeconds(tt.OriginalEstimateSeconds)
		estimate.RemainingSeconds = clampSeconds(tt.RemainingEstimateSeconds)
		estimate.Original = tt.OriginalEstimate
		estimate.Remaining = tt.RemainingEstimate
	} else {
		estimate.OriginalSeconds = clampSeconds(issue.Fields.TimeOriginalEstimate)
	}

	if estimate.Original == "" {
		estimate.Original = model.FormatSeconds(estimate.OriginalSeconds)
	}
	if estimate.Remaining == "" {
		estimate.Remaining = model.FormatSeconds(estimate.RemainingSeconds)
	}

	return estimate
}

// buildWorkLogSummary agrega os worklogs de uma issue, ordenados por
// início. O total é a soma das durações das entradas.
func buildWorkLogSummary(issueKey string, worklogs []model.Worklog) *model.WorkLogSummary {
	summary := &model.WorkLogSummary{
		IssueKey: issueKey,
		Entries:  make([]model.WorkLogEntry, 0, len(worklogs)),
	}

	sorted := make([]model.Worklog, len(worklogs))
	copy(sorted, worklogs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Started < sorted[j].Started
	})

	for _, wl := range sorted {
		seconds := clampSeconds(wl.TimeSpentSeconds)
		timeSpent := wl.TimeSpent
		if timeSpent == "" {
			timeSpent = model.FormatSeconds(seconds)
		}

		summary.Entries = append(summary.Entries, model.WorkLogEntry{
			Author:    userOr(wl.Author, "Unknown"),
			Started:   wl.Started,
			TimeSpent: timeSpent,
			Seconds:   seconds,
		})
		summary.TotalSeconds += seconds
	}

	summary.Total = model.FormatSeconds(summary.TotalSeconds)
	return summary
}

// buildSprintInsight computa os agregados de um sprint.
// Completed conta issues com categoria de status "done"; CarriedOver
// conta as não concluídas de um sprint fechado (que rolam para o
// próximo). Vale sempre Completed + CarriedOver <= Planned.
func buildSprintInsight(sprint *model.Sprint, issues []model.Issue) *model.SprintInsight {
	insight := &model.SprintInsight{
		SprintID: sprint.ID,
		Name:     sprint.Name,
		State:    sprint.State,
		Planned:  len(issues),
	}

	closed := strings.EqualFold(sprint.State, "closed")

	for _, issue := range issues {
		if isDone(issue) {
			insight.Completed++
		} else if closed {
			insight.CarriedOver++
		}

		if issue.Fields.IssueType != nil &&
			strings.Contains(strings.ToLower(issue.Fields.IssueType.Name), "bug") {
			insight.Bugs++
		}

		insight.TotalEstimateSeconds += estimateSeconds(issue)
		if issue.Fields.TimeSpent > 0 {
			insight.TotalLoggedSeconds += issue.Fields.TimeSpent
		}
	}

	insight.TotalEstimate = model.FormatSeconds(insight.TotalEstimateSeconds)
	insight.TotalLogged = model.FormatSeconds(insight.TotalLoggedSeconds)

	if insight.Planned > 0 {
		velocity := float64(insight.Completed) / float64(insight.Planned) * 100
		insight.Velocity = math.Round(velocity*100) / 100
	}

	return insight
}

// buildIssueDetails monta a visão detalhada de uma issue
func buildIssueDetails(issue *model.Issue) *model.IssueDetails {
	details := &model.IssueDetails{
		IssueKey:       issue.Key,
		Summary:        issue.Fields.Summary,
		Description:    issue.Fields.Description,
		Status:         statusName(*issue),
		Priority:       namedOr(issue.Fields.Priority, ""),
		Reporter:       userOr(issue.Fields.Reporter, ""),
		Assignee:       userOr(issue.Fields.Assignee, ""),
		IssueType:      namedOr(issue.Fields.IssueType, ""),
		Created:        issue.Fields.Created,
		Updated:        issue.Fields.Updated,
		Labels:         issue.Fields.Labels,
		Components:     make([]string, 0, len(issue.Fields.Components)),
		Resolution:     namedOr(issue.Fields.Resolution, ""),
		ResolutionDate: issue.Fields.ResolutionDate,
	}

	if details.Labels == nil {
		details.Labels = []string{}
	}

	for _, c := range issue.Fields.Components {
		details.Components = append(details.Components, c.Name)
	}

	if issue.Fields.Project != nil {
		details.Project = issue.Fields.Project.Name
	}

	if tt := issue.Fields.TimeTracking; tt != nil {
		details.OriginalEstimate = tt.OriginalEstimate
		details.RemainingEstimate = tt.RemainingEstimate
	}

	return details
}

// isDone verifica se a issue está concluída. Usa a categoria de status
// quando presente; cai para o nome do status caso contrário.
func isDone(issue model.Issue) bool {
	status := issue.Fields.Status
	if status == nil {
		return false
	}
	if status.StatusCategory != nil {
		return status.StatusCategory.Key == "done"
	}

	name := strings.ToLower(status.Name)
	return strings.Contains(name, "done") ||
		strings.Contains(name, "closed") ||
		strings.Contains(name, "resolved")
}

// estimateSeconds retorna a estimativa original da issue em segundos
func estimateSeconds(issue model.Issue) int64 {
	if tt := issue.Fields.TimeTracking; tt != nil && tt.OriginalEstimateSeconds > 0 {
		return tt.OriginalEstimateSeconds
	}
	return clampSeconds(issue.Fields.TimeOriginalEstimate)
}

// clampSeconds normaliza durações negativas para zero
func clampSeconds(s int64) int64 {
	if s < 0 {
		return 0
	}
	return s
}

// statusName retorna o nome do status ou "N/A"
func statusName(issue model.Issue) string {
	if issue.Fields.Status == nil || issue.Fields.Status.Name == "" {
		return "N/A"
	}
	return issue.Fields.Status.Name
}

// namedOr retorna o nome do campo ou o fallback
func namedOr(f *model.NamedField, fallback string) string {
	if f == nil || f.Name == "" {
		return fallback
	}
	return f.Name
}

// userOr retorna o displayName do usuário ou o fallback
func userOr(u *model.User, fallback string) string {
	if u == nil || u.DisplayName == "" {
		return fallback
	}
	return u.DisplayName
}

// parseJiraTime interpreta um timestamp do Jira
func parseJiraTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(jiraTimeLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
