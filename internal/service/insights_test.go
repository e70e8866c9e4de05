package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cleberrangel/jira-insights-api/internal/client"
	"github.com/cleberrangel/jira-insights-api/internal/logger"
	"github.com/cleberrangel/jira-insights-api/internal/model"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func init() {
	logger.Init("error", true)
}

func doneIssue(key string) model.Issue {
	return model.Issue{
		Key: key,
		Fields: model.IssueFields{
			Status: &model.Status{
				Name:           "Done",
				StatusCategory: &model.StatusCategory{Key: "done"},
			},
		},
	}
}

func openIssue(key string) model.Issue {
	return model.Issue{
		Key: key,
		Fields: model.IssueFields{
			Status: &model.Status{
				Name:           "In Progress",
				StatusCategory: &model.StatusCategory{Key: "indeterminate"},
			},
		},
	}
}

func TestBuildWorkEstimate(t *testing.T) {
	issue := &model.Issue{
		Key: "PROJ-1",
		Fields: model.IssueFields{
			Summary: "Implementar endpoint",
			TimeTracking: &model.TimeTracking{
				OriginalEstimate:         "8h",
				RemainingEstimate:        "3h",
				OriginalEstimateSeconds:  28800,
				RemainingEstimateSeconds: 10800,
			},
		},
	}

	estimate := buildWorkEstimate(issue)

	if estimate.IssueKey != "PROJ-1" {
		t.Errorf("IssueKey = %q", estimate.IssueKey)
	}
	if estimate.Original != "8h" || estimate.Remaining != "3h" {
		t.Errorf("estimativas = %q / %q", estimate.Original, estimate.Remaining)
	}
	if estimate.OriginalSeconds != 28800 || estimate.RemainingSeconds != 10800 {
		t.Errorf("segundos = %d / %d", estimate.OriginalSeconds, estimate.RemainingSeconds)
	}
}

func TestBuildWorkEstimateWithoutTimeTracking(t *testing.T) {
	issue := &model.Issue{Key: "PROJ-9", Fields: model.IssueFields{TimeOriginalEstimate: 7200}}

	estimate := buildWorkEstimate(issue)

	if estimate.OriginalSeconds != 7200 {
		t.Errorf("OriginalSeconds = %d", estimate.OriginalSeconds)
	}
	if estimate.Original != "2h" {
		t.Errorf("Original = %q", estimate.Original)
	}
	if estimate.Remaining != "0h" || estimate.RemainingSeconds != 0 {
		t.Errorf("Remaining = %q / %d", estimate.Remaining, estimate.RemainingSeconds)
	}
}

// Property: estimates never expose negative durations, whatever the
// upstream reports
func TestWorkEstimateNeverNegative(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("durations are non-negative", prop.ForAll(
		func(original, remaining int64) bool {
			issue := &model.Issue{
				Key: "PROJ-1",
				Fields: model.IssueFields{
					TimeTracking: &model.TimeTracking{
						OriginalEstimateSeconds:  original,
						RemainingEstimateSeconds: remaining,
					},
				},
			}

			estimate := buildWorkEstimate(issue)
			return estimate.OriginalSeconds >= 0 &&
				estimate.RemainingSeconds >= 0 &&
				!strings.Contains(estimate.Original, "-") &&
				!strings.Contains(estimate.Remaining, "-")
		},
		gen.Int64Range(-1<<32, 1<<32),
		gen.Int64Range(-1<<32, 1<<32),
	))

	properties.TestingRun(t)
}

func TestBuildWorkLogSummaryEmpty(t *testing.T) {
	summary := buildWorkLogSummary("PROJ-1", nil)

	if summary.Entries == nil || len(summary.Entries) != 0 {
		t.Fatalf("Entries = %#v, esperava lista vazia", summary.Entries)
	}
	if summary.TotalSeconds != 0 || summary.Total != "0h" {
		t.Errorf("Total = %q (%d)", summary.Total, summary.TotalSeconds)
	}
}

func TestBuildWorkLogSummaryOrdersAndSums(t *testing.T) {
	worklogs := []model.Worklog{
		{Author: &model.User{DisplayName: "Bob"}, Started: "2024-03-02T09:00:00.000+0000", TimeSpent: "1h", TimeSpentSeconds: 3600},
		{Author: &model.User{DisplayName: "Alice"}, Started: "2024-03-01T09:00:00.000+0000", TimeSpent: "2h", TimeSpentSeconds: 7200},
	}

	summary := buildWorkLogSummary("PROJ-1", worklogs)

	if len(summary.Entries) != 2 {
		t.Fatalf("len(Entries) = %d", len(summary.Entries))
	}
	if summary.Entries[0].Author != "Alice" {
		t.Errorf("primeira entrada = %q, esperava Alice", summary.Entries[0].Author)
	}
	if summary.TotalSeconds != 10800 {
		t.Errorf("TotalSeconds = %d, esperava 10800", summary.TotalSeconds)
	}
	if summary.Total != "3h" {
		t.Errorf("Total = %q, esperava 3h", summary.Total)
	}
}

// Property: the total is always the sum of the entry durations
func TestWorkLogSummaryTotalIsSum(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total equals sum of entries", prop.ForAll(
		func(durations []int64) bool {
			worklogs := make([]model.Worklog, 0, len(durations))
			var want int64
			for _, d := range durations {
				worklogs = append(worklogs, model.Worklog{TimeSpentSeconds: d})
				if d > 0 {
					want += d
				}
			}

			summary := buildWorkLogSummary("PROJ-1", worklogs)
			return summary.TotalSeconds == want && len(summary.Entries) == len(worklogs)
		},
		gen.SliceOf(gen.Int64Range(0, 1<<30)),
	))

	properties.TestingRun(t)
}

func TestBuildSprintInsightActiveSprint(t *testing.T) {
	sprint := &model.Sprint{ID: 42, Name: "Sprint 42", State: "active"}
	issues := []model.Issue{doneIssue("P-1"), doneIssue("P-2"), openIssue("P-3")}

	insight := buildSprintInsight(sprint, issues)

	if insight.Planned != 3 || insight.Completed != 2 {
		t.Errorf("planned/completed = %d/%d", insight.Planned, insight.Completed)
	}
	// Sprint ativo não tem carried over
	if insight.CarriedOver != 0 {
		t.Errorf("CarriedOver = %d, esperava 0", insight.CarriedOver)
	}
	if insight.Velocity != 66.67 {
		t.Errorf("Velocity = %v, esperava 66.67", insight.Velocity)
	}
}

func TestBuildSprintInsightClosedSprint(t *testing.T) {
	sprint := &model.Sprint{ID: 42, Name: "Sprint 42", State: "closed"}
	issues := []model.Issue{doneIssue("P-1"), openIssue("P-2"), openIssue("P-3")}

	insight := buildSprintInsight(sprint, issues)

	if insight.Completed != 1 || insight.CarriedOver != 2 {
		t.Errorf("completed/carried = %d/%d", insight.Completed, insight.CarriedOver)
	}
	if insight.Completed+insight.CarriedOver > insight.Planned {
		t.Error("invariante violada: completed + carriedOver > planned")
	}
}

// Property: for any mix of issues and sprint state,
// completed + carriedOver never exceeds planned
func TestSprintInsightInvariant(t *testing.T) {
	properties := gopter.NewProperties(nil)

	states := gen.OneConstOf("active", "closed", "future")

	properties.Property("completed + carriedOver <= planned", prop.ForAll(
		func(done, open int, state string) bool {
			issues := make([]model.Issue, 0, done+open)
			for i := 0; i < done; i++ {
				issues = append(issues, doneIssue("D"))
			}
			for i := 0; i < open; i++ {
				issues = append(issues, openIssue("O"))
			}

			insight := buildSprintInsight(&model.Sprint{ID: 1, State: state}, issues)

			if insight.Planned != done+open {
				return false
			}
			if insight.Completed+insight.CarriedOver > insight.Planned {
				return false
			}
			if state != "closed" && insight.CarriedOver != 0 {
				return false
			}
			return insight.TotalEstimateSeconds >= 0 && insight.TotalLoggedSeconds >= 0
		},
		gen.IntRange(0, 50),
		gen.IntRange(0, 50),
		states,
	))

	properties.TestingRun(t)
}

// newFakeService sobe um Jira fake e devolve o serviço apontando para ele
func newFakeService(t *testing.T, handler http.Handler, project string) (*InsightsService, func()) {
	t.Helper()

	server := httptest.NewServer(handler)
	jira := client.NewClient(server.URL, "dev@example.com", "token", 5*time.Second)
	return NewInsightsService(jira, project), server.Close
}

func TestWorkLogsEmptyFromUpstream(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/issue/PROJ-7/worklog", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"startAt": 0, "maxResults": 50, "total": 0,
			"worklogs": []interface{}{},
		})
	})

	svc, closeServer := newFakeService(t, mux, "")
	defer closeServer()

	summary, err := svc.WorkLogs(context.Background(), "PROJ-7")
	if err != nil {
		t.Fatalf("WorkLogs: %v", err)
	}

	if len(summary.Entries) != 0 || summary.TotalSeconds != 0 {
		t.Errorf("summary = %+v, esperava vazio", summary)
	}
}

func TestProjectEstimatesRequiresProject(t *testing.T) {
	svc := NewInsightsService(nil, "")

	_, err := svc.ProjectEstimates(context.Background())
	if !errors.Is(err, ErrProjectNotConfigured) {
		t.Fatalf("esperava ErrProjectNotConfigured, veio %v", err)
	}

	if _, err := svc.DeliveryMetrics(context.Background()); !errors.Is(err, ErrProjectNotConfigured) {
		t.Fatalf("esperava ErrProjectNotConfigured, veio %v", err)
	}
}

func TestDeliveryMetrics(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/2/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"startAt": 0, "maxResults": 50, "total": 2,
			"issues": []map[string]interface{}{
				{
					"key": "P-1",
					"fields": map[string]interface{}{
						"status":         map[string]interface{}{"name": "Done", "statusCategory": map[string]string{"key": "done"}},
						"created":        "2024-03-01T09:00:00.000+0000",
						"resolutiondate": "2024-03-02T09:00:00.000+0000",
						"timespent":      3600,
					},
				},
				{
					"key": "P-2",
					"fields": map[string]interface{}{
						"status":    map[string]interface{}{"name": "In Progress", "statusCategory": map[string]string{"key": "indeterminate"}},
						"created":   "2024-03-01T09:00:00.000+0000",
						"timespent": 1800,
					},
				},
			},
		})
	})

	svc, closeServer := newFakeService(t, mux, "PROJ")
	defer closeServer()

	dm, err := svc.DeliveryMetrics(context.Background())
	if err != nil {
		t.Fatalf("DeliveryMetrics: %v", err)
	}

	if dm.TotalIssues != 2 || dm.CompletedIssues != 1 {
		t.Errorf("total/completed = %d/%d", dm.TotalIssues, dm.CompletedIssues)
	}
	if dm.AverageTimeToResolve != "24.00h" {
		t.Errorf("AverageTimeToResolve = %q", dm.AverageTimeToResolve)
	}
	if dm.TotalWorkLogged != "1.50h" {
		t.Errorf("TotalWorkLogged = %q", dm.TotalWorkLogged)
	}
}
