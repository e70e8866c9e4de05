package model

// Formas de resposta do gateway. Cada objeto é montado por requisição
// a partir da resposta do Jira e descartado após a serialização.

// WorkEstimate contém as estimativas de tempo de uma issue
type WorkEstimate struct {
	IssueKey         string `json:"issueKey"`
	Summary          string `json:"summary,omitempty"`
	Original         string `json:"original"`
	Remaining        string `json:"remaining"`
	OriginalSeconds  int64  `json:"originalSeconds"`
	RemainingSeconds int64  `json:"remainingSeconds"`
}

// WorkLogEntry é um registro de trabalho de uma issue
type WorkLogEntry struct {
	Author    string `json:"author"`
	Started   string `json:"started"`
	TimeSpent string `json:"timeSpent"`
	Seconds   int64  `json:"seconds"`
}

// WorkLogSummary agrega os registros de trabalho de uma issue.
// Total é sempre a soma das durações das entradas.
type WorkLogSummary struct {
	IssueKey     string         `json:"issueKey"`
	Entries      []WorkLogEntry `json:"entries"`
	Total        string         `json:"total"`
	TotalSeconds int64          `json:"totalSeconds"`
}

// SprintInsight agrega as contagens de um sprint.
// Invariante: Completed + CarriedOver <= Planned.
type SprintInsight struct {
	SprintID             int     `json:"sprintId"`
	Name                 string  `json:"name"`
	State                string  `json:"state"`
	Planned              int     `json:"planned"`
	Completed            int     `json:"completed"`
	CarriedOver          int     `json:"carriedOver"`
	Bugs                 int     `json:"bugs"`
	TotalEstimate        string  `json:"totalEstimate"`
	TotalLogged          string  `json:"totalLogged"`
	TotalEstimateSeconds int64   `json:"totalEstimateSeconds"`
	TotalLoggedSeconds   int64   `json:"totalLoggedSeconds"`
	Velocity             float64 `json:"velocity"`
}

// IssueDetails é a visão detalhada de uma issue
type IssueDetails struct {
	IssueKey          string   `json:"issueKey"`
	Summary           string   `json:"summary"`
	Description       string   `json:"description,omitempty"`
	Status            string   `json:"status,omitempty"`
	Priority          string   `json:"priority,omitempty"`
	Reporter          string   `json:"reporter,omitempty"`
	Assignee          string   `json:"assignee,omitempty"`
	IssueType         string   `json:"issueType,omitempty"`
	Created           string   `json:"created,omitempty"`
	Updated           string   `json:"updated,omitempty"`
	Labels            []string `json:"labels"`
	Components        []string `json:"components"`
	Project           string   `json:"project,omitempty"`
	Resolution        string   `json:"resolution,omitempty"`
	ResolutionDate    string   `json:"resolutionDate,omitempty"`
	OriginalEstimate  string   `json:"originalEstimate,omitempty"`
	RemainingEstimate string   `json:"remainingEstimate,omitempty"`
}

// FilteredIssue é uma issue na listagem filtrada
type FilteredIssue struct {
	IssueKey string `json:"issueKey"`
	Summary  string `json:"summary"`
	Priority string `json:"priority"`
	Status   string `json:"status"`
}

// AssignedIssue é uma issue na listagem por responsável
type AssignedIssue struct {
	Key      string `json:"key"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
	Reporter string `json:"reporter"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
}

// AssignedIssues é o resultado da listagem por responsável
type AssignedIssues struct {
	TotalIssues int             `json:"totalIssues"`
	Issues      []AssignedIssue `json:"issues"`
}

// DeliveryMetrics agrega métricas de entrega do projeto
type DeliveryMetrics struct {
	TotalIssues          int    `json:"totalIssues"`
	CompletedIssues      int    `json:"completedIssues"`
	AverageTimeToResolve string `json:"averageTimeToResolve"`
	TotalWorkLogged      string `json:"totalWorkLogged"`
}

// Response é a resposta genérica de sucesso
type Response struct {
	Success bool `json:"success"`
}

// ErrorResponse é a resposta de erro da API
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
