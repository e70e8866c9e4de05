package model

// Tipos de resposta da API REST do Jira. Somente os campos
// consumidos pelo gateway são mapeados.

// Issue é uma issue do Jira
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contém os campos de uma issue
type IssueFields struct {
	Summary              string        `json:"summary"`
	Description          string        `json:"description"`
	Created              string        `json:"created"`
	Updated              string        `json:"updated"`
	ResolutionDate       string        `json:"resolutiondate"`
	Labels               []string      `json:"labels"`
	Status               *Status       `json:"status"`
	Priority             *NamedField   `json:"priority"`
	Resolution           *NamedField   `json:"resolution"`
	IssueType            *NamedField   `json:"issuetype"`
	Project              *Project      `json:"project"`
	Reporter             *User         `json:"reporter"`
	Assignee             *User         `json:"assignee"`
	Components           []NamedField  `json:"components"`
	TimeTracking         *TimeTracking `json:"timetracking"`
	TimeSpent            int64         `json:"timespent"`
	TimeOriginalEstimate int64         `json:"timeoriginalestimate"`
}

// Status é o status de uma issue
type Status struct {
	Name           string          `json:"name"`
	StatusCategory *StatusCategory `json:"statusCategory"`
}

// StatusCategory é a categoria de status ("new", "indeterminate", "done")
type StatusCategory struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// NamedField é um campo genérico do Jira com id e nome
type NamedField struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project é um projeto do Jira
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// User é um usuário do Jira
type User struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// TimeTracking contém as estimativas de tempo de uma issue
type TimeTracking struct {
	OriginalEstimate         string `json:"originalEstimate"`
	RemainingEstimate        string `json:"remainingEstimate"`
	OriginalEstimateSeconds  int64  `json:"originalEstimateSeconds"`
	RemainingEstimateSeconds int64  `json:"remainingEstimateSeconds"`
}

// SearchResponse é a resposta paginada de /rest/api/2/search
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Worklog é um registro de trabalho de uma issue
type Worklog struct {
	ID               string `json:"id"`
	Author           *User  `json:"author"`
	Started          string `json:"started"`
	TimeSpent        string `json:"timeSpent"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
}

// WorklogResponse é a resposta paginada de /rest/api/2/issue/{key}/worklog
type WorklogResponse struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	Worklogs   []Worklog `json:"worklogs"`
}

// Sprint é um sprint da API Agile (/rest/agile/1.0/sprint/{id})
type Sprint struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	State        string `json:"state"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	CompleteDate string `json:"completeDate"`
	Goal         string `json:"goal"`
}
