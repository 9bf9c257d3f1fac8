package jira

//based on https://pkg.go.dev/github.com/andygrunwald/go-jira

type Project struct {
	ID   string `json:"id,omitempty" structs:"id,omitempty"`
	Key  string `json:"key,omitempty" structs:"key,omitempty"`
	Name string `json:"name,omitempty" structs:"name,omitempty"`
}

type User struct {
	Self         string `json:"self,omitempty" structs:"self,omitempty"`
	AccountID    string `json:"accountId,omitempty" structs:"accountId,omitempty"`
	AccountType  string `json:"accountType,omitempty" structs:"accountType,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty" structs:"emailAddress,omitempty"`
	DisplayName  string `json:"displayName,omitempty" structs:"displayName,omitempty"`
	Active       bool   `json:"active,omitempty" structs:"active,omitempty"`
}

type IssueType struct {
	ID   string `json:"id,omitempty" structs:"id,omitempty"`
	Name string `json:"name,omitempty" structs:"name,omitempty"`
}

// Priority represents a priority of a Jira issue.
// Typical types are "Normal", "Moderate", "Urgent", ...
type Priority struct {
	ID   string `json:"id,omitempty" structs:"id,omitempty"`
	Name string `json:"name,omitempty" structs:"name,omitempty"`
}

type Issue struct {
	ID     string       `json:"id,omitempty" structs:"id,omitempty"`
	Self   string       `json:"self,omitempty" structs:"self,omitempty"`
	Key    string       `json:"key,omitempty" structs:"key,omitempty"`
	Fields *IssueFields `json:"fields,omitempty" structs:"fields,omitempty"`
}

type IssueFields struct {
	Type        *IssueType `json:"issuetype,omitempty" structs:"issuetype,omitempty"`
	Project     *Project   `json:"project,omitempty" structs:"project,omitempty"`
	Priority    *Priority  `json:"priority,omitempty" structs:"priority,omitempty"`
	Assignee    *User      `json:"assignee,omitempty" structs:"assignee,omitempty"`
	Description *ADF       `json:"description,omitempty" structs:"description,omitempty"`
	Summary     string     `json:"summary,omitempty" structs:"summary,omitempty"`
	Status      *Status    `json:"status,omitempty" structs:"status,omitempty"`
	Labels      []string   `json:"labels,omitempty" structs:"labels,omitempty"`
	// Duedate has the format YYYY-MM-DD
	Duedate string `json:"duedate,omitempty" structs:"duedate,omitempty"`
}

type Transition struct {
	ID   string `json:"id" structs:"id"`
	Name string `json:"name" structs:"name"`
	To   Status `json:"to" structs:"status"`
}

type TransitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

type Status struct {
	Name           string         `json:"name" structs:"name"`
	ID             string         `json:"id" structs:"id"`
	StatusCategory StatusCategory `json:"statusCategory" structs:"statusCategory"`
}

const (
	StatusCategoryToDo       = 2
	StatusCategoryInProgress = 4
	StatusCategoryDone       = 3
)

type StatusCategory struct {
	ID   int    `json:"id" structs:"id"`
	Name string `json:"name" structs:"name"`
	Key  string `json:"key" structs:"key"`
}

type CreateIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

type searchRequest struct {
	JQL           string   `json:"jql"`
	Fields        []string `json:"fields"`
	MaxResults    int      `json:"maxResults"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

type searchResponse struct {
	Issues        []Issue `json:"issues"`
	NextPageToken string  `json:"nextPageToken"`
	IsLast        bool    `json:"isLast"`
}
