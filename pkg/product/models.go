package product

import (
	"encoding/json"
)

// Product - a product registered by a user and the tools attached to it
type Product struct {
	ID            int64          `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Token         string         `json:"token" yaml:"token"`
	UserID        int64          `json:"userId,omitempty" yaml:"userId,omitempty"`
	SonarqubeInfo *SonarqubeInfo `json:"sonarqubeInfo,omitempty" yaml:"sonarqubeInfo,omitempty"`
	JiraInfo      *JiraInfo      `json:"jiraInfo,omitempty" yaml:"jiraInfo,omitempty"`
	JenkinsInfo   *JenkinsInfo   `json:"jenkinsInfo,omitempty" yaml:"jenkinsInfo,omitempty"`
	ReleaseInfo   []ReleaseInfo  `json:"releaseInfo,omitempty" yaml:"releaseInfo,omitempty"`
}

// LatestRelease - the release with the highest id, nil when there is none
func (p *Product) LatestRelease() *ReleaseInfo {
	if len(p.ReleaseInfo) == 0 {
		return nil
	}
	return &p.ReleaseInfo[len(p.ReleaseInfo)-1]
}

// SonarqubeInfo - how the backend reaches the static analysis server
type SonarqubeInfo struct {
	BaseURL       string `json:"baseUrl" yaml:"baseUrl"`
	ComponentName string `json:"componentName" yaml:"componentName"`
	Token         string `json:"token" yaml:"token"`
}

// JiraInfo - how the backend reaches the issue tracker
type JiraInfo struct {
	BaseURL   string      `json:"baseUrl" yaml:"baseUrl"`
	BoardID   json.Number `json:"boardId" yaml:"boardId"`
	UserEmail string      `json:"userEmail" yaml:"userEmail"`
	Token     string      `json:"token" yaml:"token"`
}

// JenkinsInfo - how the backend reaches the CI server
type JenkinsInfo struct {
	BaseURL  string `json:"baseUrl" yaml:"baseUrl"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
}

// ReleaseInfo - the tool data collected for one release
type ReleaseInfo struct {
	ID                   int64                 `json:"id" yaml:"id"`
	Created              int64                 `json:"created" yaml:"created"`
	QualityLevel         float64               `json:"qualityLevel" yaml:"qualityLevel"`
	ReleaseInfoSonarqube *ReleaseInfoSonarqube `json:"releaseInfoSonarqube,omitempty" yaml:"releaseInfoSonarqube,omitempty"`
	ReleaseInfoJira      *ReleaseInfoJira      `json:"releaseInfoJira,omitempty" yaml:"releaseInfoJira,omitempty"`
	ReleaseInfoJenkins   *ReleaseInfoJenkins   `json:"releaseInfoJenkins,omitempty" yaml:"releaseInfoJenkins,omitempty"`
}

// ReleaseInfoSonarqube - ratings run from 1 (A) to 5 (E), debt is in minutes
type ReleaseInfoSonarqube struct {
	SecurityRating          float64 `json:"securityRating" yaml:"securityRating"`
	SecurityVulnerabilities int64   `json:"securityVulnerabilities" yaml:"securityVulnerabilities"`
	ReliabilityRating       float64 `json:"reliabilityRating" yaml:"reliabilityRating"`
	ReliabilityBugs         int64   `json:"reliabilityBugs" yaml:"reliabilityBugs"`
	MaintainabilityRating   float64 `json:"maintainabilityRating" yaml:"maintainabilityRating"`
	MaintainabilitySmells   int64   `json:"maintainabilitySmells" yaml:"maintainabilitySmells"`
	MaintainabilityDebt     int64   `json:"maintainabilityDebt" yaml:"maintainabilityDebt"`
}

// ReleaseInfoJira -
type ReleaseInfoJira struct {
	JiraSprints []JiraSprint `json:"jiraSprints" yaml:"jiraSprints"`
}

// JiraSprint - start and end are epoch milliseconds
type JiraSprint struct {
	ID         int64       `json:"id" yaml:"id"`
	Name       string      `json:"name" yaml:"name"`
	Goal       string      `json:"goal,omitempty" yaml:"goal,omitempty"`
	Start      int64       `json:"start" yaml:"start"`
	End        int64       `json:"end" yaml:"end"`
	BrowserURL string      `json:"browserUrl" yaml:"browserUrl"`
	Issues     []JiraIssue `json:"issues" yaml:"issues"`
}

// JiraIssue -
type JiraIssue struct {
	Key        string          `json:"key" yaml:"key"`
	BrowserURL string          `json:"browserUrl" yaml:"browserUrl"`
	Fields     JiraIssueFields `json:"fields" yaml:"fields"`
}

// JiraIssueFields -
type JiraIssueFields struct {
	Summary   string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	IssueType JiraIssueType `json:"issueType" yaml:"issueType"`
}

// JiraIssueType -
type JiraIssueType struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	IconURL string `json:"iconUrl" yaml:"iconUrl"`
}

// ReleaseInfoJenkins -
type ReleaseInfoJenkins struct {
	JenkinsJobs []JenkinsJob `json:"jenkinsJobs" yaml:"jenkinsJobs"`
}

// JenkinsJob - lastBuild is epoch milliseconds, the lead and restore times are milliseconds
type JenkinsJob struct {
	Name                 string  `json:"name" yaml:"name"`
	Status               string  `json:"status" yaml:"status"`
	Description          string  `json:"description,omitempty" yaml:"description,omitempty"`
	LastBuild            int64   `json:"lastBuild" yaml:"lastBuild"`
	BuildScore           int64   `json:"buildScore" yaml:"buildScore"`
	BuildReport          string  `json:"buildReport,omitempty" yaml:"buildReport,omitempty"`
	DeploymentFrequency  float64 `json:"deploymentFrequency,omitempty" yaml:"deploymentFrequency,omitempty"`
	LeadTimeForChange    float64 `json:"leadTimeForChange,omitempty" yaml:"leadTimeForChange,omitempty"`
	TimeToRestoreService float64 `json:"timeToRestoreService,omitempty" yaml:"timeToRestoreService,omitempty"`
	ChangeFailureRate    float64 `json:"changeFailureRate,omitempty" yaml:"changeFailureRate,omitempty"`
}

// ConnectionTestResult - the answer of a tool connection test
type ConnectionTestResult struct {
	ConnectionOk bool   `json:"connectionOk" yaml:"connectionOk"`
	Message      string `json:"message" yaml:"message"`
}

// TriggerStatus -
type TriggerStatus string

// Trigger statuses
const (
	TriggerOK    TriggerStatus = "OK"
	TriggerError TriggerStatus = "Error"
)

// TriggerResult - the outcome of a release info collection trigger
type TriggerResult struct {
	Status TriggerStatus `json:"status" yaml:"status"`
}

// SaveProductRequest - the body of a product creation
type SaveProductRequest struct {
	Name          string         `json:"name"`
	UserID        int64          `json:"userId"`
	SonarqubeInfo *SonarqubeInfo `json:"sonarqubeInfo,omitempty"`
	JiraInfo      *JiraInfo      `json:"jiraInfo,omitempty"`
}

// UpdateProductRequest - the body of a product update
type UpdateProductRequest struct {
	GenerateNewToken bool    `json:"generateNewToken"`
	Product          Product `json:"product"`
}
