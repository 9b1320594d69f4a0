package product

import (
	"encoding/json"

	"github.com/pqd/pqd-sdk/pkg/validation"
)

// Form - the settings entered when adding or modifying a product
type Form struct {
	Name string

	SonarqubeEnabled       bool
	SonarqubeBaseURL       string
	SonarqubeComponentName string
	SonarqubeToken         string

	JiraEnabled   bool
	JiraBaseURL   string
	JiraBoardID   string
	JiraUserEmail string
	JiraToken     string

	GenerateNewToken bool
}

// NewForm - an empty form for a new product, both tools enabled
func NewForm() *Form {
	return &Form{
		SonarqubeEnabled: true,
		JiraEnabled:      true,
	}
}

// FormFromProduct - a form preloaded with the settings of p, both tools disabled until the user
// chooses to change them
func FormFromProduct(p *Product) *Form {
	f := &Form{Name: p.Name}
	if p.SonarqubeInfo != nil {
		f.SonarqubeBaseURL = p.SonarqubeInfo.BaseURL
		f.SonarqubeComponentName = p.SonarqubeInfo.ComponentName
		f.SonarqubeToken = p.SonarqubeInfo.Token
	}
	if p.JiraInfo != nil {
		f.JiraBaseURL = p.JiraInfo.BaseURL
		f.JiraBoardID = p.JiraInfo.BoardID.String()
		f.JiraUserEmail = p.JiraInfo.UserEmail
		f.JiraToken = p.JiraInfo.Token
	}
	return f
}

// NameValid -
func (f *Form) NameValid() bool {
	return validation.NameValid(f.Name)
}

// SonarqubeDataExists - the sonarqube settings are complete and well formed
func (f *Form) SonarqubeDataExists() bool {
	return f.SonarqubeBaseURL != "" && validation.BaseURLValid(f.SonarqubeBaseURL) &&
		f.SonarqubeComponentName != ""
}

// JiraDataExists - the jira settings are complete and well formed
func (f *Form) JiraDataExists() bool {
	return f.JiraBaseURL != "" && validation.BaseURLValid(f.JiraBaseURL) &&
		f.JiraBoardID != "" && validation.NumericValid(f.JiraBoardID) &&
		f.JiraUserEmail != "" && validation.EmailValid(f.JiraUserEmail) &&
		f.JiraToken != ""
}

// SaveButtonEnabled - a new product needs a name, at least one tool, and complete settings for
// every enabled tool
func (f *Form) SaveButtonEnabled() bool {
	return f.Name != "" && f.NameValid() &&
		(f.JiraEnabled || f.SonarqubeEnabled) &&
		(!f.JiraEnabled || f.JiraDataExists()) &&
		(!f.SonarqubeEnabled || f.SonarqubeDataExists())
}

// UpdateButtonEnabled - every tool p is connected to, or the form enables, must have complete settings
func (f *Form) UpdateButtonEnabled(p *Product) bool {
	return f.Name != "" && f.NameValid() &&
		(!(f.JiraEnabled || p.JiraInfo != nil) || f.JiraDataExists()) &&
		(!(f.SonarqubeEnabled || p.SonarqubeInfo != nil) || f.SonarqubeDataExists())
}

func (f *Form) sonarqubeInfo() *SonarqubeInfo {
	if !f.SonarqubeEnabled {
		return nil
	}
	return &SonarqubeInfo{
		BaseURL:       f.SonarqubeBaseURL,
		ComponentName: f.SonarqubeComponentName,
		Token:         f.SonarqubeToken,
	}
}

func (f *Form) jiraInfo() *JiraInfo {
	if !f.JiraEnabled {
		return nil
	}
	return &JiraInfo{
		BaseURL:   f.JiraBaseURL,
		BoardID:   json.Number(f.JiraBoardID),
		UserEmail: f.JiraUserEmail,
		Token:     f.JiraToken,
	}
}

// SaveRequest - the creation body, only enabled tools are included
func (f *Form) SaveRequest(userID int64) (*SaveProductRequest, error) {
	if userID == 0 {
		return nil, ErrMissingUserID
	}
	if !f.SaveButtonEnabled() {
		return nil, ErrFormIncomplete
	}
	return &SaveProductRequest{
		Name:          f.Name,
		UserID:        userID,
		SonarqubeInfo: f.sonarqubeInfo(),
		JiraInfo:      f.jiraInfo(),
	}, nil
}

// UpdateRequest - the update body for p, only enabled tools are included
func (f *Form) UpdateRequest(p *Product) (*UpdateProductRequest, error) {
	if !f.UpdateButtonEnabled(p) {
		return nil, ErrFormIncomplete
	}
	return &UpdateProductRequest{
		GenerateNewToken: f.GenerateNewToken,
		Product: Product{
			ID:            p.ID,
			Name:          f.Name,
			Token:         p.Token,
			SonarqubeInfo: f.sonarqubeInfo(),
			JiraInfo:      f.jiraInfo(),
		},
	}, nil
}
