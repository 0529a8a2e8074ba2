package timeback

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultResponseIdentifier is the response declaration used by single-input items.
const DefaultResponseIdentifier = "RESPONSE"

// Navigation and submission modes of a test part.
const (
	NavigationLinear       = "linear"
	NavigationNonlinear    = "nonlinear"
	SubmissionIndividual   = "individual"
	SubmissionSimultaneous = "simultaneous"
)

// CorrectResponse lists the accepted values of a response declaration.
type CorrectResponse struct {
	Value []string `json:"value" yaml:"value"`
}

// ResponseDeclaration describes one expected candidate response.
type ResponseDeclaration struct {
	Identifier      string           `json:"identifier"                yaml:"identifier"`
	Cardinality     string           `json:"cardinality"               yaml:"cardinality"`
	BaseType        string           `json:"baseType"                  yaml:"base_type"`
	CorrectResponse *CorrectResponse `json:"correctResponse,omitempty" yaml:"correct_response,omitempty"`
}

// Validate implements validation.Validatable.
func (r ResponseDeclaration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required),
		validation.Field(&r.Cardinality, validation.Required, validation.In("single", "multiple", "ordered", "record")),
		validation.Field(&r.BaseType, validation.Required),
	)
}

// OutcomeDeclaration describes a scored outcome variable.
type OutcomeDeclaration struct {
	Identifier    string   `json:"identifier"              yaml:"identifier"`
	Cardinality   string   `json:"cardinality"             yaml:"cardinality"`
	BaseType      string   `json:"baseType"                yaml:"base_type"`
	NormalMaximum *float64 `json:"normalMaximum,omitempty" yaml:"normal_maximum,omitempty"`
	NormalMinimum *float64 `json:"normalMinimum,omitempty" yaml:"normal_minimum,omitempty"`
	DefaultValue  Document `json:"defaultValue,omitempty"  yaml:"default_value,omitempty"`
}

// AssessmentItem is a QTI 3.0 question.
type AssessmentItem struct {
	Identifier           string                `json:"identifier"                     yaml:"identifier"`
	Title                string                `json:"title"                          yaml:"title"`
	Type                 string                `json:"type"                           yaml:"type"`
	QTIVersion           string                `json:"qtiVersion,omitempty"           yaml:"qti_version,omitempty"`
	TimeDependent        bool                  `json:"timeDependent"                  yaml:"time_dependent"`
	Adaptive             bool                  `json:"adaptive"                       yaml:"adaptive"`
	Interaction          Document              `json:"interaction,omitempty"          yaml:"interaction,omitempty"`
	ResponseDeclarations []ResponseDeclaration `json:"responseDeclarations,omitempty" yaml:"response_declarations,omitempty"`
	OutcomeDeclarations  []OutcomeDeclaration  `json:"outcomeDeclarations,omitempty"  yaml:"outcome_declarations,omitempty"`
	ResponseProcessing   Document              `json:"responseProcessing,omitempty"   yaml:"response_processing,omitempty"`
	Metadata             Metadata              `json:"metadata,omitempty"             yaml:"metadata,omitempty"`
	RawXML               string                `json:"rawXml,omitempty"               yaml:"raw_xml,omitempty"`
	Content              Document              `json:"content,omitempty"              yaml:"content,omitempty"`
	CreatedAt            *time.Time            `json:"createdAt,omitempty"            yaml:"created_at,omitempty"`
	UpdatedAt            *time.Time            `json:"updatedAt,omitempty"            yaml:"updated_at,omitempty"`
}

// Validate implements validation.Validatable.
func (a AssessmentItem) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Identifier, validation.Required),
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Type, validation.Required),
		validation.Field(&a.ResponseDeclarations),
	)
}

// ItemRef places an assessment item inside a section.
type ItemRef struct {
	Identifier string `json:"identifier"         yaml:"identifier"`
	Href       string `json:"href"               yaml:"href"`
	Required   *bool  `json:"required,omitempty" yaml:"required,omitempty"`
	Fixed      *bool  `json:"fixed,omitempty"    yaml:"fixed,omitempty"`
}

// Validate implements validation.Validatable.
func (r ItemRef) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required),
	)
}

// Section groups item references inside a test part.
type Section struct {
	Identifier string    `json:"identifier"                        yaml:"identifier"`
	Title      string    `json:"title"                             yaml:"title"`
	Visible    bool      `json:"visible"                           yaml:"visible"`
	Required   *bool     `json:"required,omitempty"                yaml:"required,omitempty"`
	Fixed      *bool     `json:"fixed,omitempty"                   yaml:"fixed,omitempty"`
	Sequence   *int      `json:"sequence,omitempty"                yaml:"sequence,omitempty"`
	ItemRefs   []ItemRef `json:"qti-assessment-item-ref,omitempty" yaml:"item_refs,omitempty"`
}

// Validate implements validation.Validatable.
func (s Section) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Identifier, validation.Required),
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.ItemRefs),
	)
}

// TestPart is a navigation unit of an assessment test.
type TestPart struct {
	Identifier     string    `json:"identifier"             yaml:"identifier"`
	NavigationMode string    `json:"navigationMode"         yaml:"navigation_mode"`
	SubmissionMode string    `json:"submissionMode"         yaml:"submission_mode"`
	Sections       []Section `json:"qti-assessment-section" yaml:"sections"`
}

// Validate implements validation.Validatable.
func (p TestPart) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Identifier, validation.Required),
		validation.Field(&p.NavigationMode, validation.In(NavigationLinear, NavigationNonlinear)),
		validation.Field(&p.SubmissionMode, validation.In(SubmissionIndividual, SubmissionSimultaneous)),
		validation.Field(&p.Sections),
	)
}

// AssessmentTest is a QTI 3.0 test made of parts and sections.
type AssessmentTest struct {
	Identifier          string               `json:"identifier"                        yaml:"identifier"`
	Title               string               `json:"title"                             yaml:"title"`
	QTIVersion          string               `json:"qtiVersion,omitempty"              yaml:"qti_version,omitempty"`
	ToolName            string               `json:"toolName,omitempty"                yaml:"tool_name,omitempty"`
	ToolVersion         string               `json:"toolVersion,omitempty"             yaml:"tool_version,omitempty"`
	TimeLimit           int                  `json:"timeLimit,omitempty"               yaml:"time_limit,omitempty"`
	MaxAttempts         int                  `json:"maxAttempts,omitempty"             yaml:"max_attempts,omitempty"`
	TestParts           []TestPart           `json:"qti-test-part"                     yaml:"test_parts"`
	OutcomeDeclarations []OutcomeDeclaration `json:"qti-outcome-declaration,omitempty" yaml:"outcome_declarations,omitempty"`
	Metadata            Metadata             `json:"metadata,omitempty"                yaml:"metadata,omitempty"`
	CreatedAt           *time.Time           `json:"createdAt,omitempty"               yaml:"created_at,omitempty"`
	UpdatedAt           *time.Time           `json:"updatedAt,omitempty"               yaml:"updated_at,omitempty"`
}

// Validate implements validation.Validatable.
func (a AssessmentTest) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Identifier, validation.Required),
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.TestParts),
	)
}

// CatalogEntry is an accessibility annotation of a stimulus.
type CatalogEntry struct {
	ID      string `json:"id"      yaml:"id"`
	Support string `json:"support" yaml:"support"`
	Content string `json:"content" yaml:"content"`
}

// Stimulus is shared reading material referenced by items.
type Stimulus struct {
	Identifier  string         `json:"identifier"            yaml:"identifier"`
	Title       string         `json:"title"                 yaml:"title"`
	Label       string         `json:"label,omitempty"       yaml:"label,omitempty"`
	Language    string         `json:"language,omitempty"    yaml:"language,omitempty"`
	Content     string         `json:"content"               yaml:"content"`
	CatalogInfo []CatalogEntry `json:"catalogInfo,omitempty" yaml:"catalog_info,omitempty"`
	Metadata    Metadata       `json:"metadata,omitempty"    yaml:"metadata,omitempty"`
	RawXML      string         `json:"rawXml,omitempty"      yaml:"raw_xml,omitempty"`
	CreatedAt   *time.Time     `json:"createdAt,omitempty"   yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time     `json:"updatedAt,omitempty"   yaml:"updated_at,omitempty"`
}

// Validate implements validation.Validatable.
func (s Stimulus) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Identifier, validation.Required),
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.Content, validation.Required),
	)
}

// ProcessResponseRequest is the body of a single-response scoring call.
type ProcessResponseRequest struct {
	Identifier string      `json:"identifier"`
	Response   interface{} `json:"response"`
}

// ProcessResponsesRequest is the body of a multi-response scoring call.
type ProcessResponsesRequest struct {
	Responses map[string]interface{} `json:"responses"`
}

// ResponseFeedback is the feedback attached to a scored response.
type ResponseFeedback struct {
	Identifier string `json:"identifier" yaml:"identifier"`
	Value      string `json:"value"      yaml:"value"`
}

// ResponseResult is the outcome of scoring a candidate response.
type ResponseResult struct {
	Score    float64           `json:"score"              yaml:"score"`
	Feedback *ResponseFeedback `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}
