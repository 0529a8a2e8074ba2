package timeback

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// RoleType distinguishes a user's primary role from additional ones.
type RoleType string

const (
	RoleTypePrimary   RoleType = "primary"
	RoleTypeSecondary RoleType = "secondary"
)

// Role values used by users and enrollments.
const (
	RoleAdministrator = "administrator"
	RoleAide          = "aide"
	RoleGuardian      = "guardian"
	RoleParent        = "parent"
	RoleProctor       = "proctor"
	RoleStudent       = "student"
	RoleTeacher       = "teacher"
)

var userRoles = []interface{}{
	RoleAdministrator, RoleAide, RoleGuardian, RoleParent, RoleProctor, RoleStudent, RoleTeacher,
	"districtAdministrator", "relative", "siteAdministrator", "systemAdministrator",
}

var enrollmentRoles = []interface{}{RoleAdministrator, RoleProctor, RoleStudent, RoleTeacher}

var statuses = []interface{}{StatusActive, StatusToBeDeleted}

// OrgType is the kind of organization.
type OrgType string

const (
	OrgTypeDepartment OrgType = "department"
	OrgTypeSchool     OrgType = "school"
	OrgTypeDistrict   OrgType = "district"
	OrgTypeLocal      OrgType = "local"
	OrgTypeState      OrgType = "state"
	OrgTypeNational   OrgType = "national"
)

// SessionType is the kind of academic session.
type SessionType string

const (
	SessionTypeGradingPeriod SessionType = "gradingPeriod"
	SessionTypeSemester      SessionType = "semester"
	SessionTypeSchoolYear    SessionType = "schoolYear"
	SessionTypeTerm          SessionType = "term"
)

// UserID is an external identifier of a user.
type UserID struct {
	Type       string `json:"type"       yaml:"type"`
	Identifier string `json:"identifier" yaml:"identifier"`
}

// UserRole binds a user to an organization with a role.
type UserRole struct {
	RoleType    RoleType `json:"roleType"              yaml:"role_type"`
	Role        string   `json:"role"                  yaml:"role"`
	Org         Ref      `json:"org"                   yaml:"org"`
	UserProfile string   `json:"userProfile,omitempty" yaml:"user_profile,omitempty"`
	BeginDate   string   `json:"beginDate,omitempty"   yaml:"begin_date,omitempty"`
	EndDate     string   `json:"endDate,omitempty"     yaml:"end_date,omitempty"`
}

// Validate implements validation.Validatable.
func (r UserRole) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RoleType, validation.Required, validation.In(RoleTypePrimary, RoleTypeSecondary)),
		validation.Field(&r.Role, validation.Required, validation.In(userRoles...)),
		validation.Field(&r.Org),
	)
}

// User is a OneRoster user.
type User struct {
	SourcedID            string     `json:"sourcedId,omitempty"            yaml:"sourced_id,omitempty"`
	Status               Status     `json:"status,omitempty"               yaml:"status,omitempty"`
	DateLastModified     *time.Time `json:"dateLastModified,omitempty"     yaml:"date_last_modified,omitempty"`
	Metadata             Metadata   `json:"metadata,omitempty"             yaml:"metadata,omitempty"`
	UserMasterIdentifier string     `json:"userMasterIdentifier,omitempty" yaml:"user_master_identifier,omitempty"`
	Username             string     `json:"username,omitempty"             yaml:"username,omitempty"`
	UserIDs              []UserID   `json:"userIds,omitempty"              yaml:"user_ids,omitempty"`
	EnabledUser          bool       `json:"enabledUser"                    yaml:"enabled_user"`
	GivenName            string     `json:"givenName"                      yaml:"given_name"`
	FamilyName           string     `json:"familyName"                     yaml:"family_name"`
	MiddleName           string     `json:"middleName,omitempty"           yaml:"middle_name,omitempty"`
	PreferredFirstName   string     `json:"preferredFirstName,omitempty"   yaml:"preferred_first_name,omitempty"`
	Roles                []UserRole `json:"roles"                          yaml:"roles"`
	Agents               []Ref      `json:"agents,omitempty"               yaml:"agents,omitempty"`
	PrimaryOrg           *Ref       `json:"primaryOrg,omitempty"           yaml:"primary_org,omitempty"`
	Identifier           string     `json:"identifier,omitempty"           yaml:"identifier,omitempty"`
	Email                string     `json:"email,omitempty"                yaml:"email,omitempty"`
	SMS                  string     `json:"sms,omitempty"                  yaml:"sms,omitempty"`
	Phone                string     `json:"phone,omitempty"                yaml:"phone,omitempty"`
	Pronouns             string     `json:"pronouns,omitempty"             yaml:"pronouns,omitempty"`
	Grades               []string   `json:"grades,omitempty"               yaml:"grades,omitempty"`
	Password             string     `json:"password,omitempty"             yaml:"-"`
}

// Validate implements validation.Validatable.
func (u User) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Status, validation.In(statuses...)),
		validation.Field(&u.GivenName, validation.Required),
		validation.Field(&u.FamilyName, validation.Required),
		validation.Field(&u.Roles, validation.Required),
		validation.Field(&u.Email, is.EmailFormat),
		validation.Field(&u.Agents),
	)
}

// PrimaryRole returns the first primary role, or nil.
func (u *User) PrimaryRole() *UserRole {
	for i := range u.Roles {
		if u.Roles[i].RoleType == RoleTypePrimary {
			return &u.Roles[i]
		}
	}

	return nil
}

// Org is a OneRoster organization.
type Org struct {
	SourcedID        string     `json:"sourcedId,omitempty"        yaml:"sourced_id,omitempty"`
	Status           Status     `json:"status,omitempty"           yaml:"status,omitempty"`
	DateLastModified *time.Time `json:"dateLastModified,omitempty" yaml:"date_last_modified,omitempty"`
	Metadata         Metadata   `json:"metadata,omitempty"         yaml:"metadata,omitempty"`
	Name             string     `json:"name"                       yaml:"name"`
	Type             OrgType    `json:"type"                       yaml:"type"`
	Identifier       string     `json:"identifier,omitempty"       yaml:"identifier,omitempty"`
	Parent           *Ref       `json:"parent,omitempty"           yaml:"parent,omitempty"`
	Children         []Ref      `json:"children,omitempty"         yaml:"children,omitempty"`
}

// Validate implements validation.Validatable.
func (o Org) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Status, validation.In(statuses...)),
		validation.Field(&o.Name, validation.Required),
		validation.Field(&o.Type, validation.Required, validation.In(
			OrgTypeDepartment, OrgTypeSchool, OrgTypeDistrict, OrgTypeLocal, OrgTypeState, OrgTypeNational,
		)),
		validation.Field(&o.Parent),
	)
}

// Course is a OneRoster course.
type Course struct {
	SourcedID        string     `json:"sourcedId,omitempty"        yaml:"sourced_id,omitempty"`
	Status           Status     `json:"status,omitempty"           yaml:"status,omitempty"`
	DateLastModified *time.Time `json:"dateLastModified,omitempty" yaml:"date_last_modified,omitempty"`
	Metadata         Metadata   `json:"metadata,omitempty"         yaml:"metadata,omitempty"`
	Title            string     `json:"title"                      yaml:"title"`
	SchoolYear       *Ref       `json:"schoolYear,omitempty"       yaml:"school_year,omitempty"`
	CourseCode       string     `json:"courseCode,omitempty"       yaml:"course_code,omitempty"`
	Grades           []string   `json:"grades,omitempty"           yaml:"grades,omitempty"`
	Subjects         []string   `json:"subjects,omitempty"         yaml:"subjects,omitempty"`
	SubjectCodes     []string   `json:"subjectCodes,omitempty"     yaml:"subject_codes,omitempty"`
	Org              Ref        `json:"org"                        yaml:"org"`
	Level            string     `json:"level,omitempty"            yaml:"level,omitempty"`
	GradingScheme    string     `json:"gradingScheme,omitempty"    yaml:"grading_scheme,omitempty"`
	Resources        []Ref      `json:"resources,omitempty"        yaml:"resources,omitempty"`
}

// Validate implements validation.Validatable.
func (c Course) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Status, validation.In(statuses...)),
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Org),
		validation.Field(&c.SchoolYear),
	)
}

// ClassType is homeroom or scheduled.
type ClassType string

const (
	ClassTypeHomeroom  ClassType = "homeroom"
	ClassTypeScheduled ClassType = "scheduled"
)

// Class is a OneRoster class.
type Class struct {
	SourcedID        string     `json:"sourcedId,omitempty"        yaml:"sourced_id,omitempty"`
	Status           Status     `json:"status,omitempty"           yaml:"status,omitempty"`
	DateLastModified *time.Time `json:"dateLastModified,omitempty" yaml:"date_last_modified,omitempty"`
	Metadata         Metadata   `json:"metadata,omitempty"         yaml:"metadata,omitempty"`
	Title            string     `json:"title"                      yaml:"title"`
	ClassCode        string     `json:"classCode,omitempty"        yaml:"class_code,omitempty"`
	ClassType        ClassType  `json:"classType,omitempty"        yaml:"class_type,omitempty"`
	Location         string     `json:"location,omitempty"         yaml:"location,omitempty"`
	Grades           []string   `json:"grades,omitempty"           yaml:"grades,omitempty"`
	Subjects         []string   `json:"subjects,omitempty"         yaml:"subjects,omitempty"`
	SubjectCodes     []string   `json:"subjectCodes,omitempty"     yaml:"subject_codes,omitempty"`
	Periods          []string   `json:"periods,omitempty"          yaml:"periods,omitempty"`
	Course           Ref        `json:"course"                     yaml:"course"`
	School           Ref        `json:"school"                     yaml:"school"`
	Terms            []Ref      `json:"terms"                      yaml:"terms"`
	Resources        []Ref      `json:"resources,omitempty"        yaml:"resources,omitempty"`
}

// Validate implements validation.Validatable.
func (c Class) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Status, validation.In(statuses...)),
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.ClassType, validation.In(ClassTypeHomeroom, ClassTypeScheduled)),
		validation.Field(&c.Course),
		validation.Field(&c.School),
		validation.Field(&c.Terms, validation.Required),
	)
}

// Enrollment links a user to a class.
type Enrollment struct {
	SourcedID        string     `json:"sourcedId,omitempty"        yaml:"sourced_id,omitempty"`
	Status           Status     `json:"status,omitempty"           yaml:"status,omitempty"`
	DateLastModified *time.Time `json:"dateLastModified,omitempty" yaml:"date_last_modified,omitempty"`
	Metadata         Metadata   `json:"metadata,omitempty"         yaml:"metadata,omitempty"`
	Role             string     `json:"role"                       yaml:"role"`
	Primary          bool       `json:"primary,omitempty"          yaml:"primary,omitempty"`
	BeginDate        string     `json:"beginDate,omitempty"        yaml:"begin_date,omitempty"`
	EndDate          string     `json:"endDate,omitempty"          yaml:"end_date,omitempty"`
	User             Ref        `json:"user"                       yaml:"user"`
	Class            Ref        `json:"class"                      yaml:"class"`
	School           *Ref       `json:"school,omitempty"           yaml:"school,omitempty"`
}

// Validate implements validation.Validatable.
func (e Enrollment) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Status, validation.In(statuses...)),
		validation.Field(&e.Role, validation.Required, validation.In(enrollmentRoles...)),
		validation.Field(&e.User),
		validation.Field(&e.Class),
		validation.Field(&e.School),
	)
}

// AcademicSession is a term, semester, grading period or school year.
type AcademicSession struct {
	SourcedID        string      `json:"sourcedId,omitempty"        yaml:"sourced_id,omitempty"`
	Status           Status      `json:"status,omitempty"           yaml:"status,omitempty"`
	DateLastModified *time.Time  `json:"dateLastModified,omitempty" yaml:"date_last_modified,omitempty"`
	Metadata         Metadata    `json:"metadata,omitempty"         yaml:"metadata,omitempty"`
	Title            string      `json:"title"                      yaml:"title"`
	StartDate        string      `json:"startDate"                  yaml:"start_date"`
	EndDate          string      `json:"endDate"                    yaml:"end_date"`
	Type             SessionType `json:"type"                       yaml:"type"`
	Parent           *Ref        `json:"parent,omitempty"           yaml:"parent,omitempty"`
	Children         []Ref       `json:"children,omitempty"         yaml:"children,omitempty"`
	SchoolYear       string      `json:"schoolYear"                 yaml:"school_year"`
	Org              *Ref        `json:"org,omitempty"              yaml:"org,omitempty"`
}

// Validate implements validation.Validatable.
func (a AcademicSession) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Status, validation.In(statuses...)),
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.StartDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&a.EndDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&a.Type, validation.Required, validation.In(
			SessionTypeGradingPeriod, SessionTypeSemester, SessionTypeSchoolYear, SessionTypeTerm,
		)),
		validation.Field(&a.SchoolYear, validation.Required),
	)
}

// Resource is a OneRoster learning resource.
type Resource struct {
	SourcedID        string     `json:"sourcedId,omitempty"        yaml:"sourced_id,omitempty"`
	Status           Status     `json:"status,omitempty"           yaml:"status,omitempty"`
	DateLastModified *time.Time `json:"dateLastModified,omitempty" yaml:"date_last_modified,omitempty"`
	Metadata         Metadata   `json:"metadata,omitempty"         yaml:"metadata,omitempty"`
	Title            string     `json:"title"                      yaml:"title"`
	Roles            []string   `json:"roles,omitempty"            yaml:"roles,omitempty"`
	Importance       string     `json:"importance,omitempty"       yaml:"importance,omitempty"`
	VendorResourceID string     `json:"vendorResourceId"           yaml:"vendor_resource_id"`
	VendorID         string     `json:"vendorId,omitempty"         yaml:"vendor_id,omitempty"`
	ApplicationID    string     `json:"applicationId,omitempty"    yaml:"application_id,omitempty"`
	Org              *Ref       `json:"org,omitempty"              yaml:"org,omitempty"`
}

// Validate implements validation.Validatable.
func (r Resource) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, validation.In(statuses...)),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.VendorResourceID, validation.Required),
		validation.Field(&r.Importance, validation.In("primary", "secondary")),
	)
}

// CourseComponent is a unit or lesson inside a course.
type CourseComponent struct {
	SourcedID            string     `json:"sourcedId,omitempty"            yaml:"sourced_id,omitempty"`
	Status               Status     `json:"status,omitempty"               yaml:"status,omitempty"`
	DateLastModified     *time.Time `json:"dateLastModified,omitempty"     yaml:"date_last_modified,omitempty"`
	Metadata             Metadata   `json:"metadata,omitempty"             yaml:"metadata,omitempty"`
	Title                string     `json:"title"                          yaml:"title"`
	Course               Ref        `json:"course"                         yaml:"course"`
	CourseComponent      *Ref       `json:"courseComponent,omitempty"      yaml:"course_component,omitempty"`
	SortOrder            int        `json:"sortOrder"                      yaml:"sort_order"`
	Prerequisites        []string   `json:"prerequisites,omitempty"        yaml:"prerequisites,omitempty"`
	PrerequisiteCriteria string     `json:"prerequisiteCriteria,omitempty" yaml:"prerequisite_criteria,omitempty"`
	UnlockDate           string     `json:"unlockDate,omitempty"           yaml:"unlock_date,omitempty"`
}

// Validate implements validation.Validatable.
func (c CourseComponent) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Status, validation.In(statuses...)),
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.Course),
		validation.Field(&c.CourseComponent),
		validation.Field(&c.SortOrder, validation.Min(0)),
		validation.Field(&c.PrerequisiteCriteria, validation.In("ALL", "ANY")),
	)
}

// ComponentResource attaches a resource to a course component.
type ComponentResource struct {
	SourcedID        string     `json:"sourcedId,omitempty"        yaml:"sourced_id,omitempty"`
	Status           Status     `json:"status,omitempty"           yaml:"status,omitempty"`
	DateLastModified *time.Time `json:"dateLastModified,omitempty" yaml:"date_last_modified,omitempty"`
	Metadata         Metadata   `json:"metadata,omitempty"         yaml:"metadata,omitempty"`
	Title            string     `json:"title"                      yaml:"title"`
	CourseComponent  Ref        `json:"courseComponent"            yaml:"course_component"`
	Resource         Ref        `json:"resource"                   yaml:"resource"`
	SortOrder        int        `json:"sortOrder"                  yaml:"sort_order"`
}

// Validate implements validation.Validatable.
func (c ComponentResource) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Status, validation.In(statuses...)),
		validation.Field(&c.Title, validation.Required),
		validation.Field(&c.CourseComponent),
		validation.Field(&c.Resource),
		validation.Field(&c.SortOrder, validation.Min(0)),
	)
}

// ScoreStatus is the state of an assessment result.
type ScoreStatus string

const (
	ScoreStatusExempt          ScoreStatus = "exempt"
	ScoreStatusFullyGraded     ScoreStatus = "fully graded"
	ScoreStatusNotSubmitted    ScoreStatus = "not submitted"
	ScoreStatusPartiallyGraded ScoreStatus = "partially graded"
	ScoreStatusSubmitted       ScoreStatus = "submitted"
)

// AssessmentLineItem is a gradebook column.
type AssessmentLineItem struct {
	SourcedID                string     `json:"sourcedId,omitempty"                yaml:"sourced_id,omitempty"`
	Status                   Status     `json:"status,omitempty"                   yaml:"status,omitempty"`
	DateLastModified         *time.Time `json:"dateLastModified,omitempty"         yaml:"date_last_modified,omitempty"`
	Metadata                 Metadata   `json:"metadata,omitempty"                 yaml:"metadata,omitempty"`
	Title                    string     `json:"title"                              yaml:"title"`
	Description              string     `json:"description,omitempty"              yaml:"description,omitempty"`
	Class                    *Ref       `json:"class,omitempty"                    yaml:"class,omitempty"`
	Course                   *Ref       `json:"course,omitempty"                   yaml:"course,omitempty"`
	ParentAssessmentLineItem *Ref       `json:"parentAssessmentLineItem,omitempty" yaml:"parent_assessment_line_item,omitempty"`
	ScoreScale               *Ref       `json:"scoreScale,omitempty"               yaml:"score_scale,omitempty"`
	Component                *Ref       `json:"component,omitempty"                yaml:"component,omitempty"`
	ComponentResource        *Ref       `json:"componentResource,omitempty"        yaml:"component_resource,omitempty"`
	ResultValueMin           *float64   `json:"resultValueMin,omitempty"           yaml:"result_value_min,omitempty"`
	ResultValueMax           *float64   `json:"resultValueMax,omitempty"           yaml:"result_value_max,omitempty"`
	AssignDate               string     `json:"assignDate,omitempty"               yaml:"assign_date,omitempty"`
	DueDate                  string     `json:"dueDate,omitempty"                  yaml:"due_date,omitempty"`
}

// Validate implements validation.Validatable.
func (a AssessmentLineItem) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Status, validation.In(statuses...)),
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Class),
		validation.Field(&a.Course),
		validation.Field(&a.ParentAssessmentLineItem),
	)
}

// AssessmentResult is a student's score on a line item.
type AssessmentResult struct {
	SourcedID          string      `json:"sourcedId,omitempty"          yaml:"sourced_id,omitempty"`
	Status             Status      `json:"status,omitempty"             yaml:"status,omitempty"`
	DateLastModified   *time.Time  `json:"dateLastModified,omitempty"   yaml:"date_last_modified,omitempty"`
	Metadata           Metadata    `json:"metadata,omitempty"           yaml:"metadata,omitempty"`
	AssessmentLineItem Ref         `json:"assessmentLineItem"           yaml:"assessment_line_item"`
	Student            Ref         `json:"student"                      yaml:"student"`
	Score              *float64    `json:"score,omitempty"              yaml:"score,omitempty"`
	TextScore          string      `json:"textScore,omitempty"          yaml:"text_score,omitempty"`
	ScoreDate          string      `json:"scoreDate"                    yaml:"score_date"`
	ScoreScale         *Ref        `json:"scoreScale,omitempty"         yaml:"score_scale,omitempty"`
	ScorePercentile    *float64    `json:"scorePercentile,omitempty"    yaml:"score_percentile,omitempty"`
	ScoreStatus        ScoreStatus `json:"scoreStatus"                  yaml:"score_status"`
	Comment            string      `json:"comment,omitempty"            yaml:"comment,omitempty"`
	InProgress         string      `json:"inProgress,omitempty"         yaml:"in_progress,omitempty"`
	Incomplete         string      `json:"incomplete,omitempty"         yaml:"incomplete,omitempty"`
	Late               string      `json:"late,omitempty"               yaml:"late,omitempty"`
	Missing            string      `json:"missing,omitempty"            yaml:"missing,omitempty"`
}

// Validate implements validation.Validatable.
func (a AssessmentResult) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Status, validation.In(statuses...)),
		validation.Field(&a.AssessmentLineItem),
		validation.Field(&a.Student),
		validation.Field(&a.ScoreDate, validation.Required),
		validation.Field(&a.ScoreStatus, validation.Required, validation.In(
			ScoreStatusExempt, ScoreStatusFullyGraded, ScoreStatusNotSubmitted,
			ScoreStatusPartiallyGraded, ScoreStatusSubmitted,
		)),
	)
}
