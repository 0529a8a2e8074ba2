package timeback

import "context"

// Reader reads one kind of entity.
type Reader[T any] interface {
	Get(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, params *QueryParams) (*ListResponse[T], error)
}

// ResourceClient is the CRUD surface shared by every OneRoster and QTI collection.
type ResourceClient[T any] interface {
	Reader[T]
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id string, entity *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// ParentRequest describes a parent or guardian account.
type ParentRequest struct {
	GivenName  string
	FamilyName string
	Email      string
	Phone      string
	Org        Ref
	Metadata   Metadata
}

// UsersClient manages /users.
type UsersClient interface {
	ResourceClient[User]
	CreateParent(ctx context.Context, request *ParentRequest) (*User, error)
	ListClasses(ctx context.Context, userID string, params *QueryParams) (*ListResponse[Class], error)
}

// StudentsClient reads /students.
type StudentsClient interface {
	Reader[User]
	ListClasses(ctx context.Context, studentID string, params *QueryParams) (*ListResponse[Class], error)
}

// TeachersClient reads /teachers.
type TeachersClient interface {
	Reader[User]
	// ListClasses resolves the teacher's classes through their enrollments.
	ListClasses(ctx context.Context, teacherID string, params *QueryParams) (*ListResponse[Class], error)
}

// OrgsClient manages /orgs.
type OrgsClient interface {
	ResourceClient[Org]
}

// SchoolsClient reads /schools.
type SchoolsClient interface {
	Reader[Org]
}

// CoursesClient manages /courses.
type CoursesClient interface {
	ResourceClient[Course]
	ListClasses(ctx context.Context, courseID string, params *QueryParams) (*ListResponse[Class], error)
	GetSchool(ctx context.Context, courseID string) (*Org, error)
	ListResources(ctx context.Context, courseID string, params *QueryParams) (*ListResponse[Resource], error)
}

// CourseComponentsClient manages /courses/components.
type CourseComponentsClient interface {
	ResourceClient[CourseComponent]
	ListResources(ctx context.Context, componentID string, params *QueryParams) (*ListResponse[ComponentResource], error)
}

// ComponentResourcesClient manages /courses/component-resources.
type ComponentResourcesClient interface {
	ResourceClient[ComponentResource]
}

// ClassesClient manages /classes.
type ClassesClient interface {
	ResourceClient[Class]
	ListStudents(ctx context.Context, classID string, params *QueryParams) (*ListResponse[User], error)
	ListTeachers(ctx context.Context, classID string, params *QueryParams) (*ListResponse[User], error)
}

// EnrollmentsClient manages /enrollments.
type EnrollmentsClient interface {
	ResourceClient[Enrollment]
	// ForStudent lists a user's student enrollments. An empty status matches all.
	ForStudent(ctx context.Context, studentID string, status Status, params *QueryParams) (*ListResponse[Enrollment], error)
	// ForClass lists a class's enrollments. Empty role or status match all.
	ForClass(ctx context.Context, classID, role string, status Status, params *QueryParams) (*ListResponse[Enrollment], error)
}

// AcademicSessionsClient manages /academicSessions.
type AcademicSessionsClient interface {
	ResourceClient[AcademicSession]
}

// TermsClient reads /terms.
type TermsClient interface {
	Reader[AcademicSession]
}

// AssessmentLineItemsClient manages /assessmentLineItems.
type AssessmentLineItemsClient interface {
	ResourceClient[AssessmentLineItem]
}

// AssessmentResultsClient manages /assessmentResults.
type AssessmentResultsClient interface {
	ResourceClient[AssessmentResult]
}

// ResourcesClient manages /resources.
type ResourcesClient interface {
	ResourceClient[Resource]
	ListForCourse(ctx context.Context, courseID string, params *QueryParams) (*ListResponse[Resource], error)
	AssignToCourse(ctx context.Context, courseID, resourceID string) error
}

// AssessmentItemsClient manages QTI /assessment-items, keyed by identifier.
type AssessmentItemsClient interface {
	ResourceClient[AssessmentItem]
	// ProcessResponse scores one response against a declaration. An empty responseID means RESPONSE.
	ProcessResponse(ctx context.Context, itemID, responseID string, response interface{}) (*ResponseResult, error)
	// ProcessResponses scores several declarations in one call.
	ProcessResponses(ctx context.Context, itemID string, responses map[string]interface{}) (*ResponseResult, error)
}

// AssessmentTestsClient manages QTI /assessment-tests and their parts and sections.
type AssessmentTestsClient interface {
	ResourceClient[AssessmentTest]

	ListTestParts(ctx context.Context, testID string, params *QueryParams) (*ListResponse[TestPart], error)
	GetTestPart(ctx context.Context, testID, partID string) (*TestPart, error)
	CreateTestPart(ctx context.Context, testID string, part *TestPart) (*TestPart, error)
	UpdateTestPart(ctx context.Context, testID, partID string, part *TestPart) (*TestPart, error)
	DeleteTestPart(ctx context.Context, testID, partID string) error

	ListSections(ctx context.Context, testID, partID string, params *QueryParams) (*ListResponse[Section], error)
	GetSection(ctx context.Context, testID, partID, sectionID string) (*Section, error)
	CreateSection(ctx context.Context, testID, partID string, section *Section) (*Section, error)
	UpdateSection(ctx context.Context, testID, partID, sectionID string, section *Section) (*Section, error)
	DeleteSection(ctx context.Context, testID, partID, sectionID string) error

	AddItem(ctx context.Context, testID, partID, sectionID string, item *ItemRef) (*Section, error)
	RemoveItem(ctx context.Context, testID, partID, sectionID, itemID string) error
}

// StimuliClient manages QTI /stimuli.
type StimuliClient interface {
	ResourceClient[Stimulus]
}

// TestAssignmentsClient manages PowerPath /test-assignments.
type TestAssignmentsClient interface {
	Create(ctx context.Context, assignment TestAssignment) (TestAssignment, error)
	Get(ctx context.Context, id string) (TestAssignment, error)
	Update(ctx context.Context, id string, assignment TestAssignment) (TestAssignment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter *TestAssignmentFilter) (*ListResponse[TestAssignment], error)
	ListAdmin(ctx context.Context, filter *TestAssignmentFilter) (*ListResponse[TestAssignment], error)
}

// RosteringService groups the OneRoster rostering collections.
type RosteringService interface {
	Users() UsersClient
	Students() StudentsClient
	Teachers() TeachersClient
	Orgs() OrgsClient
	Schools() SchoolsClient
	Courses() CoursesClient
	CourseComponents() CourseComponentsClient
	ComponentResources() ComponentResourcesClient
	Classes() ClassesClient
	Enrollments() EnrollmentsClient
	AcademicSessions() AcademicSessionsClient
	Terms() TermsClient
}

// GradebookService groups the OneRoster gradebook collections.
type GradebookService interface {
	AssessmentLineItems() AssessmentLineItemsClient
	AssessmentResults() AssessmentResultsClient
}

// ResourcesService groups the OneRoster resources collections.
type ResourcesService interface {
	Resources() ResourcesClient
}

// QTIService groups the QTI 3.0 collections.
type QTIService interface {
	AssessmentItems() AssessmentItemsClient
	AssessmentTests() AssessmentTestsClient
	Stimuli() StimuliClient
}

// PowerPathService exposes the PowerPath lesson and assignment endpoints.
type PowerPathService interface {
	GetCourseSyllabus(ctx context.Context, courseID string) (Document, error)
	GetAssessmentProgress(ctx context.Context, studentID, lessonID string, attempt int) (*AssessmentProgress, error)
	GetNextQuestion(ctx context.Context, studentID, lessonID string, opts *NextQuestionOptions) (*NextQuestion, error)
	ResetAttempt(ctx context.Context, studentID, lessonID string) (*ResetAttemptResult, error)
	UpdateStudentQuestionResponse(ctx context.Context, request *QuestionResponseRequest) (*QuestionResponseResult, error)
	TestAssignments() TestAssignmentsClient
}

// CASEService reads CASE 1.1 competency frameworks.
type CASEService interface {
	ListDocuments(ctx context.Context, params *QueryParams) (*ListResponse[CFDocument], error)
	SearchDocuments(ctx context.Context, search *CFDocumentSearch) (*ListResponse[CFDocument], error)
	GetDocument(ctx context.Context, sourcedID string) (*CFDocument, error)
	ListDocumentItems(ctx context.Context, documentID string, params *QueryParams) (*ListResponse[CFItem], error)
	ListDocumentAssociations(ctx context.Context, documentID string, params *QueryParams) (*ListResponse[CFAssociation], error)
	GetPackage(ctx context.Context, documentID string) (*CFPackage, error)
	// GetPackageGroups returns the package with items already arranged as a tree.
	GetPackageGroups(ctx context.Context, documentID string) (Document, error)
	GetItem(ctx context.Context, sourcedID string) (*CFItem, error)
	GetAssociation(ctx context.Context, sourcedID string) (*CFAssociation, error)
}

// EduBridgeService lists EduBridge subject tracks and applications. Neither publishes a fixed schema.
type EduBridgeService interface {
	ListSubjectTracks(ctx context.Context, params *QueryParams) (*ListResponse[Document], error)
	ListApplications(ctx context.Context, params *QueryParams) (*ListResponse[Document], error)
}

// CaliperService sends Caliper time spent events.
type CaliperService interface {
	SendEvents(ctx context.Context, envelope *CaliperEnvelope) (*CaliperResult, error)
	// ValidateEvents asks the API to check an envelope without recording it.
	ValidateEvents(ctx context.Context, envelope *CaliperEnvelope) (*CaliperResult, error)
}

// NextQuestionOptions tunes question selection.
type NextQuestionOptions struct {
	IgnoreAnsweredQuestions bool
	IgnoreDifficultyCheck   bool
}

// Client is the TimeBack API client.
type Client interface {
	Rostering() RosteringService
	Gradebook() GradebookService
	Resources() ResourcesService
	QTI() QTIService
	PowerPath() PowerPathService
	CASE() CASEService
	EduBridge() EduBridgeService
	Caliper() CaliperService

	// Service returns a registered service by name, for callers that select services at runtime.
	Service(name string) (interface{}, error)
	// Services lists the registered service names.
	Services() []string
}
