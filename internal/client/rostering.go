package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

func userKey(u *timeback.User) *string { return &u.SourcedID }

func orgKey(o *timeback.Org) *string { return &o.SourcedID }

func courseKey(c *timeback.Course) *string { return &c.SourcedID }

func componentKey(c *timeback.CourseComponent) *string { return &c.SourcedID }

func componentResourceKey(c *timeback.ComponentResource) *string { return &c.SourcedID }

func classKey(c *timeback.Class) *string { return &c.SourcedID }

func enrollmentKey(e *timeback.Enrollment) *string { return &e.SourcedID }

func sessionKey(a *timeback.AcademicSession) *string { return &a.SourcedID }

// oneRosterSpec describes a OneRoster collection with sourcedId keys generated on create.
func oneRosterSpec[T entity](name, path, singular, plural string, id func(*T) *string) resourceSpec[T] {
	return resourceSpec[T]{
		name:       name,
		path:       path,
		singular:   singular,
		plural:     plural,
		id:         id,
		generateID: true,
	}
}

// readerClient exposes only the read half of a collection.
type readerClient[T entity] struct {
	resource *ResourceClient[T]
}

// Get fetches one record.
func (c *readerClient[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.resource.Get(ctx, id)
}

// List fetches one page of the collection.
func (c *readerClient[T]) List(ctx context.Context, params *timeback.QueryParams) (*timeback.ListResponse[T], error) {
	return c.resource.List(ctx, params)
}

// RosteringClient implements timeback.RosteringService.
type RosteringClient struct {
	users              *UsersClient
	students           *StudentsClient
	teachers           *TeachersClient
	orgs               *OrgsClient
	schools            *SchoolsClient
	courses            *CoursesClient
	courseComponents   *CourseComponentsClient
	componentResources *ComponentResourcesClient
	classes            *ClassesClient
	enrollments        *EnrollmentsClient
	academicSessions   *AcademicSessionsClient
	terms              *TermsClient
}

// NewRosteringClient creates the rostering service on a client rooted at /ims/oneroster/rostering/v1p2.
func NewRosteringClient(httpClient *http.Client) *RosteringClient {
	classes := NewClassesClient(httpClient)
	enrollments := NewEnrollmentsClient(httpClient)

	return &RosteringClient{
		users:              NewUsersClient(httpClient),
		students:           NewStudentsClient(httpClient),
		teachers:           NewTeachersClient(httpClient, enrollments, classes),
		orgs:               NewOrgsClient(httpClient),
		schools:            NewSchoolsClient(httpClient),
		courses:            NewCoursesClient(httpClient),
		courseComponents:   NewCourseComponentsClient(httpClient),
		componentResources: NewComponentResourcesClient(httpClient),
		classes:            classes,
		enrollments:        enrollments,
		academicSessions:   NewAcademicSessionsClient(httpClient),
		terms:              NewTermsClient(httpClient),
	}
}

func (r *RosteringClient) Users() timeback.UsersClient { return r.users }
func (r *RosteringClient) Students() timeback.StudentsClient { return r.students }
func (r *RosteringClient) Teachers() timeback.TeachersClient { return r.teachers }
func (r *RosteringClient) Orgs() timeback.OrgsClient { return r.orgs }
func (r *RosteringClient) Schools() timeback.SchoolsClient { return r.schools }
func (r *RosteringClient) Courses() timeback.CoursesClient { return r.courses }
func (r *RosteringClient) CourseComponents() timeback.CourseComponentsClient { return r.courseComponents }
func (r *RosteringClient) ComponentResources() timeback.ComponentResourcesClient { return r.componentResources }
func (r *RosteringClient) Classes() timeback.ClassesClient { return r.classes }
func (r *RosteringClient) Enrollments() timeback.EnrollmentsClient { return r.enrollments }
func (r *RosteringClient) AcademicSessions() timeback.AcademicSessionsClient { return r.academicSessions }
func (r *RosteringClient) Terms() timeback.TermsClient { return r.terms }

// UsersClient implements timeback.UsersClient.
type UsersClient struct {
	*ResourceClient[timeback.User]
}

// NewUsersClient creates a new users client.
func NewUsersClient(httpClient *http.Client) *UsersClient {
	return &UsersClient{
		ResourceClient: newResourceClient(httpClient, oneRosterSpec("user", "/users", "user", "users", userKey)),
	}
}

// CreateParent implements timeback.UsersClient.CreateParent.
func (c *UsersClient) CreateParent(ctx context.Context, request *timeback.ParentRequest) (*timeback.User, error) {
	if request == nil {
		return nil, &timeback.ValidationError{Field: "parent", Message: "is required"}
	}

	parent := &timeback.User{
		Status:      timeback.StatusActive,
		EnabledUser: true,
		GivenName:   request.GivenName,
		FamilyName:  request.FamilyName,
		Email:       request.Email,
		Phone:       request.Phone,
		Metadata:    request.Metadata,
		Roles: []timeback.UserRole{{
			RoleType: timeback.RoleTypePrimary,
			Role:     timeback.RoleParent,
			Org:      request.Org,
		}},
	}

	return c.Create(ctx, parent)
}

// ListClasses implements timeback.UsersClient.ListClasses.
func (c *UsersClient) ListClasses(ctx context.Context, userID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Class], error) {
	err := timeback.RequireID("user id", userID)
	if err != nil {
		return nil, err
	}

	return listAt[timeback.Class](ctx, c.httpClient, joinPath("/users", userID)+"/classes", "classes", params, "listing classes for user")
}

// StudentsClient implements timeback.StudentsClient.
type StudentsClient struct {
	readerClient[timeback.User]
}

// NewStudentsClient creates a new students client.
func NewStudentsClient(httpClient *http.Client) *StudentsClient {
	return &StudentsClient{
		readerClient: readerClient[timeback.User]{
			resource: newResourceClient(httpClient, oneRosterSpec("student", "/students", "user", "users", userKey)),
		},
	}
}

// ListClasses implements timeback.StudentsClient.ListClasses.
func (c *StudentsClient) ListClasses(ctx context.Context, studentID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Class], error) {
	err := timeback.RequireID("student id", studentID)
	if err != nil {
		return nil, err
	}

	return listAt[timeback.Class](ctx, c.resource.httpClient, joinPath("/students", studentID)+"/classes", "classes", params, "listing classes for student")
}

// TeachersClient implements timeback.TeachersClient.
type TeachersClient struct {
	readerClient[timeback.User]
	enrollments *EnrollmentsClient
	classes     *ClassesClient
}

// NewTeachersClient creates a new teachers client. Class lookups go through enrollments.
func NewTeachersClient(httpClient *http.Client, enrollments *EnrollmentsClient, classes *ClassesClient) *TeachersClient {
	return &TeachersClient{
		readerClient: readerClient[timeback.User]{
			resource: newResourceClient(httpClient, oneRosterSpec("teacher", "/teachers", "user", "users", userKey)),
		},
		enrollments: enrollments,
		classes:     classes,
	}
}

// ListClasses implements timeback.TeachersClient.ListClasses.
//
// Every teacher enrollment is read to collect class ids, then the classes are listed with a
// sourcedId filter combined with the caller's filter.
func (c *TeachersClient) ListClasses(ctx context.Context, teacherID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Class], error) {
	err := timeback.RequireID("teacher id", teacherID)
	if err != nil {
		return nil, err
	}

	enrollmentParams := timeback.NewQueryParams().WithFilter(timeback.And(
		timeback.Eq("user.sourcedId", teacherID),
		timeback.Eq("role", timeback.RoleTeacher),
	))

	enrollments, err := timeback.FetchAll[timeback.Enrollment](ctx, c.enrollments.List, enrollmentParams)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments for teacher: %w", err)
	}

	seen := make(map[string]bool, len(enrollments))
	predicates := make([]string, 0, len(enrollments))

	for _, enrollment := range enrollments {
		id := enrollment.Class.SourcedID
		if id == "" || seen[id] {
			continue
		}

		seen[id] = true
		predicates = append(predicates, timeback.Eq("sourcedId", id))
	}

	if len(predicates) == 0 {
		return &timeback.ListResponse[timeback.Class]{Items: []timeback.Class{}}, nil
	}

	classParams := params.Clone()
	classParams.Filter = timeback.And(timeback.Or(predicates...), groupFilter(classParams.Filter))

	return c.classes.List(ctx, classParams)
}

// groupFilter parenthesizes an expression that contains OR so it binds as one operand.
func groupFilter(expr string) string {
	expr = strings.TrimSpace(expr)
	if expr == "" || !strings.Contains(expr, " "+timeback.LogicalOr+" ") {
		return expr
	}

	return "(" + expr + ")"
}

// OrgsClient implements timeback.OrgsClient.
type OrgsClient struct {
	*ResourceClient[timeback.Org]
}

// NewOrgsClient creates a new orgs client.
func NewOrgsClient(httpClient *http.Client) *OrgsClient {
	return &OrgsClient{
		ResourceClient: newResourceClient(httpClient, oneRosterSpec("org", "/orgs", "org", "orgs", orgKey)),
	}
}

// SchoolsClient implements timeback.SchoolsClient.
type SchoolsClient struct {
	readerClient[timeback.Org]
}

// NewSchoolsClient creates a new schools client.
func NewSchoolsClient(httpClient *http.Client) *SchoolsClient {
	return &SchoolsClient{
		readerClient: readerClient[timeback.Org]{
			resource: newResourceClient(httpClient, oneRosterSpec("school", "/schools", "org", "orgs", orgKey)),
		},
	}
}

// CoursesClient implements timeback.CoursesClient.
type CoursesClient struct {
	*ResourceClient[timeback.Course]
}

// NewCoursesClient creates a new courses client.
func NewCoursesClient(httpClient *http.Client) *CoursesClient {
	return &CoursesClient{
		ResourceClient: newResourceClient(httpClient, oneRosterSpec("course", "/courses", "course", "courses", courseKey)),
	}
}

// ListClasses implements timeback.CoursesClient.ListClasses.
func (c *CoursesClient) ListClasses(ctx context.Context, courseID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Class], error) {
	err := timeback.RequireID("course id", courseID)
	if err != nil {
		return nil, err
	}

	return listAt[timeback.Class](ctx, c.httpClient, joinPath("/courses", courseID)+"/classes", "classes", params, "listing classes for course")
}

// GetSchool implements timeback.CoursesClient.GetSchool.
func (c *CoursesClient) GetSchool(ctx context.Context, courseID string) (*timeback.Org, error) {
	err := timeback.RequireID("course id", courseID)
	if err != nil {
		return nil, err
	}

	return getAt[timeback.Org](ctx, c.httpClient, joinPath("/courses", courseID)+"/school", "org", nil, "getting school for course")
}

// ListResources implements timeback.CoursesClient.ListResources.
func (c *CoursesClient) ListResources(ctx context.Context, courseID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Resource], error) {
	err := timeback.RequireID("course id", courseID)
	if err != nil {
		return nil, err
	}

	return listAt[timeback.Resource](ctx, c.httpClient, joinPath("/courses", courseID)+"/resources", "resources", params, "listing resources for course")
}

// CourseComponentsClient implements timeback.CourseComponentsClient.
type CourseComponentsClient struct {
	*ResourceClient[timeback.CourseComponent]
}

// NewCourseComponentsClient creates a new course components client.
func NewCourseComponentsClient(httpClient *http.Client) *CourseComponentsClient {
	return &CourseComponentsClient{
		ResourceClient: newResourceClient(httpClient,
			oneRosterSpec("course component", "/courses/components", "courseComponent", "courseComponents", componentKey)),
	}
}

// ListResources implements timeback.CourseComponentsClient.ListResources.
func (c *CourseComponentsClient) ListResources(ctx context.Context, componentID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.ComponentResource], error) {
	err := timeback.RequireID("course component id", componentID)
	if err != nil {
		return nil, err
	}

	path := joinPath("/courses/components", componentID) + "/resources"

	return listAt[timeback.ComponentResource](ctx, c.httpClient, path, "componentResources", params, "listing resources for course component")
}

// ComponentResourcesClient implements timeback.ComponentResourcesClient.
type ComponentResourcesClient struct {
	*ResourceClient[timeback.ComponentResource]
}

// NewComponentResourcesClient creates a new component resources client.
func NewComponentResourcesClient(httpClient *http.Client) *ComponentResourcesClient {
	return &ComponentResourcesClient{
		ResourceClient: newResourceClient(httpClient,
			oneRosterSpec("component resource", "/courses/component-resources", "componentResource", "componentResources", componentResourceKey)),
	}
}

// ClassesClient implements timeback.ClassesClient.
type ClassesClient struct {
	*ResourceClient[timeback.Class]
}

// NewClassesClient creates a new classes client.
func NewClassesClient(httpClient *http.Client) *ClassesClient {
	return &ClassesClient{
		ResourceClient: newResourceClient(httpClient, oneRosterSpec("class", "/classes", "class", "classes", classKey)),
	}
}

// ListStudents implements timeback.ClassesClient.ListStudents.
func (c *ClassesClient) ListStudents(ctx context.Context, classID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.User], error) {
	err := timeback.RequireID("class id", classID)
	if err != nil {
		return nil, err
	}

	return listAt[timeback.User](ctx, c.httpClient, joinPath("/classes", classID)+"/students", "users", params, "listing students for class")
}

// ListTeachers implements timeback.ClassesClient.ListTeachers.
func (c *ClassesClient) ListTeachers(ctx context.Context, classID string, params *timeback.QueryParams) (*timeback.ListResponse[timeback.User], error) {
	err := timeback.RequireID("class id", classID)
	if err != nil {
		return nil, err
	}

	return listAt[timeback.User](ctx, c.httpClient, joinPath("/classes", classID)+"/teachers", "users", params, "listing teachers for class")
}

// EnrollmentsClient implements timeback.EnrollmentsClient.
type EnrollmentsClient struct {
	*ResourceClient[timeback.Enrollment]
}

// NewEnrollmentsClient creates a new enrollments client.
func NewEnrollmentsClient(httpClient *http.Client) *EnrollmentsClient {
	return &EnrollmentsClient{
		ResourceClient: newResourceClient(httpClient, oneRosterSpec("enrollment", "/enrollments", "enrollment", "enrollments", enrollmentKey)),
	}
}

// ForStudent implements timeback.EnrollmentsClient.ForStudent.
func (c *EnrollmentsClient) ForStudent(ctx context.Context, studentID string, status timeback.Status, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Enrollment], error) {
	err := timeback.RequireID("student id", studentID)
	if err != nil {
		return nil, err
	}

	return c.listFiltered(ctx, params,
		timeback.Eq("user.sourcedId", studentID),
		timeback.Eq("role", timeback.RoleStudent),
		statusFilter(status),
	)
}

// ForClass implements timeback.EnrollmentsClient.ForClass.
func (c *EnrollmentsClient) ForClass(ctx context.Context, classID, role string, status timeback.Status, params *timeback.QueryParams) (*timeback.ListResponse[timeback.Enrollment], error) {
	err := timeback.RequireID("class id", classID)
	if err != nil {
		return nil, err
	}

	roleFilter := ""
	if role != "" {
		roleFilter = timeback.Eq("role", role)
	}

	return c.listFiltered(ctx, params,
		timeback.Eq("class.sourcedId", classID),
		roleFilter,
		statusFilter(status),
	)
}

func (c *EnrollmentsClient) listFiltered(ctx context.Context, params *timeback.QueryParams, predicates ...string) (*timeback.ListResponse[timeback.Enrollment], error) {
	filtered := params.Clone()
	filtered.Filter = timeback.And(append(predicates, groupFilter(filtered.Filter))...)

	return c.List(ctx, filtered)
}

func statusFilter(status timeback.Status) string {
	if status == "" {
		return ""
	}

	return timeback.Eq("status", string(status))
}

// AcademicSessionsClient implements timeback.AcademicSessionsClient.
type AcademicSessionsClient struct {
	*ResourceClient[timeback.AcademicSession]
}

// NewAcademicSessionsClient creates a new academic sessions client.
func NewAcademicSessionsClient(httpClient *http.Client) *AcademicSessionsClient {
	return &AcademicSessionsClient{
		ResourceClient: newResourceClient(httpClient,
			oneRosterSpec("academic session", "/academicSessions", "academicSession", "academicSessions", sessionKey)),
	}
}

// TermsClient implements timeback.TermsClient.
type TermsClient struct {
	readerClient[timeback.AcademicSession]
}

// NewTermsClient creates a new terms client.
func NewTermsClient(httpClient *http.Client) *TermsClient {
	return &TermsClient{
		readerClient: readerClient[timeback.AcademicSession]{
			resource: newResourceClient(httpClient, oneRosterSpec("term", "/terms", "academicSession", "academicSessions", sessionKey)),
		},
	}
}
