package tbclient

import (
	"context"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// LegacyClient exposes the flat method set of earlier releases on top of the service clients.
//
// Deprecated: use timeback.Client and its services, e.g. client.Rostering().Users().Get.
type LegacyClient struct {
	client timeback.Client
}

// NewLegacyClient wraps an existing client.
//
// Deprecated: use timeback.Client directly.
func NewLegacyClient(client timeback.Client) *LegacyClient {
	return &LegacyClient{client: client}
}

// Client returns the wrapped client.
func (l *LegacyClient) Client() timeback.Client {
	return l.client
}

// GetUser fetches a user.
//
// Deprecated: use Rostering().Users().Get.
func (l *LegacyClient) GetUser(ctx context.Context, userID string) (*timeback.User, error) {
	return l.client.Rostering().Users().Get(ctx, userID)
}

// ListUsers lists users. A zero limit uses the server default; an empty filter matches all.
//
// Deprecated: use Rostering().Users().List.
func (l *LegacyClient) ListUsers(ctx context.Context, limit, offset int, filter string) (*timeback.ListResponse[timeback.User], error) {
	return l.client.Rostering().Users().List(ctx, legacyParams(limit, offset, filter))
}

// CreateUser creates a user.
//
// Deprecated: use Rostering().Users().Create.
func (l *LegacyClient) CreateUser(ctx context.Context, user *timeback.User) (*timeback.User, error) {
	return l.client.Rostering().Users().Create(ctx, user)
}

// UpdateUser replaces a user.
//
// Deprecated: use Rostering().Users().Update.
func (l *LegacyClient) UpdateUser(ctx context.Context, userID string, user *timeback.User) (*timeback.User, error) {
	return l.client.Rostering().Users().Update(ctx, userID, user)
}

// DeleteUser deletes a user.
//
// Deprecated: use Rostering().Users().Delete.
func (l *LegacyClient) DeleteUser(ctx context.Context, userID string) error {
	return l.client.Rostering().Users().Delete(ctx, userID)
}

// GetOrg fetches an org.
//
// Deprecated: use Rostering().Orgs().Get.
func (l *LegacyClient) GetOrg(ctx context.Context, orgID string) (*timeback.Org, error) {
	return l.client.Rostering().Orgs().Get(ctx, orgID)
}

// ListOrgs lists orgs.
//
// Deprecated: use Rostering().Orgs().List.
func (l *LegacyClient) ListOrgs(ctx context.Context, limit, offset int, filter string) (*timeback.ListResponse[timeback.Org], error) {
	return l.client.Rostering().Orgs().List(ctx, legacyParams(limit, offset, filter))
}

// GetCourse fetches a course.
//
// Deprecated: use Rostering().Courses().Get.
func (l *LegacyClient) GetCourse(ctx context.Context, courseID string) (*timeback.Course, error) {
	return l.client.Rostering().Courses().Get(ctx, courseID)
}

// ListCourses lists courses.
//
// Deprecated: use Rostering().Courses().List.
func (l *LegacyClient) ListCourses(ctx context.Context, limit, offset int, filter string) (*timeback.ListResponse[timeback.Course], error) {
	return l.client.Rostering().Courses().List(ctx, legacyParams(limit, offset, filter))
}

// GetClass fetches a class.
//
// Deprecated: use Rostering().Classes().Get.
func (l *LegacyClient) GetClass(ctx context.Context, classID string) (*timeback.Class, error) {
	return l.client.Rostering().Classes().Get(ctx, classID)
}

// ListClasses lists classes.
//
// Deprecated: use Rostering().Classes().List.
func (l *LegacyClient) ListClasses(ctx context.Context, limit, offset int, filter string) (*timeback.ListResponse[timeback.Class], error) {
	return l.client.Rostering().Classes().List(ctx, legacyParams(limit, offset, filter))
}

// GetEnrollment fetches an enrollment.
//
// Deprecated: use Rostering().Enrollments().Get.
func (l *LegacyClient) GetEnrollment(ctx context.Context, enrollmentID string) (*timeback.Enrollment, error) {
	return l.client.Rostering().Enrollments().Get(ctx, enrollmentID)
}

// ListEnrollments lists enrollments.
//
// Deprecated: use Rostering().Enrollments().List.
func (l *LegacyClient) ListEnrollments(ctx context.Context, limit, offset int, filter string) (*timeback.ListResponse[timeback.Enrollment], error) {
	return l.client.Rostering().Enrollments().List(ctx, legacyParams(limit, offset, filter))
}

// GetAcademicSession fetches an academic session.
//
// Deprecated: use Rostering().AcademicSessions().Get.
func (l *LegacyClient) GetAcademicSession(ctx context.Context, sessionID string) (*timeback.AcademicSession, error) {
	return l.client.Rostering().AcademicSessions().Get(ctx, sessionID)
}

// GetResource fetches a resource.
//
// Deprecated: use Resources().Resources().Get.
func (l *LegacyClient) GetResource(ctx context.Context, resourceID string) (*timeback.Resource, error) {
	return l.client.Resources().Resources().Get(ctx, resourceID)
}

// GetAssessmentItem fetches a QTI assessment item.
//
// Deprecated: use QTI().AssessmentItems().Get.
func (l *LegacyClient) GetAssessmentItem(ctx context.Context, identifier string) (*timeback.AssessmentItem, error) {
	return l.client.QTI().AssessmentItems().Get(ctx, identifier)
}

// GetAssessmentTest fetches a QTI assessment test.
//
// Deprecated: use QTI().AssessmentTests().Get.
func (l *LegacyClient) GetAssessmentTest(ctx context.Context, identifier string) (*timeback.AssessmentTest, error) {
	return l.client.QTI().AssessmentTests().Get(ctx, identifier)
}

// GetCourseSyllabus fetches a PowerPath course syllabus.
//
// Deprecated: use PowerPath().GetCourseSyllabus.
func (l *LegacyClient) GetCourseSyllabus(ctx context.Context, courseID string) (timeback.Document, error) {
	return l.client.PowerPath().GetCourseSyllabus(ctx, courseID)
}

func legacyParams(limit, offset int, filter string) *timeback.QueryParams {
	params := timeback.NewQueryParams().WithLimit(limit).WithOffset(offset)
	if filter != "" {
		params = params.WithFilter(filter)
	}

	return params
}
