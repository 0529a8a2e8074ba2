package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fivetwenty-io/timeback/internal/http"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
)

// PowerPathClient implements timeback.PowerPathService.
type PowerPathClient struct {
	httpClient      *http.Client
	testAssignments *TestAssignmentsClient
}

// NewPowerPathClient creates the PowerPath service on a client rooted at /powerpath.
func NewPowerPathClient(httpClient *http.Client) *PowerPathClient {
	return &PowerPathClient{
		httpClient:      httpClient,
		testAssignments: NewTestAssignmentsClient(httpClient),
	}
}

// TestAssignments implements timeback.PowerPathService.TestAssignments.
func (c *PowerPathClient) TestAssignments() timeback.TestAssignmentsClient {
	return c.testAssignments
}

// GetCourseSyllabus implements timeback.PowerPathService.GetCourseSyllabus.
func (c *PowerPathClient) GetCourseSyllabus(ctx context.Context, courseID string) (timeback.Document, error) {
	err := timeback.RequireID("course id", courseID)
	if err != nil {
		return nil, err
	}

	syllabus, err := getAt[timeback.Document](ctx, c.httpClient, joinPath("/syllabus", courseID), "", nil, "getting course syllabus")
	if err != nil {
		return nil, err
	}

	return *syllabus, nil
}

// GetAssessmentProgress implements timeback.PowerPathService.GetAssessmentProgress.
// A zero attempt asks for the current attempt.
func (c *PowerPathClient) GetAssessmentProgress(ctx context.Context, studentID, lessonID string, attempt int) (*timeback.AssessmentProgress, error) {
	query, err := lessonQuery(studentID, lessonID)
	if err != nil {
		return nil, err
	}

	if attempt > 0 {
		query.Set("attempt", strconv.Itoa(attempt))
	}

	return getAt[timeback.AssessmentProgress](ctx, c.httpClient, "/getAssessmentProgress", "", query, "getting assessment progress")
}

// GetNextQuestion implements timeback.PowerPathService.GetNextQuestion.
func (c *PowerPathClient) GetNextQuestion(ctx context.Context, studentID, lessonID string, opts *timeback.NextQuestionOptions) (*timeback.NextQuestion, error) {
	query, err := lessonQuery(studentID, lessonID)
	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = &timeback.NextQuestionOptions{}
	}

	query.Set("ignoreAnsweredQuestions", strconv.FormatBool(opts.IgnoreAnsweredQuestions))
	query.Set("ignoreDifficultyCheck", strconv.FormatBool(opts.IgnoreDifficultyCheck))

	return getAt[timeback.NextQuestion](ctx, c.httpClient, "/getNextQuestion", "", query, "getting next question")
}

// ResetAttempt implements timeback.PowerPathService.ResetAttempt.
func (c *PowerPathClient) ResetAttempt(ctx context.Context, studentID, lessonID string) (*timeback.ResetAttemptResult, error) {
	_, err := lessonQuery(studentID, lessonID)
	if err != nil {
		return nil, err
	}

	body := map[string]string{"student": studentID, "lesson": lessonID}

	resp, err := c.httpClient.Post(ctx, "/resetAttempt", body)
	if err != nil {
		return nil, fmt.Errorf("resetting attempt: %w", err)
	}

	result, err := timeback.DecodeEntity[timeback.ResetAttemptResult](resp.Body, "")
	if err != nil {
		return nil, fmt.Errorf("parsing reset attempt result: %w", err)
	}

	return result, nil
}

// UpdateStudentQuestionResponse implements timeback.PowerPathService.UpdateStudentQuestionResponse.
func (c *PowerPathClient) UpdateStudentQuestionResponse(ctx context.Context, request *timeback.QuestionResponseRequest) (*timeback.QuestionResponseResult, error) {
	if request == nil {
		return nil, &timeback.ValidationError{Field: "question response", Message: "is required"}
	}

	_, err := lessonQuery(request.Student, request.Lesson)
	if err != nil {
		return nil, err
	}

	err = timeback.RequireID("question id", request.Question)
	if err != nil {
		return nil, err
	}

	if request.Response == nil {
		return nil, &timeback.ValidationError{Field: "response", Message: "is required"}
	}

	resp, err := c.httpClient.Put(ctx, "/updateStudentQuestionResponse", request)
	if err != nil {
		return nil, fmt.Errorf("updating student question response: %w", err)
	}

	result, err := timeback.DecodeEntity[timeback.QuestionResponseResult](resp.Body, "")
	if err != nil {
		return nil, fmt.Errorf("parsing question response result: %w", err)
	}

	return result, nil
}

// lessonQuery checks the student and lesson ids and renders them as query keys.
func lessonQuery(studentID, lessonID string) (url.Values, error) {
	err := timeback.RequireID("student id", studentID)
	if err != nil {
		return nil, err
	}

	err = timeback.RequireID("lesson id", lessonID)
	if err != nil {
		return nil, err
	}

	return url.Values{"student": {studentID}, "lesson": {lessonID}}, nil
}

// TestAssignmentsClient implements timeback.TestAssignmentsClient.
type TestAssignmentsClient struct {
	httpClient *http.Client
}

// NewTestAssignmentsClient creates a new test assignments client.
func NewTestAssignmentsClient(httpClient *http.Client) *TestAssignmentsClient {
	return &TestAssignmentsClient{
		httpClient: httpClient,
	}
}

const testAssignmentsPath = "/test-assignments"

// Create implements timeback.TestAssignmentsClient.Create.
func (c *TestAssignmentsClient) Create(ctx context.Context, assignment timeback.TestAssignment) (timeback.TestAssignment, error) {
	if len(assignment) == 0 {
		return nil, &timeback.ValidationError{Field: "test assignment", Message: "is required"}
	}

	resp, err := c.httpClient.Post(ctx, testAssignmentsPath, assignment)
	if err != nil {
		return nil, fmt.Errorf("creating test assignment: %w", err)
	}

	return decodeDocument(resp.Body, "test assignment")
}

// Get implements timeback.TestAssignmentsClient.Get.
func (c *TestAssignmentsClient) Get(ctx context.Context, id string) (timeback.TestAssignment, error) {
	err := timeback.RequireID("test assignment id", id)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Get(ctx, joinPath(testAssignmentsPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("getting test assignment: %w", err)
	}

	return decodeDocument(resp.Body, "test assignment")
}

// Update implements timeback.TestAssignmentsClient.Update.
func (c *TestAssignmentsClient) Update(ctx context.Context, id string, assignment timeback.TestAssignment) (timeback.TestAssignment, error) {
	err := timeback.RequireID("test assignment id", id)
	if err != nil {
		return nil, err
	}

	if len(assignment) == 0 {
		return nil, &timeback.ValidationError{Field: "test assignment", Message: "is required"}
	}

	resp, err := c.httpClient.Put(ctx, joinPath(testAssignmentsPath, id), assignment)
	if err != nil {
		return nil, fmt.Errorf("updating test assignment: %w", err)
	}

	return decodeDocument(resp.Body, "test assignment")
}

// Delete implements timeback.TestAssignmentsClient.Delete.
func (c *TestAssignmentsClient) Delete(ctx context.Context, id string) error {
	err := timeback.RequireID("test assignment id", id)
	if err != nil {
		return err
	}

	_, err = c.httpClient.Delete(ctx, joinPath(testAssignmentsPath, id))
	if err != nil {
		return fmt.Errorf("deleting test assignment: %w", err)
	}

	return nil
}

// List implements timeback.TestAssignmentsClient.List.
func (c *TestAssignmentsClient) List(ctx context.Context, filter *timeback.TestAssignmentFilter) (*timeback.ListResponse[timeback.TestAssignment], error) {
	return listAt[timeback.TestAssignment](ctx, c.httpClient, testAssignmentsPath, "testAssignments",
		filter.QueryParams(), "listing test assignments")
}

// ListAdmin implements timeback.TestAssignmentsClient.ListAdmin.
func (c *TestAssignmentsClient) ListAdmin(ctx context.Context, filter *timeback.TestAssignmentFilter) (*timeback.ListResponse[timeback.TestAssignment], error) {
	return listAt[timeback.TestAssignment](ctx, c.httpClient, testAssignmentsPath+"/admin", "testAssignments",
		filter.QueryParams(), "listing test assignments for admin")
}

func decodeDocument(body []byte, name string) (timeback.Document, error) {
	if len(body) == 0 {
		return timeback.Document{}, nil
	}

	doc, err := timeback.DecodeEntity[timeback.Document](body, "")
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	return *doc, nil
}
