package timeback

import (
	"encoding/json"
	"strconv"
)

// AssessmentProgress is a student's standing in a PowerPath100 lesson.
type AssessmentProgress struct {
	Score                           float64           `json:"score"                                     yaml:"score"`
	SeenQuestions                   []json.RawMessage `json:"seenQuestions,omitempty"                   yaml:"-"`
	RemainingQuestionsPerDifficulty map[string]int    `json:"remainingQuestionsPerDifficulty,omitempty" yaml:"remaining_questions_per_difficulty,omitempty"`
}

// NextQuestion is the question PowerPath serves next.
type NextQuestion struct {
	Score    float64         `json:"score"              yaml:"score"`
	Question json.RawMessage `json:"question,omitempty" yaml:"-"`
}

// ResetAttemptResult is returned after a lesson attempt is cleared.
type ResetAttemptResult struct {
	Success bool    `json:"success" yaml:"success"`
	Score   float64 `json:"score"   yaml:"score"`
}

// QuestionResponseRequest records a student's answer to a lesson question.
//
// Response is a string, or a list of strings for multiple choice.
type QuestionResponseRequest struct {
	Student  string      `json:"student"`
	Question string      `json:"question"`
	Response interface{} `json:"response"`
	Lesson   string      `json:"lesson"`
}

// QuestionResponseResult is the updated PowerPath score with processing details.
type QuestionResponseResult struct {
	PowerPathScore float64         `json:"powerpathScore"           yaml:"powerpath_score"`
	ResponseResult json.RawMessage `json:"responseResult,omitempty" yaml:"-"`
	QuestionResult json.RawMessage `json:"questionResult,omitempty" yaml:"-"`
	QuizResult     json.RawMessage `json:"quizResult,omitempty"     yaml:"-"`
}

// TestAssignmentFilter narrows test assignment listings.
type TestAssignmentFilter struct {
	Student string
	Status  string
	Subject string
	Grade   string
	Page    int
	Limit   int
}

// QueryParams renders the filter as endpoint specific query keys.
func (f *TestAssignmentFilter) QueryParams() *QueryParams {
	params := NewQueryParams()
	if f == nil {
		return params
	}

	if f.Student != "" {
		params.WithExtra("student", f.Student)
	}

	if f.Status != "" {
		params.WithExtra("status", f.Status)
	}

	if f.Subject != "" {
		params.WithExtra("subject", f.Subject)
	}

	if f.Grade != "" {
		params.WithExtra("grade", f.Grade)
	}

	if f.Page > 0 {
		params.WithExtra("page", strconv.Itoa(f.Page))
	}

	params.Limit = f.Limit

	return params
}

// TestAssignment is a PowerPath test assignment. The API does not publish a fixed schema.
type TestAssignment = Document
