package domain

import (
	"fmt"
	"time"
)

// Question types understood by the scoring engine.
const (
	// QuestionTypeMultipleChoice picks exactly one option.
	QuestionTypeMultipleChoice = "multiple-choice"
	// QuestionTypeMultiSelect picks every correct option.
	QuestionTypeMultiSelect = "multi-select"
)

// Option is one selectable answer of a question.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a single question of a quiz. Options keep their submitted order.
type Question struct {
	QuestionID string   `json:"questionId"`
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Options    []Option `json:"options"`
}

// Quiz represents a quiz in the domain. Quizzes are immutable once created.
type Quiz struct {
	ID          string     `json:"quizId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewQuiz creates a new Quiz instance
func NewQuiz(id, title, description string, questions []Question) *Quiz {
	return &Quiz{
		ID:          id,
		Title:       title,
		Description: description,
		Questions:   questions,
		CreatedAt:   time.Now().UTC(),
	}
}

// Validate checks the invariants a request validator cannot express:
// unique question ids, unique option ids per question and known types.
func (q *Quiz) Validate() error {
	var errs ValidationErrors
	if q.Title == "" {
		errs = append(errs, NewMissingFieldError("title"))
	}
	if len(q.Questions) == 0 {
		errs = append(errs, NewMissingFieldError("questions"))
	}

	seenQuestions := make(map[string]struct{}, len(q.Questions))
	for i, question := range q.Questions {
		field := fmt.Sprintf("questions[%d]", i)
		if _, dup := seenQuestions[question.QuestionID]; dup {
			errs = append(errs, NewDuplicateError(field+".questionId", question.QuestionID))
		}
		seenQuestions[question.QuestionID] = struct{}{}

		switch question.Type {
		case "", QuestionTypeMultipleChoice, QuestionTypeMultiSelect:
		default:
			errs = append(errs, NewInvalidFormatError(field+".type", question.Type))
		}

		seenOptions := make(map[string]struct{}, len(question.Options))
		for j, opt := range question.Options {
			if _, dup := seenOptions[opt.ID]; dup {
				errs = append(errs, NewDuplicateError(fmt.Sprintf("%s.options[%d].id", field, j), opt.ID))
			}
			seenOptions[opt.ID] = struct{}{}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// QuizSummary is the list view of a quiz.
type QuizSummary struct {
	ID          string `json:"quizId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Summary returns the list view of the quiz.
func (q *Quiz) Summary() QuizSummary {
	return QuizSummary{ID: q.ID, Title: q.Title, Description: q.Description}
}

// Answer is a user's answer to one question.
type Answer struct {
	QuestionID        string   `json:"questionId"`
	SelectedOptionID  string   `json:"selectedOptionId,omitempty"`
	SelectedOptionIDs []string `json:"selectedOptionIds,omitempty"`
}

// Submission is one scored attempt at a quiz. It is never modified after it is stored.
type Submission struct {
	ID          string    `json:"submissionId"`
	QuizID      string    `json:"quizId"`
	UserID      string    `json:"userId"`
	Answers     []Answer  `json:"answers"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// HistoryEntry derives the user history entry recorded alongside the submission.
func (s *Submission) HistoryEntry() UserHistoryEntry {
	return UserHistoryEntry{
		SubmissionID: s.ID,
		QuizID:       s.QuizID,
		Score:        s.Score,
		CompletedAt:  s.SubmittedAt,
	}
}

// UserHistoryEntry is appended to a user's history for every recorded submission.
type UserHistoryEntry struct {
	SubmissionID string    `json:"submissionId"`
	QuizID       string    `json:"quizId"`
	Score        int       `json:"score"`
	CompletedAt  time.Time `json:"completedAt"`
}

// UserHistory is the ordered history of one user.
type UserHistory struct {
	UserID  string
	Entries []UserHistoryEntry
}
