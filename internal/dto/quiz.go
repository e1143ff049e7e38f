package dto

import "quiz-board/internal/domain"

// OptionRequest is one answer option of a question in a create request
type OptionRequest struct {
	ID        string `json:"id" validate:"required,max=64"`
	Text      string `json:"text" validate:"required,max=1000"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuestionRequest is one question in a create request
type QuestionRequest struct {
	QuestionID string          `json:"questionId" validate:"required,max=64"`
	Text       string          `json:"text" validate:"notblank,max=2000"`
	Type       string          `json:"type" validate:"omitempty,oneof=multiple-choice multi-select" example:"multiple-choice"`
	Options    []OptionRequest `json:"options" validate:"required,min=1,dive"`
}

// CreateQuizRequest represents the body of POST /quizzes
// @Description Request body for creating a quiz
type CreateQuizRequest struct {
	Title       string            `json:"title" validate:"notblank,max=500" example:"Go fundamentals"`
	Description string            `json:"description" validate:"max=4000"`
	Questions   []QuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

// ToQuestions converts the request questions into domain questions, keeping order.
func (r *CreateQuizRequest) ToQuestions() []domain.Question {
	questions := make([]domain.Question, len(r.Questions))
	for i, q := range r.Questions {
		options := make([]domain.Option, len(q.Options))
		for j, o := range q.Options {
			options[j] = domain.Option{ID: o.ID, Text: o.Text, IsCorrect: o.IsCorrect}
		}
		questions[i] = domain.Question{
			QuestionID: q.QuestionID,
			Text:       q.Text,
			Type:       q.Type,
			Options:    options,
		}
	}
	return questions
}

// AnswerRequest is a user's answer to one question
type AnswerRequest struct {
	QuestionID        string   `json:"questionId" validate:"required"`
	SelectedOptionID  string   `json:"selectedOptionId,omitempty"`
	SelectedOptionIDs []string `json:"selectedOptionIds,omitempty"`
}

// SubmitQuizRequest represents the body of POST /quizzes/{quizId}/submit
// @Description Request body for submitting answers
type SubmitQuizRequest struct {
	UserID  string          `json:"userId" validate:"notblank,max=255,docid" example:"alice"`
	Answers []AnswerRequest `json:"answers" validate:"dive"`
}

func (r *SubmitQuizRequest) ToAnswers() []domain.Answer {
	answers := make([]domain.Answer, len(r.Answers))
	for i, a := range r.Answers {
		answers[i] = domain.Answer(a)
	}
	return answers
}

// MessageResponse carries a human readable message, used for 404s
type MessageResponse struct {
	Message string `json:"message" example:"Quiz not found"`
}

// CreateQuizResponse is returned by POST /quizzes
type CreateQuizResponse struct {
	Message string `json:"message" example:"Quiz created successfully"`
	QuizID  string `json:"quizId"`
}

// SubmitQuizResponse is returned by POST /quizzes/{quizId}/submit
type SubmitQuizResponse struct {
	Message      string `json:"message" example:"Quiz submitted successfully"`
	Score        int    `json:"score"`
	MaxScore     int    `json:"maxScore"`
	SubmissionID string `json:"submissionId"`
}

// ValidationErrorResponse is returned for malformed requests
type ValidationErrorResponse struct {
	Message string                   `json:"message" example:"Request validation failed"`
	Errors  []domain.ValidationError `json:"errors"`
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
