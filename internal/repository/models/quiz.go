package models

import (
	"database/sql"
	"time"

	"quiz-board/internal/domain"
)

// Quiz is a row of the quizzes table. Questions are kept as one JSON document.
type Quiz struct {
	ID          string                        `db:"id"`
	Title       string                        `db:"title"`
	Description sql.NullString                `db:"description"`
	Questions   JSONColumn[[]domain.Question] `db:"questions"`
	CreatedAt   time.Time                     `db:"created_at"`
}

// QuizResult is a row of the quiz_results table.
type QuizResult struct {
	ID          string                      `db:"id"`
	QuizID      string                      `db:"quiz_id"`
	UserID      string                      `db:"user_id"`
	Answers     JSONColumn[[]domain.Answer] `db:"answers"`
	Score       int                         `db:"score"`
	SubmittedAt time.Time                   `db:"submitted_at"`
}

// UserHistory is a row of the user_history table.
type UserHistory struct {
	UserID       string    `db:"user_id"`
	SubmissionID string    `db:"submission_id"`
	QuizID       string    `db:"quiz_id"`
	Score        int       `db:"score"`
	CompletedAt  time.Time `db:"completed_at"`
}
