package repository

import (
	"context"
	"database/sql"
	"errors"

	"quiz-board/internal/domain"
	"quiz-board/internal/repository/models"
)

const quizColumns = `id "id", title "title", description "description", questions "questions", created_at "created_at"`

// QuizRepository implements domain.QuizRepository on the quizzes table.
type QuizRepository struct {
	db DBTX
}

var _ domain.QuizRepository = (*QuizRepository)(nil)

func NewQuizRepository(db DBTX) *QuizRepository {
	return &QuizRepository{db: db}
}

func toQuizModel(q *domain.Quiz) *models.Quiz {
	return &models.Quiz{
		ID:          q.ID,
		Title:       q.Title,
		Description: sql.NullString{String: q.Description, Valid: q.Description != ""},
		Questions:   models.JSONColumn[[]domain.Question]{Val: q.Questions},
		CreatedAt:   q.CreatedAt,
	}
}

func toDomainQuiz(m *models.Quiz) *domain.Quiz {
	questions := m.Questions.Val
	if questions == nil {
		questions = []domain.Question{}
	}
	return &domain.Quiz{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description.String,
		Questions:   questions,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

func (r *QuizRepository) SaveQuiz(ctx context.Context, quiz *domain.Quiz) error {
	m := toQuizModel(quiz)
	query := `INSERT INTO quizzes (id, title, description, questions, created_at) VALUES (:1, :2, :3, :4, :5)`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, m.ID, m.Title, m.Description, m.Questions, m.CreatedAt)
	if isUniqueViolation(err) {
		return domain.NewStoreError("save quiz", domain.NewError(domain.CodeDuplicate, "quiz already exists", err), false)
	}
	if err != nil {
		return storeError("save quiz", err)
	}
	return nil
}

func (r *QuizRepository) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE id = :1`

	var m models.Quiz
	err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get quiz", err)
	}
	return toDomainQuiz(&m), nil
}

func (r *QuizRepository) ListQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes ORDER BY created_at, id`

	var rows []models.Quiz
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list quizzes", err)
	}
	quizzes := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		quizzes = append(quizzes, toDomainQuiz(&rows[i]))
	}
	return quizzes, nil
}
