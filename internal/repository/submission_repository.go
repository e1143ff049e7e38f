package repository

import (
	"context"
	"database/sql"
	"errors"

	"quiz-board/internal/domain"
	"quiz-board/internal/repository/models"
)

const (
	resultColumns  = `id "id", quiz_id "quiz_id", user_id "user_id", answers "answers", score "score", submitted_at "submitted_at"`
	historyColumns = `user_id "user_id", submission_id "submission_id", quiz_id "quiz_id", score "score", completed_at "completed_at"`

	insertResultQuery = `INSERT INTO quiz_results (id, quiz_id, user_id, answers, score, submitted_at) VALUES (:1, :2, :3, :4, :5, :6)`

	// mergeHistoryQuery inserts the entry unless (user_id, submission_id) is already present.
	mergeHistoryQuery = `MERGE INTO user_history h
USING (SELECT :1 AS user_id, :2 AS submission_id, :3 AS quiz_id, :4 AS score, :5 AS completed_at FROM dual) s
ON (h.user_id = s.user_id AND h.submission_id = s.submission_id)
WHEN NOT MATCHED THEN INSERT (user_id, submission_id, quiz_id, score, completed_at)
VALUES (s.user_id, s.submission_id, s.quiz_id, s.score, s.completed_at)`
)

var errResultExists = errors.New("quiz result already exists")

// SubmissionRepository implements domain.SubmissionRepository on the
// quiz_results and user_history tables.
type SubmissionRepository struct {
	db DBTX
	tm *TransactionManager
}

var _ domain.SubmissionRepository = (*SubmissionRepository)(nil)

func NewSubmissionRepository(db DBTX, tm *TransactionManager) *SubmissionRepository {
	return &SubmissionRepository{db: db, tm: tm}
}

func toResultModel(s *domain.Submission) *models.QuizResult {
	return &models.QuizResult{
		ID:          s.ID,
		QuizID:      s.QuizID,
		UserID:      s.UserID,
		Answers:     models.JSONColumn[[]domain.Answer]{Val: s.Answers},
		Score:       s.Score,
		SubmittedAt: s.SubmittedAt,
	}
}

func toDomainSubmission(m *models.QuizResult) *domain.Submission {
	answers := m.Answers.Val
	if answers == nil {
		answers = []domain.Answer{}
	}
	return &domain.Submission{
		ID:          m.ID,
		QuizID:      m.QuizID,
		UserID:      m.UserID,
		Answers:     answers,
		Score:       m.Score,
		SubmittedAt: m.SubmittedAt.UTC(),
	}
}

// RecordSubmission inserts the result row and the history row in one
// transaction. A primary key violation on the result row means the
// submission was already recorded.
func (r *SubmissionRepository) RecordSubmission(ctx context.Context, sub *domain.Submission) (*domain.Submission, bool, error) {
	m := toResultModel(sub)
	entry := sub.HistoryEntry()

	err := r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, r.db)
		_, err := exec.ExecContext(ctx, insertResultQuery, m.ID, m.QuizID, m.UserID, m.Answers, m.Score, m.SubmittedAt)
		if isUniqueViolation(err) {
			return errResultExists
		}
		if err != nil {
			return err
		}
		_, err = exec.ExecContext(ctx, mergeHistoryQuery, sub.UserID, entry.SubmissionID, entry.QuizID, entry.Score, entry.CompletedAt)
		if isUniqueViolation(err) {
			// a concurrent merge inserted the same entry; only the statement
			// was rolled back
			return nil
		}
		return err
	})
	if errors.Is(err, errResultExists) {
		stored, getErr := r.GetSubmission(ctx, sub.ID)
		if getErr != nil {
			return nil, false, getErr
		}
		if stored == nil {
			// deleted between the failed insert and the read
			return nil, false, domain.NewStoreError("record submission", err, true)
		}
		return stored, false, nil
	}
	if err != nil {
		return nil, false, storeError("record submission", err)
	}
	return sub, true, nil
}

func (r *SubmissionRepository) GetSubmission(ctx context.Context, id string) (*domain.Submission, error) {
	query := `SELECT ` + resultColumns + ` FROM quiz_results WHERE id = :1`

	var m models.QuizResult
	err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError("get submission", err)
	}
	return toDomainSubmission(&m), nil
}

func (r *SubmissionRepository) ListSubmissions(ctx context.Context) ([]*domain.Submission, error) {
	query := `SELECT ` + resultColumns + ` FROM quiz_results ORDER BY submitted_at, id`

	var rows []models.QuizResult
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list submissions", err)
	}
	subs := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		subs = append(subs, toDomainSubmission(&rows[i]))
	}
	return subs, nil
}

func (r *SubmissionRepository) AppendHistoryEntry(ctx context.Context, userID string, entry domain.UserHistoryEntry) (bool, error) {
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, mergeHistoryQuery,
		userID, entry.SubmissionID, entry.QuizID, entry.Score, entry.CompletedAt)
	if isUniqueViolation(err) {
		// lost the race to a concurrent merge of the same entry
		return false, nil
	}
	if err != nil {
		return false, storeError("append history", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeError("append history", err)
	}
	return n > 0, nil
}

func (r *SubmissionRepository) ListUserHistories(ctx context.Context) ([]domain.UserHistory, error) {
	query := `SELECT ` + historyColumns + ` FROM user_history ORDER BY user_id, completed_at, submission_id`

	var rows []models.UserHistory
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query); err != nil {
		return nil, storeError("list histories", err)
	}

	var histories []domain.UserHistory
	for _, row := range rows {
		if n := len(histories); n == 0 || histories[n-1].UserID != row.UserID {
			histories = append(histories, domain.UserHistory{UserID: row.UserID})
		}
		h := &histories[len(histories)-1]
		h.Entries = append(h.Entries, domain.UserHistoryEntry{
			SubmissionID: row.SubmissionID,
			QuizID:       row.QuizID,
			Score:        row.Score,
			CompletedAt:  row.CompletedAt.UTC(),
		})
	}
	return histories, nil
}
