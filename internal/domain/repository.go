package domain

import "context"

// QuizRepository defines the interface for quiz persistence
type QuizRepository interface {
	// SaveQuiz persists a new quiz
	SaveQuiz(ctx context.Context, quiz *Quiz) error

	// GetQuizByID retrieves a quiz by its ID. It returns (nil, nil) when the quiz does not exist.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)

	// ListQuizzes returns every quiz ordered by creation time, then ID
	ListQuizzes(ctx context.Context) ([]*Quiz, error)
}

// SubmissionRepository persists submissions and the per-user histories derived from them.
type SubmissionRepository interface {
	// RecordSubmission stores sub in the results collection and appends its
	// history entry to the user's history as one atomic unit. When a submission
	// with the same ID is already stored, nothing is written and the stored
	// submission is returned with created == false.
	RecordSubmission(ctx context.Context, sub *Submission) (stored *Submission, created bool, err error)

	// GetSubmission returns (nil, nil) when the submission does not exist.
	GetSubmission(ctx context.Context, id string) (*Submission, error)

	// ListSubmissions returns every stored submission.
	ListSubmissions(ctx context.Context) ([]*Submission, error)

	// AppendHistoryEntry appends entry to the user's history unless an entry
	// with the same SubmissionID is already present.
	AppendHistoryEntry(ctx context.Context, userID string, entry UserHistoryEntry) (appended bool, err error)

	// ListUserHistories returns the history of every user who has one.
	ListUserHistories(ctx context.Context) ([]UserHistory, error)
}
