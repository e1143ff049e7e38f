package firestoredb

import (
	"time"

	"quiz-board/internal/domain"
)

// Collection names.
const (
	quizzesCollection = "quizzes"
	resultsCollection = "results"
	usersCollection   = "users"
)

type optionDoc struct {
	ID        string `firestore:"id"`
	Text      string `firestore:"text"`
	IsCorrect bool   `firestore:"isCorrect"`
}

type questionDoc struct {
	QuestionID string      `firestore:"questionId"`
	Text       string      `firestore:"text"`
	Type       string      `firestore:"type,omitempty"`
	Options    []optionDoc `firestore:"options"`
}

type quizDoc struct {
	QuizID      string        `firestore:"quizId"`
	Title       string        `firestore:"title"`
	Description string        `firestore:"description"`
	Questions   []questionDoc `firestore:"questions"`
	CreatedAt   time.Time     `firestore:"createdAt"`
}

type answerDoc struct {
	QuestionID        string   `firestore:"questionId"`
	SelectedOptionID  string   `firestore:"selectedOptionId,omitempty"`
	SelectedOptionIDs []string `firestore:"selectedOptionIds,omitempty"`
}

type resultDoc struct {
	SubmissionID string      `firestore:"submissionId"`
	QuizID       string      `firestore:"quizId"`
	UserID       string      `firestore:"userId"`
	Answers      []answerDoc `firestore:"answers"`
	Score        int         `firestore:"score"`
	SubmittedAt  time.Time   `firestore:"submittedAt"`
}

type historyDoc struct {
	SubmissionID string    `firestore:"submissionId"`
	QuizID       string    `firestore:"quizId"`
	Score        int       `firestore:"score"`
	CompletedAt  time.Time `firestore:"completedAt"`
}

type userDoc struct {
	History []historyDoc `firestore:"history"`
}

func toQuizDoc(q *domain.Quiz) quizDoc {
	doc := quizDoc{
		QuizID:      q.ID,
		Title:       q.Title,
		Description: q.Description,
		Questions:   make([]questionDoc, len(q.Questions)),
		CreatedAt:   q.CreatedAt,
	}
	for i, question := range q.Questions {
		qd := questionDoc{
			QuestionID: question.QuestionID,
			Text:       question.Text,
			Type:       question.Type,
			Options:    make([]optionDoc, len(question.Options)),
		}
		for j, opt := range question.Options {
			qd.Options[j] = optionDoc{ID: opt.ID, Text: opt.Text, IsCorrect: opt.IsCorrect}
		}
		doc.Questions[i] = qd
	}
	return doc
}

func (d quizDoc) toDomain(docID string) *domain.Quiz {
	q := &domain.Quiz{
		ID:          d.QuizID,
		Title:       d.Title,
		Description: d.Description,
		Questions:   make([]domain.Question, len(d.Questions)),
		CreatedAt:   d.CreatedAt.UTC(),
	}
	if q.ID == "" {
		q.ID = docID
	}
	for i, qd := range d.Questions {
		question := domain.Question{
			QuestionID: qd.QuestionID,
			Text:       qd.Text,
			Type:       qd.Type,
			Options:    make([]domain.Option, len(qd.Options)),
		}
		for j, od := range qd.Options {
			question.Options[j] = domain.Option{ID: od.ID, Text: od.Text, IsCorrect: od.IsCorrect}
		}
		q.Questions[i] = question
	}
	return q
}

func toResultDoc(s *domain.Submission) resultDoc {
	doc := resultDoc{
		SubmissionID: s.ID,
		QuizID:       s.QuizID,
		UserID:       s.UserID,
		Answers:      make([]answerDoc, len(s.Answers)),
		Score:        s.Score,
		SubmittedAt:  s.SubmittedAt,
	}
	for i, a := range s.Answers {
		doc.Answers[i] = answerDoc(a)
	}
	return doc
}

func (d resultDoc) toDomain() *domain.Submission {
	s := &domain.Submission{
		ID:          d.SubmissionID,
		QuizID:      d.QuizID,
		UserID:      d.UserID,
		Answers:     make([]domain.Answer, len(d.Answers)),
		Score:       d.Score,
		SubmittedAt: d.SubmittedAt.UTC(),
	}
	for i, a := range d.Answers {
		s.Answers[i] = domain.Answer(a)
	}
	return s
}

func toHistoryDoc(e domain.UserHistoryEntry) historyDoc {
	return historyDoc(e)
}

func (d userDoc) toDomain(userID string) domain.UserHistory {
	h := domain.UserHistory{UserID: userID, Entries: make([]domain.UserHistoryEntry, len(d.History))}
	for i, e := range d.History {
		entry := domain.UserHistoryEntry(e)
		entry.CompletedAt = entry.CompletedAt.UTC()
		h.Entries[i] = entry
	}
	return h
}

func (d userDoc) contains(submissionID string) bool {
	for _, e := range d.History {
		if e.SubmissionID == submissionID {
			return true
		}
	}
	return false
}
