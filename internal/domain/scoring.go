package domain

// ScoreResult is the outcome of scoring one answer set.
type ScoreResult struct {
	Score    int
	MaxScore int
}

// Score grades answers against quiz. It has no side effects.
//
// Answers to unknown questions are ignored. Only the first answer to a given
// question counts, so the score never exceeds the number of questions.
func Score(quiz *Quiz, answers []Answer) (ScoreResult, error) {
	if quiz == nil {
		return ScoreResult{}, NewQuizNotFoundError("")
	}

	index := make(map[string]*Question, len(quiz.Questions))
	result := ScoreResult{}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		index[q.QuestionID] = q
		if q.scorable() {
			result.MaxScore++
		}
	}

	answered := make(map[string]struct{}, len(answers))
	for _, a := range answers {
		q, ok := index[a.QuestionID]
		if !ok {
			continue
		}
		if _, dup := answered[a.QuestionID]; dup {
			continue
		}
		answered[a.QuestionID] = struct{}{}
		if q.isCorrect(a) {
			result.Score++
		}
	}
	return result, nil
}

func (q *Question) scorable() bool {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return true
		}
	}
	return false
}

func (q *Question) isCorrect(a Answer) bool {
	if q.Type == QuestionTypeMultiSelect {
		return q.matchesAllCorrect(a)
	}
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return a.SelectedOptionID != "" && a.SelectedOptionID == opt.ID
		}
	}
	return false
}

func (q *Question) matchesAllCorrect(a Answer) bool {
	selected := make(map[string]struct{}, len(a.SelectedOptionIDs)+1)
	for _, id := range a.SelectedOptionIDs {
		selected[id] = struct{}{}
	}
	if a.SelectedOptionID != "" {
		selected[a.SelectedOptionID] = struct{}{}
	}

	correct := 0
	for _, opt := range q.Options {
		_, picked := selected[opt.ID]
		if opt.IsCorrect != picked {
			return false
		}
		if opt.IsCorrect {
			correct++
		}
	}
	// every pick must name an option of this question
	return correct > 0 && correct == len(selected)
}
