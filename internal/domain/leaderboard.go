package domain

import "sort"

// LeaderboardRow is a derived, never persisted, ranking line.
type LeaderboardRow struct {
	Rank         int    `json:"rank"`
	UserID       string `json:"userId"`
	TotalScore   int    `json:"totalScore"`
	QuizzesTaken int    `json:"quizzesTaken"`
}

// BuildLeaderboard aggregates every non-empty history into one row per user,
// ordered by total score descending with ties broken by user id ascending.
// Ranks are the 1-based position in that order.
func BuildLeaderboard(histories []UserHistory) []LeaderboardRow {
	byUser := make(map[string]*LeaderboardRow, len(histories))
	for _, h := range histories {
		if len(h.Entries) == 0 {
			continue
		}
		row, ok := byUser[h.UserID]
		if !ok {
			row = &LeaderboardRow{UserID: h.UserID}
			byUser[h.UserID] = row
		}
		for _, e := range h.Entries {
			row.TotalScore += e.Score
			row.QuizzesTaken++
		}
	}

	rows := make([]LeaderboardRow, 0, len(byUser))
	for _, row := range byUser {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalScore != rows[j].TotalScore {
			return rows[i].TotalScore > rows[j].TotalScore
		}
		return rows[i].UserID < rows[j].UserID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
