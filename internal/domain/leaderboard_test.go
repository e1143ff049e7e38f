package domain

import (
	"reflect"
	"testing"
	"time"
)

func entries(scores ...int) []UserHistoryEntry {
	out := make([]UserHistoryEntry, 0, len(scores))
	for i, s := range scores {
		out = append(out, UserHistoryEntry{
			SubmissionID: "s" + string(rune('a'+i)),
			QuizID:       "quiz",
			Score:        s,
			CompletedAt:  time.Unix(int64(i), 0),
		})
	}
	return out
}

func TestBuildLeaderboard_TwoUsers(t *testing.T) {
	rows := BuildLeaderboard([]UserHistory{
		{UserID: "A", Entries: entries(4, 6)},
		{UserID: "B", Entries: entries(15)},
	})

	want := []LeaderboardRow{
		{Rank: 1, UserID: "B", TotalScore: 15, QuizzesTaken: 1},
		{Rank: 2, UserID: "A", TotalScore: 10, QuizzesTaken: 2},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("BuildLeaderboard() = %+v, want %+v", rows, want)
	}
}

func TestBuildLeaderboard_Empty(t *testing.T) {
	rows := BuildLeaderboard(nil)
	if rows == nil || len(rows) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", rows)
	}

	rows = BuildLeaderboard([]UserHistory{{UserID: "ghost"}})
	if len(rows) != 0 {
		t.Errorf("users without history must not be ranked, got %+v", rows)
	}
}

func TestBuildLeaderboard_TieBreakByUserID(t *testing.T) {
	histories := []UserHistory{
		{UserID: "carol", Entries: entries(5)},
		{UserID: "alice", Entries: entries(2, 3)},
		{UserID: "bob", Entries: entries(5)},
		{UserID: "dave", Entries: entries(9)},
	}
	rows := BuildLeaderboard(histories)

	gotOrder := make([]string, 0, len(rows))
	for i, r := range rows {
		gotOrder = append(gotOrder, r.UserID)
		if r.Rank != i+1 {
			t.Errorf("row %d has rank %d", i, r.Rank)
		}
	}
	wantOrder := []string{"dave", "alice", "bob", "carol"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("order = %v, want %v", gotOrder, wantOrder)
	}

	// input order must not matter
	reversed := []UserHistory{histories[3], histories[2], histories[1], histories[0]}
	if !reflect.DeepEqual(BuildLeaderboard(reversed), rows) {
		t.Errorf("leaderboard depends on scan order")
	}
}

func TestBuildLeaderboard_TotalsMatchHistory(t *testing.T) {
	histories := []UserHistory{
		{UserID: "u1", Entries: entries(1, 0, 3, 2)},
		{UserID: "u2", Entries: entries(0)},
	}
	rows := BuildLeaderboard(histories)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].UserID != "u1" || rows[0].TotalScore != 6 || rows[0].QuizzesTaken != 4 {
		t.Errorf("unexpected u1 row: %+v", rows[0])
	}
	if rows[1].UserID != "u2" || rows[1].TotalScore != 0 || rows[1].QuizzesTaken != 1 {
		t.Errorf("unexpected u2 row: %+v", rows[1])
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].TotalScore < rows[i].TotalScore {
			t.Errorf("rows not sorted descending at %d", i)
		}
	}
}

func TestBuildLeaderboard_SplitHistoriesMerge(t *testing.T) {
	rows := BuildLeaderboard([]UserHistory{
		{UserID: "u1", Entries: entries(1)},
		{UserID: "u1", Entries: entries(2)},
	})
	if len(rows) != 1 || rows[0].TotalScore != 3 || rows[0].QuizzesTaken != 2 {
		t.Errorf("expected merged row, got %+v", rows)
	}
}
