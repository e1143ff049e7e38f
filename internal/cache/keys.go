package cache

import (
	"strconv"
	"strings"
)

const (
	GlobalKeyPrefix = "quizboard"
)

// GenerateCacheKey generates a key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// LeaderboardKey is where the leaderboard rendered under version is cached.
func LeaderboardKey(version int64) string {
	return GenerateCacheKey("leaderboard", "rows", "all", "v"+strconv.FormatInt(version, 10))
}

// LeaderboardVersionKey holds the counter bumped on every invalidation.
func LeaderboardVersionKey() string {
	return GenerateCacheKey("leaderboard", "version", "all")
}

// Document store keys used by the Redis store driver.

func QuizDocKey(quizID string) string {
	return GenerateCacheKey("quiz", "doc", quizID)
}

func QuizIndexKey() string {
	return GenerateCacheKey("quiz", "index", "created_at")
}

func ResultDocKey(submissionID string) string {
	return GenerateCacheKey("result", "doc", submissionID)
}

func ResultIndexKey() string {
	return GenerateCacheKey("result", "index", "submitted_at")
}

func HistoryListKey(userID string) string {
	return GenerateCacheKey("history", "list", userID)
}

func HistoryIDsKey(userID string) string {
	return GenerateCacheKey("history", "ids", userID)
}

func HistoryUsersKey() string {
	return GenerateCacheKey("history", "users", "all")
}
