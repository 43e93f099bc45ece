package quiz

import (
	"context"
	"time"
)

func (s *SQLiteStore) AppendResult(ctx context.Context, r Result) error {
	if r.CompletedAt.IsZero() {
		r.CompletedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO results (username, quiz_id, total_time, avg_time, fastest_time, slowest_time, completed_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Username,
		r.QuizID,
		r.TotalTime,
		r.AvgTime,
		r.FastestTime,
		r.SlowestTime,
		r.CompletedAt.UnixNano(),
	)
	return err
}

func (s *SQLiteStore) ListResultsByUsername(ctx context.Context, username string) ([]Result, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT username, quiz_id, total_time, avg_time, fastest_time, slowest_time, completed_at_unix
		 FROM results WHERE username = ?
		 ORDER BY completed_at_unix DESC`,
		username,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]Result, 0)
	for rows.Next() {
		var (
			r               Result
			completedAtUnix int64
		)
		if err := rows.Scan(&r.Username, &r.QuizID, &r.TotalTime, &r.AvgTime, &r.FastestTime, &r.SlowestTime, &completedAtUnix); err != nil {
			return nil, err
		}
		r.CompletedAt = time.Unix(0, completedAtUnix).UTC()
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetLeaderboard ranks every user by their best (minimum) total time across
// all completion records, fastest first. Ties break on username so the
// ordering stays deterministic.
func (s *SQLiteStore) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT username, MIN(total_time) AS best_time, COUNT(*) AS runs
		 FROM results
		 GROUP BY username
		 ORDER BY best_time ASC, username ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leaderboard := make([]LeaderboardEntry, 0)
	for rows.Next() {
		var entry LeaderboardEntry
		if err := rows.Scan(&entry.Username, &entry.BestTime, &entry.Runs); err != nil {
			return nil, err
		}
		leaderboard = append(leaderboard, entry)
	}
	return leaderboard, rows.Err()
}
