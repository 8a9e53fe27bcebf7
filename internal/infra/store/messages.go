package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"bpexport/internal/domain"
)

// SentThreads returns the threads in the member's sent box, most recently
// active first, with all participants and messages loaded.
func (s *Store) SentThreads(ctx context.Context, userID int64, limit, offset int) ([]domain.Thread, error) {
	rows, err := s.query(ctx, page(
		s.sb.Select("m.thread_id").
			From(s.table("bp_messages_messages")+" m").
			Join(s.table("bp_messages_recipients")+" r ON r.thread_id = m.thread_id").
			Where(sq.Eq{"m.sender_id": userID, "r.user_id": userID, "r.is_deleted": 0}).
			GroupBy("m.thread_id").
			OrderBy("MAX(m.id) DESC"),
		limit, offset))
	if err != nil {
		return nil, fmt.Errorf("query sent threads: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	threads := make([]domain.Thread, 0, len(ids))
	for _, id := range ids {
		th, err := s.thread(ctx, id)
		if err != nil {
			return nil, err
		}
		threads = append(threads, th)
	}
	return threads, nil
}

func (s *Store) thread(ctx context.Context, threadID int64) (domain.Thread, error) {
	th := domain.Thread{ID: threadID}

	rows, err := s.query(ctx,
		s.sb.Select("user_id").
			From(s.table("bp_messages_recipients")).
			Where(sq.Eq{"thread_id": threadID}).
			OrderBy("id"))
	if err != nil {
		return th, fmt.Errorf("query recipients of thread %d: %w", threadID, err)
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return th, err
		}
		th.Recipients = append(th.Recipients, id)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return th, err
	}

	rows, err = s.query(ctx,
		s.sb.Select("id", "thread_id", "sender_id", "subject", "COALESCE(message, '')", "date_sent").
			From(s.table("bp_messages_messages")).
			Where(sq.Eq{"thread_id": threadID}).
			OrderBy("date_sent", "id"))
	if err != nil {
		return th, fmt.Errorf("query messages of thread %d: %w", threadID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Subject, &m.Body, &m.DateSent); err != nil {
			return th, err
		}
		th.Messages = append(th.Messages, m)
	}
	return th, rows.Err()
}

// ThreadURL returns the thread's page in the member's inbox.
func (s *Store) ThreadURL(user domain.User, threadID int64) string {
	return fmt.Sprintf("%smessages/view/%d/", s.memberURL(user.Nicename), threadID)
}
