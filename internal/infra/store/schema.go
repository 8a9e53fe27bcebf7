package store

import (
	"context"
	"fmt"
)

// Schema returns CREATE TABLE statements for the subset of the WordPress and
// BuddyPress tables the exporters read. Column names match the real tables;
// types are kept portable across MySQL, Postgres and SQLite and indexes are
// omitted, so the result is meant for development and tests.
func Schema(prefix string) []string {
	if prefix == "" {
		prefix = "wp_"
	}
	tables := []struct{ name, columns string }{
		{"users", `
	ID BIGINT PRIMARY KEY,
	user_login VARCHAR(60) NOT NULL DEFAULT '',
	user_nicename VARCHAR(50) NOT NULL DEFAULT '',
	user_email VARCHAR(100) NOT NULL DEFAULT '',
	display_name VARCHAR(250) NOT NULL DEFAULT ''`},
		{"usermeta", `
	umeta_id BIGINT PRIMARY KEY,
	user_id BIGINT NOT NULL DEFAULT 0,
	meta_key VARCHAR(191),
	meta_value TEXT`},
		{"bp_activity", `
	id BIGINT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	component VARCHAR(75) NOT NULL,
	type VARCHAR(75) NOT NULL,
	action TEXT,
	content TEXT,
	primary_link TEXT,
	item_id BIGINT NOT NULL DEFAULT 0,
	secondary_item_id BIGINT NOT NULL DEFAULT 0,
	date_recorded VARCHAR(32) NOT NULL,
	hide_sitewide INTEGER NOT NULL DEFAULT 0,
	is_spam INTEGER NOT NULL DEFAULT 0`},
		{"bp_xprofile_groups", `
	id BIGINT PRIMARY KEY,
	name VARCHAR(150) NOT NULL,
	group_order BIGINT NOT NULL DEFAULT 0`},
		{"bp_xprofile_fields", `
	id BIGINT PRIMARY KEY,
	group_id BIGINT NOT NULL,
	parent_id BIGINT NOT NULL DEFAULT 0,
	type VARCHAR(150) NOT NULL DEFAULT 'textbox',
	name VARCHAR(150) NOT NULL,
	field_order BIGINT NOT NULL DEFAULT 0`},
		{"bp_xprofile_data", `
	id BIGINT PRIMARY KEY,
	field_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	value TEXT,
	last_updated VARCHAR(32) NOT NULL DEFAULT ''`},
		{"bp_groups", `
	id BIGINT PRIMARY KEY,
	creator_id BIGINT NOT NULL,
	name VARCHAR(100) NOT NULL,
	slug VARCHAR(200) NOT NULL,
	status VARCHAR(10) NOT NULL DEFAULT 'public',
	date_created VARCHAR(32) NOT NULL DEFAULT ''`},
		{"bp_groups_members", `
	id BIGINT PRIMARY KEY,
	group_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	inviter_id BIGINT NOT NULL DEFAULT 0,
	is_admin INTEGER NOT NULL DEFAULT 0,
	is_mod INTEGER NOT NULL DEFAULT 0,
	user_title VARCHAR(100) NOT NULL DEFAULT '',
	date_modified VARCHAR(32) NOT NULL DEFAULT '',
	is_confirmed INTEGER NOT NULL DEFAULT 0,
	is_banned INTEGER NOT NULL DEFAULT 0,
	invite_sent INTEGER NOT NULL DEFAULT 0`},
		{"bp_friends", `
	id BIGINT PRIMARY KEY,
	initiator_user_id BIGINT NOT NULL,
	friend_user_id BIGINT NOT NULL,
	is_confirmed INTEGER NOT NULL DEFAULT 0,
	date_created VARCHAR(32) NOT NULL DEFAULT ''`},
		{"bp_messages_messages", `
	id BIGINT PRIMARY KEY,
	thread_id BIGINT NOT NULL,
	sender_id BIGINT NOT NULL,
	subject VARCHAR(200) NOT NULL DEFAULT '',
	message TEXT,
	date_sent VARCHAR(32) NOT NULL DEFAULT ''`},
		{"bp_messages_recipients", `
	id BIGINT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	thread_id BIGINT NOT NULL,
	unread_count INTEGER NOT NULL DEFAULT 0,
	sender_only INTEGER NOT NULL DEFAULT 0,
	is_deleted INTEGER NOT NULL DEFAULT 0`},
		{"bp_notifications", `
	id BIGINT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	item_id BIGINT NOT NULL DEFAULT 0,
	secondary_item_id BIGINT NOT NULL DEFAULT 0,
	component_name VARCHAR(75) NOT NULL,
	component_action VARCHAR(75) NOT NULL,
	date_notified VARCHAR(32) NOT NULL DEFAULT '',
	is_new INTEGER NOT NULL DEFAULT 0`},
	}

	out := make([]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s%s (%s\n)", prefix, t.name, t.columns))
	}
	return out
}

// EnsureSchema creates any missing table of Schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, ddl := range Schema(s.prefix) {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
