// Package store implements exporter.Host on top of the WordPress and
// BuddyPress tables. It speaks MySQL, Postgres and SQLite through
// database/sql; queries are built with squirrel in the driver's placeholder
// format.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"bpexport/internal/domain"
	"bpexport/internal/exporter"
	u "bpexport/internal/utils"
)

// DefaultComponents is the component set assumed when none is configured.
var DefaultComponents = []string{
	exporter.ComponentSettings,
	exporter.ComponentActivity,
	exporter.ComponentXProfile,
	exporter.ComponentMessages,
	exporter.ComponentGroups,
	exporter.ComponentFriends,
	exporter.ComponentNotifications,
}

// Options configures a Store.
type Options struct {
	// SiteURL prefixes every generated link, e.g. "https://example.org".
	SiteURL string
	// Components lists the active components. Empty means DefaultComponents.
	Components []string
	// TablePrefix is the WordPress table prefix, "wp_" by default.
	TablePrefix string
	// Placeholder defaults to squirrel.Question.
	Placeholder sq.PlaceholderFormat
}

// Store reads member data from the site database.
type Store struct {
	db     *sql.DB
	sb     sq.StatementBuilderType
	prefix string
	site   string
	active map[string]bool
}

var _ exporter.Host = (*Store)(nil)

// New returns a Store reading through db.
func New(db *sql.DB, opts Options) *Store {
	if opts.TablePrefix == "" {
		opts.TablePrefix = "wp_"
	}
	if opts.Placeholder == nil {
		opts.Placeholder = sq.Question
	}
	components := opts.Components
	if len(components) == 0 {
		components = DefaultComponents
	}
	active := make(map[string]bool, len(components))
	for _, c := range components {
		active[strings.ToLower(strings.TrimSpace(c))] = true
	}
	return &Store{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(opts.Placeholder),
		prefix: opts.TablePrefix,
		site:   strings.TrimRight(opts.SiteURL, "/"),
		active: active,
	}
}

// Open connects to the configured database and returns a Store for it.
func Open(cfg u.Config) (*Store, error) {
	db, err := u.OpenDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := New(db, Options{
		SiteURL:     cfg.Site.URL,
		Components:  cfg.Site.Components,
		TablePrefix: cfg.Database.TablePrefix,
		Placeholder: u.Placeholder(cfg.Database),
	})
	u.Debug("Store ready", "driver", cfg.Database.Driver, "prefix", s.prefix, "components", len(s.active))
	return s, nil
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) table(name string) string { return s.prefix + name }

func (s *Store) query(ctx context.Context, b sq.SelectBuilder) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.db.QueryContext(ctx, query, args...)
}

func (s *Store) queryRow(ctx context.Context, b sq.SelectBuilder, dest ...interface{}) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
}

func page(b sq.SelectBuilder, limit, offset int) sq.SelectBuilder {
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return b
}

// IsComponentActive reports whether name is in the configured component set.
func (s *Store) IsComponentActive(name string) bool {
	return s.active[name]
}

// FindUserByEmail looks the member up by email, ignoring case.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	var usr domain.User
	err := s.queryRow(ctx,
		s.sb.Select("ID", "user_email", "user_nicename", "COALESCE(display_name, '')").
			From(s.table("users")).
			Where(sq.Expr("LOWER(user_email) = ?", strings.ToLower(strings.TrimSpace(email)))).
			OrderBy("ID").
			Limit(1),
		&usr.ID, &usr.Email, &usr.Nicename, &usr.DisplayName)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, false, nil
	}
	if err != nil {
		return domain.User{}, false, fmt.Errorf("find user: %w", err)
	}
	return usr, true, nil
}

// UserLink renders an anchor to the member's profile page. Deleted members
// render as "".
func (s *Store) UserLink(ctx context.Context, userID int64) (string, error) {
	var nicename, display string
	err := s.queryRow(ctx,
		s.sb.Select("user_nicename", "COALESCE(display_name, '')").
			From(s.table("users")).
			Where(sq.Eq{"ID": userID}),
		&nicename, &display)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("user link %d: %w", userID, err)
	}
	if display == "" {
		display = nicename
	}
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(s.memberURL(nicename)), html.EscapeString(display)), nil
}

func (s *Store) memberURL(nicename string) string {
	return s.site + "/members/" + nicename + "/"
}

// UserMeta returns the stored value of key for the member, or "".
func (s *Store) UserMeta(ctx context.Context, userID int64, key string) (string, error) {
	var v string
	err := s.queryRow(ctx,
		s.sb.Select("COALESCE(meta_value, '')").
			From(s.table("usermeta")).
			Where(sq.Eq{"user_id": userID, "meta_key": key}).
			OrderBy("umeta_id").
			Limit(1),
		&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("user meta %s: %w", key, err)
	}
	return v, nil
}
