package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/elliotchance/phpserialize"

	"bpexport/internal/domain"
)

// ProfileFields returns the member's non-empty extended profile values in
// group, then field order.
func (s *Store) ProfileFields(ctx context.Context, userID int64) ([]domain.ProfileField, error) {
	rows, err := s.query(ctx,
		s.sb.Select("f.id", "f.name", "COALESCE(d.value, '')").
			From(s.table("bp_xprofile_data")+" d").
			Join(s.table("bp_xprofile_fields")+" f ON f.id = d.field_id").
			LeftJoin(s.table("bp_xprofile_groups")+" g ON g.id = f.group_id").
			Where(sq.Eq{"d.user_id": userID}).
			OrderBy("g.group_order", "f.field_order", "f.id"))
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	defer rows.Close()

	var out []domain.ProfileField
	for rows.Next() {
		var f domain.ProfileField
		var raw string
		if err := rows.Scan(&f.FieldID, &f.Name, &raw); err != nil {
			return nil, err
		}
		f.Value = profileValue(raw)
		if f.Value == "" {
			continue
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// profileValue flattens multi-value fields, which BuddyPress stores as
// PHP-serialized arrays, into a comma separated list in key order.
func profileValue(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "a:") {
		return raw
	}
	arr, err := unserialize(raw)
	if err != nil {
		return raw
	}

	keys := make([]interface{}, 0, len(arr))
	for k := range arr {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })

	values := make([]string, 0, len(arr))
	for _, k := range keys {
		v := arr[k]
		if v == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			values = append(values, s)
		}
	}
	return strings.Join(values, ", ")
}

// unserialize decodes a PHP array. Truncated input may panic inside the
// decoder and is reported as an error.
func unserialize(raw string) (arr map[interface{}]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unserialize: %v", r)
		}
	}()
	return phpserialize.UnmarshalAssociativeArray([]byte(raw))
}

// keyLess orders integer keys numerically ahead of string keys.
func keyLess(a, b interface{}) bool {
	ai, aInt := a.(int64)
	bi, bInt := b.(int64)
	switch {
	case aInt && bInt:
		return ai < bi
	case aInt != bInt:
		return aInt
	default:
		return fmt.Sprint(a) < fmt.Sprint(b)
	}
}
