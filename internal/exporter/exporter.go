// Package exporter implements the personal data exporters for BuddyPress
// components.
//
// Each exporter is a Callback: given an email address and a 1-based page
// number it returns one Page of Items for a single data category and reports
// whether the category is exhausted. Callbacks hold no state between calls;
// the caller drives pagination by incrementing page until Done is true.
package exporter

import (
	"context"
	"strings"

	"bpexport/internal/domain"
)

// Field is one labelled value of an exported item. Order is display order.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Item is one exported record.
type Item struct {
	GroupID    string  `json:"group_id"`
	GroupLabel string  `json:"group_label"`
	ItemID     string  `json:"item_id"`
	Data       []Field `json:"data"`
}

// Page is the result of one exporter call.
type Page struct {
	Data []Item `json:"data"`
	Done bool   `json:"done"`
}

// Callback produces one page of one category of a member's personal data.
type Callback func(ctx context.Context, email string, page int) (Page, error)

// Translator returns the display string for an English label.
type Translator interface {
	T(msg string) string
}

type untranslated struct{}

func (untranslated) T(msg string) string { return msg }

func emptyPage() Page {
	return Page{Data: []Item{}, Done: true}
}

// Window converts a 1-based page number into a LIMIT/OFFSET pair. Pages
// below 1 are treated as the first page.
func Window(page, batch int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return batch, (page - 1) * batch
}

// Done reports whether a page that fetched n records was the last one.
func Done(n, batch int) bool {
	return n < batch
}

// resolveUser trims email and looks the member up. An empty address is
// never looked up.
func resolveUser(ctx context.Context, dir Directory, email string) (domain.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, false, nil
	}
	return dir.FindUserByEmail(ctx, email)
}

// harvest is the skeleton shared by the paginated exporters: resolve the
// member, fetch one batch, project every record and compute Done from the
// number of records fetched.
func harvest[R any](
	ctx context.Context,
	dir Directory,
	email string,
	page, batch int,
	fetch func(ctx context.Context, user domain.User, limit, offset int) ([]R, error),
	project func(ctx context.Context, user domain.User, rec R) ([]Item, error),
) (Page, error) {
	user, ok, err := resolveUser(ctx, dir, email)
	if err != nil {
		return Page{}, err
	}
	if !ok {
		return emptyPage(), nil
	}

	limit, offset := Window(page, batch)
	records, err := fetch(ctx, user, limit, offset)
	if err != nil {
		return Page{}, err
	}

	items := make([]Item, 0, len(records))
	for _, rec := range records {
		projected, err := project(ctx, user, rec)
		if err != nil {
			return Page{}, err
		}
		items = append(items, projected...)
	}
	return Page{Data: items, Done: Done(len(records), batch)}, nil
}

// single is the skeleton for categories without pagination: one item per
// member, always done.
func single(
	ctx context.Context,
	dir Directory,
	email string,
	build func(ctx context.Context, user domain.User) (Item, error),
) (Page, error) {
	user, ok, err := resolveUser(ctx, dir, email)
	if err != nil {
		return Page{}, err
	}
	if !ok {
		return emptyPage(), nil
	}
	item, err := build(ctx, user)
	if err != nil {
		return Page{}, err
	}
	return Page{Data: []Item{item}, Done: true}, nil
}
