package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bpexport/internal/domain"
)

// ErrPageLimit is returned by Collect when an exporter is still not done
// after the page limit.
var ErrPageLimit = errors.New("exporter exceeded page limit")

// ReportGroup collects the items of one group_id.
type ReportGroup struct {
	GroupID    string `json:"group_id"`
	GroupLabel string `json:"group_label"`
	Items      []Item `json:"items"`
}

// Report is every exported item for one member, grouped by group_id in the
// order groups were first seen.
type Report struct {
	ID        string        `json:"id,omitempty"`
	Email     string        `json:"email"`
	CreatedAt time.Time     `json:"created_at"`
	Groups    []ReportGroup `json:"groups"`
}

// ItemCount returns the number of items across all groups.
func (r Report) ItemCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Items)
	}
	return n
}

// Collect calls every exporter in set with increasing page numbers until it
// reports done, and merges the pages into a Report. Items sharing a group and
// item id are merged by appending their fields. maxPages <= 0 means no limit.
func Collect(ctx context.Context, set *Set, email string, maxPages int) (Report, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Report{}, domain.ErrInvalidEmail
	}

	b := newReportBuilder()
	for _, entry := range set.Entries() {
		for page := 1; ; page++ {
			if maxPages > 0 && page > maxPages {
				return Report{}, fmt.Errorf("%s: %w (%d)", entry.Key, ErrPageLimit, maxPages)
			}
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
			p, err := entry.Callback(ctx, email, page)
			if err != nil {
				return Report{}, err
			}
			b.add(p.Data)
			if p.Done {
				break
			}
		}
	}

	return Report{
		Email:     email,
		CreatedAt: time.Now().UTC(),
		Groups:    b.groups,
	}, nil
}

type reportBuilder struct {
	groups     []ReportGroup
	groupIndex map[string]int
	itemIndex  map[string]map[string]int
}

func newReportBuilder() *reportBuilder {
	return &reportBuilder{
		groups:     []ReportGroup{},
		groupIndex: make(map[string]int),
		itemIndex:  make(map[string]map[string]int),
	}
}

func (b *reportBuilder) add(items []Item) {
	for _, it := range items {
		gi, ok := b.groupIndex[it.GroupID]
		if !ok {
			gi = len(b.groups)
			b.groupIndex[it.GroupID] = gi
			b.itemIndex[it.GroupID] = make(map[string]int)
			b.groups = append(b.groups, ReportGroup{GroupID: it.GroupID, GroupLabel: it.GroupLabel})
		}
		g := &b.groups[gi]
		if ii, seen := b.itemIndex[it.GroupID][it.ItemID]; seen {
			g.Items[ii].Data = append(g.Items[ii].Data, it.Data...)
			continue
		}
		b.itemIndex[it.GroupID][it.ItemID] = len(g.Items)
		data := make([]Field, len(it.Data))
		copy(data, it.Data)
		it.Data = data
		g.Items = append(g.Items, it)
	}
}
