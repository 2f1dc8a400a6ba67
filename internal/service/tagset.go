package service

import (
	"context"
	"fmt"
	"slices"

	domainerrors "github.com/taskdeckapp/taskdeck-server/internal/errors"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

// maxTagsPerEntity caps how many tags a single task, note, or collection
// can carry.
const maxTagsPerEntity = 50

// resolveTagIDs validates that every requested tag ID exists and belongs to
// the given user, and returns the deduplicated set. The store returns tags
// ordered by title, so the resolved IDs come back in title order too.
//
// An empty (or nil) input resolves to an empty set without touching the
// database. Unknown or foreign tag IDs produce a validation error listing
// the missing IDs; ownership is checked in the same query, so a tag owned
// by another user is indistinguishable from one that does not exist.
func resolveTagIDs(ctx context.Context, st *sqlite.Store, userID string, tagIDs []string) ([]string, error) {
	deduped := dedupe(tagIDs)
	if len(deduped) == 0 {
		return []string{}, nil
	}
	if len(deduped) > maxTagsPerEntity {
		return nil, domainerrors.Validationf("too many tags: %d exceeds the limit of %d", len(deduped), maxTagsPerEntity)
	}

	tags, err := st.GetTagsByIDsAndUser(ctx, userID, deduped)
	if err != nil {
		return nil, fmt.Errorf("resolve tags: %w", err)
	}

	if len(tags) != len(deduped) {
		found := make(map[string]struct{}, len(tags))
		for _, t := range tags {
			found[t.ID] = struct{}{}
		}
		missing := make([]string, 0, len(deduped)-len(tags))
		for _, id := range deduped {
			if _, ok := found[id]; !ok {
				missing = append(missing, id)
			}
		}
		slices.Sort(missing)
		return nil, domainerrors.ValidationWithDetails(
			"one or more tags do not exist",
			map[string]any{"missing_tag_ids": missing},
		)
	}

	resolved := make([]string, len(tags))
	for i, t := range tags {
		resolved[i] = t.ID
	}
	return resolved, nil
}

// dedupe removes duplicate IDs while preserving first-seen order.
func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
