package store

import "github.com/firmdesk/firmdesk-api/internal/models"

// Reconcile merges snapshot entries into the base list with strict
// deduplication by id. Base entries win: a snapshot record whose id is
// already present is discarded, never overwritten. Order is base order
// followed by surviving snapshot entries in their stored order.
func Reconcile(base, snapshot []models.Event) []models.Event {
	merged := make([]models.Event, 0, len(base)+len(snapshot))
	seen := make(map[string]struct{}, len(base))
	for _, event := range base {
		if _, dup := seen[event.ID]; dup {
			continue
		}
		seen[event.ID] = struct{}{}
		merged = append(merged, event)
	}
	for _, event := range snapshot {
		if _, dup := seen[event.ID]; dup {
			continue
		}
		seen[event.ID] = struct{}{}
		merged = append(merged, event)
	}
	return merged
}
