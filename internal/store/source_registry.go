package store

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/firmdesk/firmdesk-api/internal/models"
	appErrors "github.com/firmdesk/firmdesk-api/pkg/errors"
)

// SourceRegistry tracks calendar sources: their display color and whether
// they are visible. It never touches events; projections consult it to decide
// what to show.
type SourceRegistry struct {
	mu      sync.RWMutex
	sources []models.CalendarSource
	index   map[string]int
}

// NewSourceRegistry seeds the registry with the provided sources.
func NewSourceRegistry(seed []models.CalendarSource) *SourceRegistry {
	r := &SourceRegistry{index: make(map[string]int, len(seed))}
	for _, src := range seed {
		if _, dup := r.index[src.ID]; dup {
			continue
		}
		r.index[src.ID] = len(r.sources)
		r.sources = append(r.sources, src)
	}
	return r
}

// All returns a copy of every source.
func (r *SourceRegistry) All() []models.CalendarSource {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.CalendarSource, len(r.sources))
	copy(out, r.sources)
	return out
}

// Get returns the source with the given id.
func (r *SourceRegistry) Get(id string) (models.CalendarSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[id]
	if !ok {
		return models.CalendarSource{}, false
	}
	return r.sources[i], true
}

// EnabledIDs returns the set of visible source ids, the shape the projector
// filters against.
func (r *SourceRegistry) EnabledIDs() map[string]struct{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enabled := make(map[string]struct{}, len(r.sources))
	for _, src := range r.sources {
		if src.Enabled {
			enabled[src.ID] = struct{}{}
		}
	}
	return enabled
}

// Toggle flips the enabled flag and returns the new state.
func (r *SourceRegistry) Toggle(id string) (models.CalendarSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return models.CalendarSource{}, appErrors.Clone(appErrors.ErrNotFound, "calendar source not found")
	}
	r.sources[i].Enabled = !r.sources[i].Enabled
	return r.sources[i], nil
}

// SetColor updates the display color.
func (r *SourceRegistry) SetColor(id, color string) (models.CalendarSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return models.CalendarSource{}, appErrors.Clone(appErrors.ErrNotFound, "calendar source not found")
	}
	r.sources[i].Color = color
	return r.sources[i], nil
}

// Connect appends a placeholder source for an external provider. No real
// provider handshake happens here; the OAuth flow lives outside this service.
func (r *SourceRegistry) Connect(provider models.SourceProvider, accountEmail string) (models.CalendarSource, error) {
	if provider != models.SourceProviderGoogle && provider != models.SourceProviderMicrosoft {
		return models.CalendarSource{}, appErrors.Clone(appErrors.ErrValidation, "provider must be google or microsoft")
	}

	name := "New Google Calendar"
	if provider == models.SourceProviderMicrosoft {
		name = "New Outlook Calendar"
	}
	src := models.CalendarSource{
		ID:           uuid.NewString(),
		Name:         name,
		Provider:     provider,
		Color:        "#2563eb",
		Enabled:      true,
		Connected:    true,
		AccountEmail: accountEmail,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.index[src.ID] = len(r.sources)
	r.sources = append(r.sources, src)
	return src, nil
}

// Disconnect removes a source. Events keep their sourceId and simply stop
// appearing in projections.
func (r *SourceRegistry) Disconnect(id string) (models.CalendarSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.index[id]
	if !ok {
		return models.CalendarSource{}, appErrors.Clone(appErrors.ErrNotFound, "calendar source not found")
	}
	removed := r.sources[i]
	r.sources = append(r.sources[:i], r.sources[i+1:]...)
	delete(r.index, id)
	for j := i; j < len(r.sources); j++ {
		r.index[r.sources[j].ID] = j
	}
	return removed, nil
}

// String implements fmt.Stringer for debug logging.
func (r *SourceRegistry) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	enabled := 0
	for _, src := range r.sources {
		if src.Enabled {
			enabled++
		}
	}
	return fmt.Sprintf("SourceRegistry(%d sources, %d enabled)", len(r.sources), enabled)
}
