package widget

import (
	"log/slog"
	"sync"

	"github.com/eleven-am/zone-feedback/internal/dictation"
)

type Registry struct {
	widgets map[string]*Widget
	mu      sync.RWMutex
	log     *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		widgets: make(map[string]*Widget),
		log:     log.With("component", "widget_registry"),
	}
}

func (r *Registry) Add(w *Widget) {
	r.mu.Lock()
	r.widgets[w.ID()] = w
	r.mu.Unlock()

	r.log.Info("widget connected", "widget_id", w.ID(), "session_id", w.SessionID(), "zone_id", w.ZoneID())
}

func (r *Registry) Get(id string) (*Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.widgets[id]
	return w, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	_, ok := r.widgets[id]
	delete(r.widgets, id)
	r.mu.Unlock()

	if ok {
		r.log.Info("widget disconnected", "widget_id", id)
	}
}

type Info struct {
	WidgetID       string          `json:"widget_id"`
	SessionID      string          `json:"session_id"`
	ZoneID         string          `json:"zone_id"`
	DictationState dictation.State `json:"dictation_state"`
	Messages       int             `json:"messages"`
}

type Stats struct {
	Total   int            `json:"total"`
	ByState map[string]int `json:"by_state"`
	ByZone  map[string]int `json:"by_zone"`
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.widgets)
}

func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Info, 0, len(r.widgets))
	for _, w := range r.widgets {
		out = append(out, Info{
			WidgetID:       w.ID(),
			SessionID:      w.SessionID(),
			ZoneID:         w.ZoneID(),
			DictationState: w.State(),
			Messages:       w.Conversation().Len(),
		})
	}
	return out
}

func (r *Registry) Stats() Stats {
	stats := Stats{
		ByState: make(map[string]int),
		ByZone:  make(map[string]int),
	}
	for _, info := range r.List() {
		stats.Total++
		stats.ByState[string(info.DictationState)]++
		stats.ByZone[info.ZoneID]++
	}
	return stats
}

func (r *Registry) Close() error {
	r.mu.Lock()
	widgets := make([]*Widget, 0, len(r.widgets))
	for _, w := range r.widgets {
		widgets = append(widgets, w)
	}
	r.widgets = make(map[string]*Widget)
	r.mu.Unlock()

	for _, w := range widgets {
		w.Close()
	}
	return nil
}
