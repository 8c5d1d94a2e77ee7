package dictation

import "strings"

// Reconciler folds a redelivering recognition stream into one deduplicated transcript.
type Reconciler struct {
	finals    []string
	seen      map[string]struct{}
	finalText string
	interim   string
}

func NewReconciler() *Reconciler {
	return &Reconciler{seen: make(map[string]struct{})}
}

// Apply processes every segment of the event. It reports false when the event carried no
// usable text, in which case nothing changed.
func (r *Reconciler) Apply(event RecognitionEvent) (Transcript, bool) {
	var (
		accepted bool
		usable   bool
		interim  []string
	)

	for _, seg := range event.Results {
		text := normalize(seg.Text)
		if text == "" {
			continue
		}
		usable = true

		if !seg.IsFinal {
			interim = append(interim, text)
			continue
		}

		key := fingerprint(text)
		if _, dup := r.seen[key]; dup {
			continue
		}
		r.seen[key] = struct{}{}
		r.finals = append(r.finals, text)
		accepted = true
	}

	if !usable {
		return r.Transcript(), false
	}

	// Rebuilt rather than appended: one event may carry a superset of earlier finals.
	if accepted {
		r.finalText = strings.Join(r.finals, " ")
	}
	r.interim = strings.Join(interim, " ")

	return r.Transcript(), true
}

func (r *Reconciler) Transcript() Transcript {
	return Transcript{
		FinalText:   r.finalText,
		DisplayText: normalize(r.finalText + " " + r.interim),
	}
}

func (r *Reconciler) Seen(text string) bool {
	_, ok := r.seen[fingerprint(normalize(text))]
	return ok
}

func (r *Reconciler) Len() int {
	return len(r.seen)
}

func (r *Reconciler) Reset() {
	r.finals = nil
	r.seen = make(map[string]struct{})
	r.finalText = ""
	r.interim = ""
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fingerprint(s string) string {
	return strings.ToLower(s)
}
