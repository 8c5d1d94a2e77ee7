package speech

import (
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Segmenter splits assistant replies into sentences the browser can speak one at a time.
type Segmenter struct {
	log *slog.Logger
}

func NewSegmenter(log *slog.Logger) *Segmenter {
	if log == nil {
		log = slog.Default()
	}
	return &Segmenter{log: log.With("component", "segmenter")}
}

func (s *Segmenter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		s.log.Warn("sentence segmentation failed", "error", err)
		return []string{text}
	}

	sentences := doc.Sentences()
	out := make([]string, 0, len(sentences))
	for _, sent := range sentences {
		if t := strings.TrimSpace(sent.Text); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}
