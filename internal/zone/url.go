package zone

import (
	"errors"
	"net/url"
	"strings"
)

var ErrNoZone = errors.New("no zone in url")

var zoneParams = []string{"zone", "zoneId", "unit"}

var zoneSegments = map[string]bool{
	"zones": true,
	"zone":  true,
	"units": true,
}

// FromURL extracts the zone id a widget page belongs to. Query parameters win over the path,
// and the path form is /zones/<id> (or /zone/<id>, /units/<id>).
func FromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoZone
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", ErrNoZone
	}

	q := u.Query()
	for _, p := range zoneParams {
		if v := strings.TrimSpace(q.Get(p)); v != "" {
			return v, nil
		}
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i < len(segments)-1; i++ {
		if !zoneSegments[strings.ToLower(segments[i])] {
			continue
		}
		if id := strings.TrimSpace(segments[i+1]); id != "" {
			return id, nil
		}
	}

	return "", ErrNoZone
}
