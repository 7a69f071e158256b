// Package chapters normalizes chapter descriptions coming from the video
// provider's metadata or from authored section JSON into one ordered shape.
package chapters

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Chapter is a contiguous, labeled span of a section's video.
type Chapter struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	StartTime   float64  `json:"startTime"`
	Duration    *float64 `json:"duration,omitempty"`
	Description string   `json:"description,omitempty"`
	Flashcard   bool     `json:"flashcard"`
}

var (
	idKeys          = []string{"id", "chapterId", "chapter_id"}
	titleKeys       = []string{"title", "name", "label"}
	startKeys       = []string{"startTime", "start_time", "start", "startSeconds", "start_seconds", "time", "offset"}
	durationKeys    = []string{"duration", "durationSeconds", "duration_seconds", "length"}
	endKeys         = []string{"endTime", "end_time", "end"}
	descriptionKeys = []string{"description", "desc", "summary"}
	flashcardKeys   = []string{"flashcard", "hasFlashcard", "quiz"}
)

// NormalizeJSON accepts a JSON array of chapter objects or an object holding
// one under "chapters". Unparseable input yields nil.
func NormalizeJSON(raw []byte) []Chapter {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case []any:
		return Normalize(t)
	case map[string]any:
		if inner, ok := t["chapters"].([]any); ok {
			return Normalize(inner)
		}
	}
	return nil
}

// Normalize never fails as a whole: entries that are not objects or have no
// usable start time are skipped, everything else is coerced.
func Normalize(raw []any) []Chapter {
	out := make([]Chapter, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		start, ok := firstSeconds(m, startKeys)
		if !ok {
			continue
		}
		if start < 0 {
			start = 0
		}
		ch := Chapter{
			ID:          firstString(m, idKeys),
			Title:       firstString(m, titleKeys),
			StartTime:   start,
			Description: firstString(m, descriptionKeys),
			Flashcard:   firstBool(m, flashcardKeys),
		}
		if ch.ID == "" || seen[ch.ID] {
			ch.ID = uniqueID(seen, i+1)
		}
		seen[ch.ID] = true
		if ch.Title == "" {
			ch.Title = fmt.Sprintf("Chapter %d", i+1)
		}
		if d, ok := firstSeconds(m, durationKeys); ok && d >= 0 {
			ch.Duration = &d
		} else if end, ok := firstSeconds(m, endKeys); ok && end >= start {
			d := end - start
			ch.Duration = &d
		}
		out = append(out, ch)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}

// uniqueID returns chapter-<n>, suffixed when the source already used that id.
func uniqueID(seen map[string]bool, n int) string {
	id := fmt.Sprintf("chapter-%d", n)
	for k := 2; seen[id]; k++ {
		id = fmt.Sprintf("chapter-%d-%d", n, k)
	}
	return id
}

// CurrentAt picks the chapter with the largest start time <= t, falling back
// to the first chapter. chs must be sorted by start time.
func CurrentAt(chs []Chapter, t float64) (Chapter, int, bool) {
	if len(chs) == 0 {
		return Chapter{}, -1, false
	}
	idx := -1
	for i, ch := range chs {
		if ch.StartTime <= t {
			idx = i
		} else {
			break
		}
	}
	if idx < 0 {
		idx = 0
	}
	return chs[idx], idx, true
}

func IsLast(chs []Chapter, ch Chapter) bool {
	return len(chs) > 0 && chs[len(chs)-1].ID == ch.ID
}

func IndexOf(chs []Chapter, id string) int {
	for i, ch := range chs {
		if ch.ID == id {
			return i
		}
	}
	return -1
}

// End returns where chapter i stops: start+duration, else the next start,
// else videoDuration (which may be 0 when unknown).
func End(chs []Chapter, i int, videoDuration float64) float64 {
	if i < 0 || i >= len(chs) {
		return 0
	}
	if d := chs[i].Duration; d != nil {
		return chs[i].StartTime + *d
	}
	if i+1 < len(chs) {
		return chs[i+1].StartTime
	}
	return videoDuration
}

func firstString(m map[string]any, keys []string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func firstSeconds(m map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		v, present := m[k]
		if !present || v == nil {
			continue
		}
		if secs, ok := toSeconds(v); ok {
			return secs, true
		}
	}
	return 0, false
}

func firstBool(m map[string]any, keys []string) bool {
	for _, k := range keys {
		switch v := m[k].(type) {
		case bool:
			return v
		case float64:
			return v != 0
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err == nil {
				return b
			}
		}
	}
	return false
}

// toSeconds understands numbers, numeric strings and "mm:ss" / "hh:mm:ss".
func toSeconds(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return finite(f)
		}
		parts := strings.Split(s, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return 0, false
		}
		total := 0.0
		for _, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil || f < 0 {
				return 0, false
			}
			total = total*60 + f
		}
		return total, true
	}
	return 0, false
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
