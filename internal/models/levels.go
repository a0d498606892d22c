package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// LevelEntry is one slot in a level's ordered plan. Only the exercise ID list
// is interpreted; any other per-entry fields ride along untouched.
type LevelEntry struct {
	SessionExerciseIDs []int64
	extra              map[string]json.RawMessage
}

const levelEntryIDKey = "sessionExerciseId"

// UnmarshalJSON keeps unknown entry fields intact. A sessionExerciseId value
// that is not an array of numbers is treated as absent, matching how the
// panel has always tolerated hand-edited documents.
func (e *LevelEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if ids, ok := raw[levelEntryIDKey]; ok {
		var parsed []int64
		if err := json.Unmarshal(ids, &parsed); err == nil {
			e.SessionExerciseIDs = parsed
			delete(raw, levelEntryIDKey)
		} else {
			e.SessionExerciseIDs = nil
		}
	}
	e.extra = raw
	return nil
}

// MarshalJSON re-emits the entry with its extra fields.
func (e LevelEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.extra)+1)
	for k, v := range e.extra {
		out[k] = v
	}
	if e.SessionExerciseIDs != nil {
		out[levelEntryIDKey] = e.SessionExerciseIDs
	}
	return json.Marshal(out)
}

// Field returns a raw extra field by name.
func (e LevelEntry) Field(name string) (json.RawMessage, bool) {
	v, ok := e.extra[name]
	return v, ok
}

// LevelsDocument maps a level name to its ordered plan entries.
type LevelsDocument map[string][]LevelEntry

// ExerciseIDs flattens every entry's exercise ID list into one de-duplicated
// slice. Levels are visited in name order so the result is deterministic.
func (d LevelsDocument) ExerciseIDs() []int64 {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)

	seen := make(map[int64]struct{})
	var ids []int64
	for _, name := range names {
		for _, entry := range d[name] {
			for _, id := range entry.SessionExerciseIDs {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// ParseLevelsDocument decodes a stored levels column. The value may be a JSON
// object or a JSON string wrapping one (older rows were written double
// encoded); null and empty values decode to an empty document.
func ParseLevelsDocument(raw []byte) (LevelsDocument, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return LevelsDocument{}, nil
	}
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, err
		}
		trimmed = []byte(inner)
	}
	var doc LevelsDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = LevelsDocument{}
	}
	return doc, nil
}
