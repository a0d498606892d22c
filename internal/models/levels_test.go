package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevelsDocumentObject(t *testing.T) {
	raw := []byte(`{"Beginner":[{"sessionExerciseId":[1,2],"note":"warmup"}],"Advanced":[{"sessionExerciseId":[3]}]}`)

	doc, err := ParseLevelsDocument(raw)
	require.NoError(t, err)
	require.Len(t, doc, 2)
	assert.Equal(t, []int64{1, 2}, doc["Beginner"][0].SessionExerciseIDs)

	note, ok := doc["Beginner"][0].Field("note")
	require.True(t, ok)
	assert.JSONEq(t, `"warmup"`, string(note))
}

func TestParseLevelsDocumentDoubleEncoded(t *testing.T) {
	raw := []byte(`"{\"Beginner\":[{\"sessionExerciseId\":[7]}]}"`)

	doc, err := ParseLevelsDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, doc["Beginner"][0].SessionExerciseIDs)
}

func TestParseLevelsDocumentEmptyAndNull(t *testing.T) {
	for _, raw := range [][]byte{nil, []byte(""), []byte("null"), []byte("  null  ")} {
		doc, err := ParseLevelsDocument(raw)
		require.NoError(t, err)
		assert.Empty(t, doc)
	}
}

func TestParseLevelsDocumentMalformed(t *testing.T) {
	_, err := ParseLevelsDocument([]byte(`{"Beginner":`))
	assert.Error(t, err)
}

func TestLevelEntryToleratesNonArrayIDs(t *testing.T) {
	var entry LevelEntry
	require.NoError(t, json.Unmarshal([]byte(`{"sessionExerciseId":"not-a-list"}`), &entry))
	assert.Nil(t, entry.SessionExerciseIDs)
}

func TestLevelEntryRoundTripKeepsExtras(t *testing.T) {
	var entry LevelEntry
	require.NoError(t, json.Unmarshal([]byte(`{"sessionExerciseId":[4,5],"duration":"10m"}`), &entry))

	out, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sessionExerciseId":[4,5],"duration":"10m"}`, string(out))
}

func TestLevelsDocumentExerciseIDs(t *testing.T) {
	doc := LevelsDocument{
		"B-level": {{SessionExerciseIDs: []int64{3, 1}}},
		"A-level": {{SessionExerciseIDs: []int64{2, 3}}, {SessionExerciseIDs: []int64{2}}},
	}

	// Levels visit in name order, duplicates collapse.
	assert.Equal(t, []int64{2, 3, 1}, doc.ExerciseIDs())
}

func TestLevelsDocumentExerciseIDsEmpty(t *testing.T) {
	assert.Empty(t, LevelsDocument{}.ExerciseIDs())
	assert.Empty(t, LevelsDocument{"Beginner": {{}}}.ExerciseIDs())
}
