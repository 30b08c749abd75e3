package anonymizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/textveil/textveil/pkg/models"
)

func TestAnonymize(t *testing.T) {
	engine := NewEngine()

	text := "Call Emily at 577-988-1234"
	entities := []models.DetectedEntity{
		{EntityType: "PERSON", Start: 5, End: 10},
		{EntityType: "PHONE_NUMBER", Start: 14, End: 26},
	}
	operators := map[string]models.OperatorConfig{
		"PERSON":  {OperatorName: models.OperatorReplace, Params: map[string]any{"new_value": "GOAT"}},
		"DEFAULT": {OperatorName: models.OperatorRedact, Params: map[string]any{}},
	}

	result, err := engine.Anonymize(text, entities, operators)
	assert.NoError(t, err)
	assert.Equal(t, "Call GOAT at ", result.Text)
	assert.Equal(t, []models.ResultItem{
		{EntityType: "PERSON", Start: 5, End: 9, Operator: "replace"},
		{EntityType: "PHONE_NUMBER", Start: 13, End: 13, Operator: "redact"},
	}, result.Items)
}

func TestAnonymizeNoEntities(t *testing.T) {
	engine := NewEngine()

	result, err := engine.Anonymize("nothing sensitive here", nil, map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorReplace, Params: map[string]any{}},
	})
	assert.NoError(t, err)
	assert.Equal(t, "nothing sensitive here", result.Text)
	assert.Empty(t, result.Items)
}

func TestAnonymizeDeterminism(t *testing.T) {
	engine := NewEngine()

	text := "Call Emily at 577-988-1234"
	entities := []models.DetectedEntity{
		{EntityType: "PHONE_NUMBER", Start: 14, End: 26},
		{EntityType: "PERSON", Start: 5, End: 10},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorHash, Params: map[string]any{}},
	}

	first, err := engine.Anonymize(text, entities, operators)
	assert.NoError(t, err)
	second, err := engine.Anonymize(text, entities, operators)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAnonymizeOrdersItemsByOriginalStart(t *testing.T) {
	engine := NewEngine()

	// Entities supplied out of order
	entities := []models.DetectedEntity{
		{EntityType: "PHONE_NUMBER", Start: 14, End: 26},
		{EntityType: "PERSON", Start: 5, End: 10},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorKeep, Params: map[string]any{}},
	}

	result, err := engine.Anonymize("Call Emily at 577-988-1234", entities, operators)
	assert.NoError(t, err)
	assert.Equal(t, "Call Emily at 577-988-1234", result.Text)
	assert.Equal(t, "PERSON", result.Items[0].EntityType)
	assert.Equal(t, "PHONE_NUMBER", result.Items[1].EntityType)
}

func TestAnonymizeOutOfBoundsOffsets(t *testing.T) {
	engine := NewEngine()

	entities := []models.DetectedEntity{
		{EntityType: "PERSON", Start: 5, End: 50},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorReplace, Params: map[string]any{}},
	}

	_, err := engine.Anonymize("Call Emily", entities, operators)
	assert.ErrorIs(t, err, models.ErrInvalidParam)
}

func TestAnonymizeNoMatchingConfig(t *testing.T) {
	engine := NewEngine()

	entities := []models.DetectedEntity{
		{EntityType: "PHONE_NUMBER", Start: 14, End: 26},
	}
	operators := map[string]models.OperatorConfig{
		"PERSON": {OperatorName: models.OperatorReplace, Params: map[string]any{}},
	}

	_, err := engine.Anonymize("Call Emily at 577-988-1234", entities, operators)
	assert.ErrorIs(t, err, models.ErrInvalidParam)
}

func TestAnonymizeDropsContainedEntities(t *testing.T) {
	engine := NewEngine()

	// "Emily" is contained in the wider PERSON span "Call Emily"
	entities := []models.DetectedEntity{
		{EntityType: "FIRST_NAME", Start: 5, End: 10, Score: 0.9},
		{EntityType: "PERSON", Start: 0, End: 10, Score: 0.5},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorReplace, Params: map[string]any{}},
	}

	result, err := engine.Anonymize("Call Emily at home", entities, operators)
	assert.NoError(t, err)
	assert.Equal(t, "<PERSON> at home", result.Text)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, "PERSON", result.Items[0].EntityType)
}

func TestAnonymizeIdenticalSpansKeepHigherScore(t *testing.T) {
	engine := NewEngine()

	entities := []models.DetectedEntity{
		{EntityType: "NRP", Start: 5, End: 10, Score: 0.2},
		{EntityType: "PERSON", Start: 5, End: 10, Score: 0.8},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorReplace, Params: map[string]any{}},
	}

	result, err := engine.Anonymize("Call Emily at home", entities, operators)
	assert.NoError(t, err)
	assert.Equal(t, "Call <PERSON> at home", result.Text)
	assert.Len(t, result.Items, 1)
}

func TestAnonymizePartialOverlapRejected(t *testing.T) {
	engine := NewEngine()

	entities := []models.DetectedEntity{
		{EntityType: "PERSON", Start: 0, End: 7},
		{EntityType: "LOCATION", Start: 5, End: 10},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorReplace, Params: map[string]any{}},
	}

	_, err := engine.Anonymize("Call Emily at home", entities, operators)
	assert.ErrorIs(t, err, models.ErrInvalidParam)
}

func TestAnonymizeUnicodeOffsets(t *testing.T) {
	engine := NewEngine()

	// Offsets index runes, not bytes
	text := "héllo Emily"
	entities := []models.DetectedEntity{
		{EntityType: "PERSON", Start: 6, End: 11},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorRedact, Params: map[string]any{}},
	}

	result, err := engine.Anonymize(text, entities, operators)
	assert.NoError(t, err)
	assert.Equal(t, "héllo ", result.Text)
}

func TestDeanonymize(t *testing.T) {
	engine := NewEngine()
	key := "WmZq4t7w!z%C&F)J"

	ciphertext, err := encryptOperator("Emily", "PERSON", map[string]any{"key": key})
	assert.NoError(t, err)

	text := "Call " + ciphertext + " at home"
	entities := []models.AnonymizedEntity{
		{
			EntityType: "PERSON",
			Start:      5,
			End:        5 + len(ciphertext),
			Operator:   models.OperatorEncrypt,
			Metadata:   map[string]any{"key": key},
		},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorDecrypt, Params: map[string]any{}},
	}

	result, err := engine.Deanonymize(text, entities, operators)
	assert.NoError(t, err)
	assert.Equal(t, "Call Emily at home", result.Text)
	assert.Equal(t, []models.ResultItem{
		{EntityType: "PERSON", Start: 5, End: 10, Operator: "decrypt"},
	}, result.Items)
}

func TestDeanonymizeKeyFromConfig(t *testing.T) {
	engine := NewEngine()
	key := "WmZq4t7w!z%C&F)J"

	ciphertext, err := encryptOperator("Emily", "PERSON", map[string]any{"key": key})
	assert.NoError(t, err)

	entities := []models.AnonymizedEntity{
		{
			EntityType: "PERSON",
			Start:      0,
			End:        len(ciphertext),
			Operator:   models.OperatorEncrypt,
			Metadata:   map[string]any{},
		},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorDecrypt, Params: map[string]any{"key": key}},
	}

	result, err := engine.Deanonymize(ciphertext, entities, operators)
	assert.NoError(t, err)
	assert.Equal(t, "Emily", result.Text)
}

func TestDeanonymizeUnsupportedOperator(t *testing.T) {
	engine := NewEngine()

	entities := []models.AnonymizedEntity{
		{EntityType: "PERSON", Start: 0, End: 5, Operator: models.OperatorEncrypt},
	}
	operators := map[string]models.OperatorConfig{
		"DEFAULT": {OperatorName: models.OperatorReplace, Params: map[string]any{}},
	}

	_, err := engine.Deanonymize("Emily", entities, operators)
	assert.ErrorIs(t, err, models.ErrInvalidParam)
}

func TestAnonymizersMatchRegistry(t *testing.T) {
	engine := NewEngine()

	kinds := engine.Anonymizers()
	assert.NotEmpty(t, kinds)
	for _, kind := range kinds {
		assert.True(t, models.IsAnonymizerKind(kind.Name))
	}
	// Stable order across calls
	assert.Equal(t, kinds, engine.Anonymizers())

	deanonymizerKinds := engine.Deanonymizers()
	assert.NotEmpty(t, deanonymizerKinds)
	for _, kind := range deanonymizerKinds {
		assert.True(t, models.IsDeanonymizerKind(kind.Name))
	}
}
