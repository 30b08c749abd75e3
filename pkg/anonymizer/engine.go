// Package anonymizer implements the anonymize and deanonymize engines:
// deterministic, stateless application of operator configs to entity
// spans. A single Engine instance is shared across requests.
package anonymizer

import (
	"sort"

	"github.com/textveil/textveil/internal"
	"github.com/textveil/textveil/pkg/models"
)

var log = internal.GetLogger()

// Engine implements both the AnonymizerEngine and DeanonymizerEngine
// contracts. It holds no per-request state.
type Engine struct{}

var _ models.AnonymizerEngine = &Engine{}
var _ models.DeanonymizerEngine = &Engine{}

func NewEngine() *Engine {
	log.Debug("anonymizer engine initialized")
	return &Engine{}
}

// Anonymize applies the operator config matching each entity's type (or
// the DEFAULT config) to its span and returns the transformed text with
// one item per processed entity. Identical inputs produce identical
// results for every operator except encrypt, which generates a fresh
// nonce per call.
func (e *Engine) Anonymize(
	text string,
	entities []models.DetectedEntity,
	operators map[string]models.OperatorConfig,
) (*models.EngineResult, error) {
	runes := []rune(text)
	for _, entity := range entities {
		if entity.End > len(runes) {
			return nil, models.NewInvalidParamError(
				"invalid input, %s entity offsets [%d:%d] exceed text length %d",
				entity.EntityType, entity.Start, entity.End, len(runes))
		}
	}

	entities = removeContained(entities)
	sortEntities(entities)

	var out []rune
	items := make([]models.ResultItem, 0, len(entities))
	cursor := 0
	for _, entity := range entities {
		if entity.Start < cursor {
			return nil, models.NewInvalidParamError(
				"invalid input, %s entity at [%d:%d] overlaps a preceding entity",
				entity.EntityType, entity.Start, entity.End)
		}
		config, err := configFor(entity.EntityType, operators)
		if err != nil {
			return nil, err
		}
		apply, ok := anonymizeOperators[config.OperatorName]
		if !ok {
			return nil, models.NewInvalidParamError(
				"operator '%s' is not supported for anonymization", config.OperatorName)
		}

		replacement, err := apply(string(runes[entity.Start:entity.End]), entity.EntityType, config.Params)
		if err != nil {
			return nil, err
		}

		out = append(out, runes[cursor:entity.Start]...)
		outStart := len(out)
		out = append(out, []rune(replacement)...)
		items = append(items, models.ResultItem{
			EntityType: entity.EntityType,
			Start:      outStart,
			End:        len(out),
			Operator:   config.OperatorName,
		})
		cursor = entity.End
	}
	out = append(out, runes[cursor:]...)

	return &models.EngineResult{Text: string(out), Items: items}, nil
}

// Deanonymize restores previously anonymized spans using the configured
// deanonymizer operators and each entity's restoration metadata. A key
// carried on the entity takes precedence over one in the config params.
func (e *Engine) Deanonymize(
	text string,
	entities []models.AnonymizedEntity,
	operators map[string]models.OperatorConfig,
) (*models.EngineResult, error) {
	runes := []rune(text)
	for _, entity := range entities {
		if entity.End > len(runes) {
			return nil, models.NewInvalidParamError(
				"invalid input, %s entity offsets [%d:%d] exceed text length %d",
				entity.EntityType, entity.Start, entity.End, len(runes))
		}
	}

	sorted := make([]models.AnonymizedEntity, len(entities))
	copy(sorted, entities)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	var out []rune
	items := make([]models.ResultItem, 0, len(sorted))
	cursor := 0
	for _, entity := range sorted {
		if entity.Start < cursor {
			return nil, models.NewInvalidParamError(
				"invalid input, %s entity at [%d:%d] overlaps a preceding entity",
				entity.EntityType, entity.Start, entity.End)
		}
		config, err := configFor(entity.EntityType, operators)
		if err != nil {
			return nil, err
		}
		apply, ok := deanonymizeOperators[config.OperatorName]
		if !ok {
			return nil, models.NewInvalidParamError(
				"operator '%s' is not supported for deanonymization", config.OperatorName)
		}

		params := config.Params
		if key, ok := entity.Metadata["key"].(string); ok && key != "" {
			params = make(map[string]any, len(config.Params)+1)
			for name, value := range config.Params {
				params[name] = value
			}
			params["key"] = key
		}

		restored, err := apply(string(runes[entity.Start:entity.End]), entity.EntityType, params)
		if err != nil {
			return nil, err
		}

		out = append(out, runes[cursor:entity.Start]...)
		outStart := len(out)
		out = append(out, []rune(restored)...)
		items = append(items, models.ResultItem{
			EntityType: entity.EntityType,
			Start:      outStart,
			End:        len(out),
			Operator:   config.OperatorName,
		})
		cursor = entity.End
	}
	out = append(out, runes[cursor:]...)

	return &models.EngineResult{Text: string(out), Items: items}, nil
}

// Anonymizers returns the descriptors of the supported anonymizer kinds,
// matching exactly what the translator validates against.
func (e *Engine) Anonymizers() []models.OperatorDescriptor {
	return models.AnonymizerKinds()
}

// Deanonymizers returns the descriptors of the supported deanonymizer kinds.
func (e *Engine) Deanonymizers() []models.OperatorDescriptor {
	return models.DeanonymizerKinds()
}

func configFor(entityType string, operators map[string]models.OperatorConfig) (models.OperatorConfig, error) {
	if config, ok := operators[entityType]; ok {
		return config, nil
	}
	if config, ok := operators[models.DefaultKey]; ok {
		return config, nil
	}
	return models.OperatorConfig{}, models.NewInvalidParamError(
		"no operator config found for entity type %s and no DEFAULT config present", entityType)
}

// removeContained drops entities wholly contained in another entity's
// span. For identical spans the higher score survives; earlier input
// position breaks remaining ties.
func removeContained(entities []models.DetectedEntity) []models.DetectedEntity {
	kept := make([]models.DetectedEntity, 0, len(entities))
	for i, entity := range entities {
		contained := false
		for j, other := range entities {
			if i == j {
				continue
			}
			if other.Start > entity.Start || other.End < entity.End {
				continue
			}
			if other.Start < entity.Start || other.End > entity.End {
				contained = true
				break
			}
			// Identical spans
			if other.Score > entity.Score || (other.Score == entity.Score && j < i) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, entity)
		}
	}
	return kept
}

// sortEntities orders entities ascending by start offset, ties broken by
// end offset ascending, for reproducible output across identical inputs.
func sortEntities(entities []models.DetectedEntity) {
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].End < entities[j].End
	})
}
