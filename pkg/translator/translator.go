// Package translator converts loosely-typed request payloads into the
// validated internal model. Every function is total over well-formed
// input and fails with a typed InvalidParamError over malformed input;
// type mismatches are never coerced.
package translator

import (
	"math"

	"github.com/textveil/textveil/pkg/models"
)

// Entities validates a raw analyzer-result sequence and produces
// DetectedEntity values in input order. An empty or nil sequence is
// valid and produces an empty result.
func Entities(raw []map[string]any) ([]models.DetectedEntity, error) {
	entities := make([]models.DetectedEntity, 0, len(raw))
	for _, item := range raw {
		entityType, err := requireString(item, "entity_type")
		if err != nil {
			return nil, err
		}
		start, err := requireInt(item, "start")
		if err != nil {
			return nil, err
		}
		end, err := requireInt(item, "end")
		if err != nil {
			return nil, err
		}
		if start < 0 {
			return nil, models.NewInvalidParamError(
				"invalid input, start must not be negative, got %d", start)
		}
		if start >= end {
			return nil, models.NewInvalidParamError(
				"invalid input, start must be smaller than end, got start=%d end=%d", start, end)
		}
		score, err := optionalScore(item)
		if err != nil {
			return nil, err
		}
		entities = append(entities, models.DetectedEntity{
			EntityType: entityType,
			Start:      start,
			End:        end,
			Score:      score,
		})
	}
	return entities, nil
}

// AnonymizerConfigs validates a raw anonymizer mapping, keyed by entity
// type or DEFAULT. A nil or empty mapping yields the implicit fallback:
// a single DEFAULT rule replacing each span with its entity-type
// placeholder.
func AnonymizerConfigs(raw map[string]map[string]any) (map[string]models.OperatorConfig, error) {
	return operatorConfigs(raw, models.IsAnonymizerKind)
}

// DeanonymizerConfigs validates a raw deanonymizer mapping. A nil or
// empty mapping yields a single DEFAULT decrypt rule.
func DeanonymizerConfigs(raw map[string]map[string]any) (map[string]models.OperatorConfig, error) {
	if len(raw) == 0 {
		return map[string]models.OperatorConfig{
			models.DefaultKey: {OperatorName: models.OperatorDecrypt, Params: map[string]any{}},
		}, nil
	}
	return operatorConfigs(raw, models.IsDeanonymizerKind)
}

func operatorConfigs(
	raw map[string]map[string]any,
	isKnown func(string) bool,
) (map[string]models.OperatorConfig, error) {
	if len(raw) == 0 {
		return map[string]models.OperatorConfig{
			models.DefaultKey: {OperatorName: models.OperatorReplace, Params: map[string]any{}},
		}, nil
	}

	configs := make(map[string]models.OperatorConfig, len(raw))
	for entityTypeKey, item := range raw {
		operatorName, err := requireString(item, "type")
		if err != nil {
			return nil, err
		}
		if !isKnown(operatorName) {
			return nil, models.NewInvalidParamError(
				"invalid operator class '%s'", operatorName)
		}
		params := make(map[string]any, len(item))
		for key, value := range item {
			if key == "type" {
				continue
			}
			params[key] = value
		}
		configs[entityTypeKey] = models.OperatorConfig{
			OperatorName: operatorName,
			Params:       params,
		}
	}
	return configs, nil
}

// HasCustomOperator reports whether any parsed config uses the reserved
// custom operator kind. The anonymize path must reject such requests as
// a bad request before dispatch.
func HasCustomOperator(configs map[string]models.OperatorConfig) bool {
	for _, config := range configs {
		if config.OperatorName == models.OperatorCustom {
			return true
		}
	}
	return false
}

// DeanonymizeEntities validates a raw anonymizer-result sequence into
// AnonymizedEntity values. Beyond the offset invariants it requires the
// restoration metadata to be consistent with the declared operator kind:
// spans produced by encrypt or decrypt must carry a non-empty key.
func DeanonymizeEntities(raw []map[string]any) ([]models.AnonymizedEntity, error) {
	entities := make([]models.AnonymizedEntity, 0, len(raw))
	for _, item := range raw {
		entityType, err := requireString(item, "entity_type")
		if err != nil {
			return nil, err
		}
		start, err := requireInt(item, "start")
		if err != nil {
			return nil, err
		}
		end, err := requireInt(item, "end")
		if err != nil {
			return nil, err
		}
		if start < 0 {
			return nil, models.NewInvalidParamError(
				"invalid input, start must not be negative, got %d", start)
		}
		if start >= end {
			return nil, models.NewInvalidParamError(
				"invalid input, start must be smaller than end, got start=%d end=%d", start, end)
		}
		operator, err := requireString(item, "operator")
		if err != nil {
			return nil, err
		}

		metadata := make(map[string]any, len(item))
		for key, value := range item {
			switch key {
			case "entity_type", "start", "end", "operator":
				continue
			}
			metadata[key] = value
		}

		if operator == models.OperatorEncrypt || operator == models.OperatorDecrypt {
			key, ok := metadata["key"].(string)
			if !ok || key == "" {
				return nil, models.NewInvalidParamError(
					"invalid input, '%s' entity is missing a key", operator)
			}
		}

		entities = append(entities, models.AnonymizedEntity{
			EntityType: entityType,
			Start:      start,
			End:        end,
			Operator:   operator,
			Metadata:   metadata,
		})
	}
	return entities, nil
}

func requireString(item map[string]any, field string) (string, error) {
	value, ok := item[field]
	if !ok {
		return "", models.NewInvalidParamError("invalid input, result must contain %s", field)
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", models.NewInvalidParamError("invalid input, %s must be a non-empty string", field)
	}
	return s, nil
}

// requireInt accepts JSON numbers with integral values only. Strings
// that look numeric are a validation failure, never an implicit cast.
func requireInt(item map[string]any, field string) (int, error) {
	value, ok := item[field]
	if !ok {
		return 0, models.NewInvalidParamError("invalid input, result must contain %s", field)
	}
	f, ok := value.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, models.NewInvalidParamError("invalid input, %s must be an integer", field)
	}
	return int(f), nil
}

func optionalScore(item map[string]any) (float64, error) {
	value, ok := item["score"]
	if !ok {
		return 0, nil
	}
	f, ok := value.(float64)
	if !ok {
		return 0, models.NewInvalidParamError("invalid input, score must be a number")
	}
	if f < 0 || f > 1 {
		return 0, models.NewInvalidParamError(
			"invalid input, score must be between 0 and 1, got %v", f)
	}
	return f, nil
}
