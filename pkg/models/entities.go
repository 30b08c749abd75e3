package models

// DefaultKey is the operator-config key applied to any entity type
// without a specific rule.
const DefaultKey = "DEFAULT"

// DetectedEntity is a span of sensitive text identified by an upstream
// analyzer. Offsets index Unicode code points and satisfy 0 <= Start < End.
// Entities are immutable once constructed and live only for the duration
// of a single request.
type DetectedEntity struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
}

// OperatorConfig is one transformation rule: which operator to apply and
// its operator-specific parameters. Configs are keyed by entity type (or
// DefaultKey) in the per-request operator map.
type OperatorConfig struct {
	OperatorName string
	Params       map[string]any
}

// AnonymizedEntity is a previously anonymized span needing restoration.
// Operator names the operator that produced the span; Metadata carries
// whatever that operator needs to reverse itself (e.g. the encryption key).
type AnonymizedEntity struct {
	EntityType string
	Start      int
	End        int
	Operator   string
	Metadata   map[string]any
}

// ResultItem is one per-entity outcome record. Start and End are offsets
// into the transformed output text, which may differ in length from the
// input.
type ResultItem struct {
	EntityType string `json:"entity_type"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Operator   string `json:"operator"`
}

// EngineResult is the outcome of an anonymize or deanonymize call: the
// transformed text and one item per processed entity, ordered ascending
// by the original start offset (ties by original end offset).
type EngineResult struct {
	Text  string       `json:"text"`
	Items []ResultItem `json:"items"`
}

// OperatorDescriptor describes one supported operator kind.
type OperatorDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
