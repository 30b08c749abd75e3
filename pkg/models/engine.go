package models

// AnonymizerEngine applies transformation rules to detected entity spans.
// Implementations must be pure functions of their inputs and safe for
// concurrent use: a single engine instance serves many requests.
type AnonymizerEngine interface {
	Anonymize(
		text string,
		entities []DetectedEntity,
		operators map[string]OperatorConfig,
	) (*EngineResult, error)
	Anonymizers() []OperatorDescriptor
}

// DeanonymizerEngine reverses a prior anonymization given the spans'
// restoration metadata. Same purity and concurrency contract as the
// AnonymizerEngine.
type DeanonymizerEngine interface {
	Deanonymize(
		text string,
		entities []AnonymizedEntity,
		operators map[string]OperatorConfig,
	) (*EngineResult, error)
	Deanonymizers() []OperatorDescriptor
}
