package models

// Supported operator kinds. OperatorCustom is recognized by the
// translator but is never accepted on the wire: it would require an
// in-process callable that cannot be supplied over HTTP.
const (
	OperatorCustom  = "custom"
	OperatorDecrypt = "decrypt"
	OperatorEncrypt = "encrypt"
	OperatorHash    = "hash"
	OperatorKeep    = "keep"
	OperatorMask    = "mask"
	OperatorRedact  = "redact"
	OperatorReplace = "replace"
)

var anonymizerKinds = []OperatorDescriptor{
	{Name: OperatorCustom, Description: "Replace the text with the result of an in-process callable"},
	{Name: OperatorEncrypt, Description: "Encrypt the text with a given cryptographic key"},
	{Name: OperatorHash, Description: "Replace the text with a one-way hash of its contents"},
	{Name: OperatorKeep, Description: "Keep the text unchanged while reporting the span"},
	{Name: OperatorMask, Description: "Replace part of the text with a masking character"},
	{Name: OperatorRedact, Description: "Remove the text entirely"},
	{Name: OperatorReplace, Description: "Replace the text with a given value"},
}

var deanonymizerKinds = []OperatorDescriptor{
	{Name: OperatorDecrypt, Description: "Decrypt text previously encrypted with a given cryptographic key"},
}

// AnonymizerKinds returns the descriptors of every operator kind the
// anonymize path recognizes, in a stable order.
func AnonymizerKinds() []OperatorDescriptor {
	kinds := make([]OperatorDescriptor, len(anonymizerKinds))
	copy(kinds, anonymizerKinds)
	return kinds
}

// DeanonymizerKinds returns the descriptors of every operator kind the
// deanonymize path recognizes, in a stable order.
func DeanonymizerKinds() []OperatorDescriptor {
	kinds := make([]OperatorDescriptor, len(deanonymizerKinds))
	copy(kinds, deanonymizerKinds)
	return kinds
}

// IsAnonymizerKind reports whether name is a recognized anonymizer
// operator kind.
func IsAnonymizerKind(name string) bool {
	for _, kind := range anonymizerKinds {
		if kind.Name == name {
			return true
		}
	}
	return false
}

// IsDeanonymizerKind reports whether name is a recognized deanonymizer
// operator kind.
func IsDeanonymizerKind(name string) bool {
	for _, kind := range deanonymizerKinds {
		if kind.Name == name {
			return true
		}
	}
	return false
}
