package anonymizer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5" //nolint:gosec // supported for legacy compatibility only
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"io"
	"math"
	"strings"

	"github.com/textveil/textveil/pkg/models"
)

// operatorFunc transforms one entity's span of text. Implementations are
// pure apart from encrypt's nonce generation.
type operatorFunc func(text, entityType string, params map[string]any) (string, error)

var anonymizeOperators = map[string]operatorFunc{
	models.OperatorEncrypt: encryptOperator,
	models.OperatorHash:    hashOperator,
	models.OperatorKeep:    keepOperator,
	models.OperatorMask:    maskOperator,
	models.OperatorRedact:  redactOperator,
	models.OperatorReplace: replaceOperator,
}

var deanonymizeOperators = map[string]operatorFunc{
	models.OperatorDecrypt: decryptOperator,
}

// replaceOperator substitutes the span with new_value, falling back to
// the <ENTITY_TYPE> placeholder when no value is configured.
func replaceOperator(_, entityType string, params map[string]any) (string, error) {
	newValue, ok, err := stringParam(params, "new_value")
	if err != nil {
		return "", err
	}
	if !ok || newValue == "" {
		return "<" + entityType + ">", nil
	}
	return newValue, nil
}

func redactOperator(_, _ string, _ map[string]any) (string, error) {
	return "", nil
}

func keepOperator(text, _ string, _ map[string]any) (string, error) {
	return text, nil
}

func maskOperator(text, _ string, params map[string]any) (string, error) {
	maskingChar, ok, err := stringParam(params, "masking_char")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", models.NewInvalidParamError("invalid input, mask must contain masking_char")
	}
	if len([]rune(maskingChar)) != 1 {
		return "", models.NewInvalidParamError(
			"invalid input, masking_char must be a single character, got '%s'", maskingChar)
	}

	charsToMask, ok, err := intParam(params, "chars_to_mask")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", models.NewInvalidParamError("invalid input, mask must contain chars_to_mask")
	}
	if charsToMask < 0 {
		return "", models.NewInvalidParamError(
			"invalid input, chars_to_mask must not be negative, got %d", charsToMask)
	}

	fromEnd, _, err := boolParam(params, "from_end")
	if err != nil {
		return "", err
	}

	runes := []rune(text)
	if charsToMask > len(runes) {
		charsToMask = len(runes)
	}
	mask := strings.Repeat(maskingChar, charsToMask)
	if fromEnd {
		return string(runes[:len(runes)-charsToMask]) + mask, nil
	}
	return mask + string(runes[charsToMask:]), nil
}

func hashOperator(text, _ string, params map[string]any) (string, error) {
	hashType, ok, err := stringParam(params, "hash_type")
	if err != nil {
		return "", err
	}
	if !ok {
		hashType = "sha256"
	}

	switch hashType {
	case "sha256":
		sum := sha256.Sum256([]byte(text))
		return hex.EncodeToString(sum[:]), nil
	case "sha512":
		sum := sha512.Sum512([]byte(text))
		return hex.EncodeToString(sum[:]), nil
	case "md5":
		sum := md5.Sum([]byte(text)) //nolint:gosec
		return hex.EncodeToString(sum[:]), nil
	default:
		return "", models.NewInvalidParamError(
			"invalid input, hash_type must be sha256, sha512 or md5, got '%s'", hashType)
	}
}

// encryptOperator encrypts the span with AES-GCM. The nonce is prepended
// to the ciphertext and the whole blob is base64 encoded.
func encryptOperator(text, _ string, params map[string]any) (string, error) {
	gcm, err := aeadFromParams(params)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := gcm.Seal(nonce, nonce, []byte(text), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func decryptOperator(text, _ string, params map[string]any) (string, error) {
	gcm, err := aeadFromParams(params)
	if err != nil {
		return "", err
	}
	sealed, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return "", models.NewInvalidParamError("invalid input, text is not valid base64 ciphertext")
	}
	nonceSize := gcm.NonceSize()
	if len(sealed) < nonceSize {
		return "", models.NewInvalidParamError("invalid input, ciphertext is too short")
	}
	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", models.NewInvalidParamError("invalid input, decryption failed")
	}
	return string(plaintext), nil
}

func aeadFromParams(params map[string]any) (cipher.AEAD, error) {
	key, ok, err := stringParam(params, "key")
	if err != nil {
		return nil, err
	}
	if !ok || key == "" {
		return nil, models.NewInvalidParamError("invalid input, operator must contain key")
	}
	keyBytes := []byte(key)
	if len(keyBytes) != 16 && len(keyBytes) != 24 && len(keyBytes) != 32 {
		return nil, models.NewInvalidParamError(
			"invalid input, key must be of length 128, 192 or 256 bits")
	}
	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func stringParam(params map[string]any, name string) (string, bool, error) {
	value, ok := params[name]
	if !ok {
		return "", false, nil
	}
	s, ok := value.(string)
	if !ok {
		return "", false, models.NewInvalidParamError(
			"invalid input, %s must be a string", name)
	}
	return s, true, nil
}

func intParam(params map[string]any, name string) (int, bool, error) {
	value, ok := params[name]
	if !ok {
		return 0, false, nil
	}
	switch v := value.(type) {
	case int:
		return v, true, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, false, models.NewInvalidParamError(
				"invalid input, %s must be an integer", name)
		}
		return int(v), true, nil
	default:
		return 0, false, models.NewInvalidParamError(
			"invalid input, %s must be an integer", name)
	}
}

func boolParam(params map[string]any, name string) (bool, bool, error) {
	value, ok := params[name]
	if !ok {
		return false, false, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, false, models.NewInvalidParamError(
			"invalid input, %s must be a boolean", name)
	}
	return b, true, nil
}
