package logger

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldAccountID = "account_id"
	FieldEmail     = "email"
	FieldProvider  = "provider"
	FieldPolicy    = "policy"
	FieldKind      = "kind"
	FieldError     = "error"
)

// Fields builds a map from alternating key-value pairs.
//
//	log.Info("rotated", logger.Fields(logger.FieldAccountID, id))
func Fields(kvs ...any) map[string]any {
	m := make(map[string]any, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]any {
	return map[string]any{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// Mask redacts all but the first four characters of a value. Intended for
// identifiers that help correlation; never log full token values, even masked
// ones of short length.
func Mask(value string) string {
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "****"
}
