package validate

// FieldError one invalid parameter, nested in validation responses
type FieldError struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}

// NewFieldError create a field error
func NewFieldError(domain string, reason string) *FieldError {
	return &FieldError{domain, reason}
}

// Validator request payload validation. Struct validates tagged struct
// fields, Empty a single required value, AllEmpty a group of values of
// which at least one must be set.
type Validator interface {
	Struct(s interface{}) []*FieldError
	Empty(varName string, s interface{}) []*FieldError
	AllEmpty(names []string, fields ...interface{}) *FieldError
}
