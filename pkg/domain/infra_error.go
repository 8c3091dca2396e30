package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorType discriminates the variants of InfraError.
type ErrorType string

// Error types currently produced by the checkers.
const (
	ErrorTypeInvalidReference ErrorType = "invalid_reference"
	ErrorTypeOutOfRange       ErrorType = "out_of_range"
)

// ErrorDetail is the variant payload of an InfraError. The set of
// implementations is closed to this package.
type ErrorDetail interface {
	ErrorType() ErrorType
	sealed()
}

// InvalidReference reports a reference whose target does not exist.
type InvalidReference struct {
	Reference ObjectRef
}

// ErrorType implements ErrorDetail.
func (InvalidReference) ErrorType() ErrorType { return ErrorTypeInvalidReference }
func (InvalidReference) sealed()              {}

// OutOfRange reports a scalar value outside its inclusive valid range.
type OutOfRange struct {
	Position      float64
	ExpectedRange [2]float64
}

// ErrorType implements ErrorDetail.
func (OutOfRange) ErrorType() ErrorType { return ErrorTypeOutOfRange }
func (OutOfRange) sealed()              {}

// InfraError describes one violation found on a cached object.
type InfraError struct {
	ObjID     string
	ObjType   ObjectType
	Field     string
	IsWarning bool
	Detail    ErrorDetail
}

// NewInvalidReference reports that field of obj points at the missing ref.
func NewInvalidReference(obj Object, field string, ref ObjectRef) InfraError {
	return InfraError{
		ObjID:   obj.GetID(),
		ObjType: obj.GetType(),
		Field:   field,
		Detail:  InvalidReference{Reference: ref},
	}
}

// NewOutOfRange reports that field of obj holds position outside expected.
func NewOutOfRange(obj Object, field string, position float64, expected [2]float64) InfraError {
	return InfraError{
		ObjID:   obj.GetID(),
		ObjType: obj.GetType(),
		Field:   field,
		Detail:  OutOfRange{Position: position, ExpectedRange: expected},
	}
}

// Type returns the discriminator of the error, or "" when Detail is unset.
func (e InfraError) Type() ErrorType {
	if e.Detail == nil {
		return ""
	}
	return e.Detail.ErrorType()
}

// Object returns the reference of the offending object.
func (e InfraError) Object() ObjectRef {
	return NewObjectRef(e.ObjType, e.ObjID)
}

func (e InfraError) String() string {
	switch d := e.Detail.(type) {
	case InvalidReference:
		return fmt.Sprintf("%s %s: field %s references missing %s", e.ObjType, e.ObjID, e.Field, d.Reference)
	case OutOfRange:
		return fmt.Sprintf("%s %s: field %s value %g outside [%g, %g]", e.ObjType, e.ObjID, e.Field, d.Position, d.ExpectedRange[0], d.ExpectedRange[1])
	default:
		return fmt.Sprintf("%s %s: field %s", e.ObjType, e.ObjID, e.Field)
	}
}

type infraErrorJSON struct {
	ObjID         string      `json:"obj_id"`
	ObjType       ObjectType  `json:"obj_type"`
	Field         string      `json:"field"`
	IsWarning     bool        `json:"is_warning"`
	ErrorType     ErrorType   `json:"error_type"`
	Reference     *ObjectRef  `json:"reference,omitempty"`
	Position      *float64    `json:"position,omitempty"`
	ExpectedRange *[2]float64 `json:"expected_range,omitempty"`
}

// MarshalJSON flattens the header and the variant payload into one object
// tagged by error_type.
func (e InfraError) MarshalJSON() ([]byte, error) {
	out := infraErrorJSON{
		ObjID:     e.ObjID,
		ObjType:   e.ObjType,
		Field:     e.Field,
		IsWarning: e.IsWarning,
	}
	switch d := e.Detail.(type) {
	case InvalidReference:
		ref := d.Reference
		out.ErrorType = ErrorTypeInvalidReference
		out.Reference = &ref
	case OutOfRange:
		pos, rng := d.Position, d.ExpectedRange
		out.ErrorType = ErrorTypeOutOfRange
		out.Position = &pos
		out.ExpectedRange = &rng
	default:
		return nil, fmt.Errorf("infra error %s %s: missing detail", e.ObjType, e.ObjID)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat representation produced by MarshalJSON.
func (e *InfraError) UnmarshalJSON(data []byte) error {
	var in infraErrorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	decoded := InfraError{
		ObjID:     in.ObjID,
		ObjType:   in.ObjType,
		Field:     in.Field,
		IsWarning: in.IsWarning,
	}
	switch in.ErrorType {
	case ErrorTypeInvalidReference:
		if in.Reference == nil {
			return fmt.Errorf("%s error missing reference", in.ErrorType)
		}
		decoded.Detail = InvalidReference{Reference: *in.Reference}
	case ErrorTypeOutOfRange:
		if in.Position == nil || in.ExpectedRange == nil {
			return fmt.Errorf("%s error missing position or expected_range", in.ErrorType)
		}
		decoded.Detail = OutOfRange{Position: *in.Position, ExpectedRange: *in.ExpectedRange}
	default:
		return fmt.Errorf("unknown error_type %q", in.ErrorType)
	}
	*e = decoded
	return nil
}
