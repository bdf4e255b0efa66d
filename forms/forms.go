// Package forms describes attribute editing forms without depending on a UI
// toolkit. Attribute modules register a Form per attribute; the editor
// binary renders the fields and feeds user input back through Set.
package forms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/milk9111/duckling/ecs"
	"github.com/milk9111/duckling/geom"
)

type Kind int

const (
	KindNumber Kind = iota + 1
	KindVector
	KindBool
	KindText
	KindChoice
	KindList
)

var (
	ErrAttributeType = errors.New("forms: attribute has unexpected type")
	ErrValueType     = errors.New("forms: value has unexpected type")
	ErrChoice        = errors.New("forms: value is not one of the options")
)

// Field edits one property of an attribute. Values are float64 for
// numbers, geom.Vector for vectors, bool, string for text and choices, and
// []string for lists.
type Field struct {
	Label   string
	Kind    Kind
	Options []string
	Get     func(attr ecs.Attribute) (any, error)
	Set     func(attr ecs.Attribute, v any) (ecs.Attribute, error)
}

// Form lists the fields of one attribute type in display order.
type Form []Field

func field[T, V any](label string, kind Kind, get func(T) V, set func(T, V) T) Field {
	return Field{
		Label: label,
		Kind:  kind,
		Get: func(attr ecs.Attribute) (any, error) {
			a, ok := attr.(T)
			if !ok {
				return nil, fmt.Errorf("%w: %T", ErrAttributeType, attr)
			}
			return get(a), nil
		},
		Set: func(attr ecs.Attribute, v any) (ecs.Attribute, error) {
			a, ok := attr.(T)
			if !ok {
				return attr, fmt.Errorf("%w: %T", ErrAttributeType, attr)
			}
			val, ok := v.(V)
			if !ok {
				return attr, fmt.Errorf("%w: %s got %T", ErrValueType, label, v)
			}
			return set(a, val), nil
		},
	}
}

func Number[T any](label string, get func(T) float64, set func(T, float64) T) Field {
	return field(label, KindNumber, get, set)
}

func Vector[T any](label string, get func(T) geom.Vector, set func(T, geom.Vector) T) Field {
	return field(label, KindVector, get, set)
}

func Bool[T any](label string, get func(T) bool, set func(T, bool) T) Field {
	return field(label, KindBool, get, set)
}

func Text[T any](label string, get func(T) string, set func(T, string) T) Field {
	return field(label, KindText, get, set)
}

func List[T any](label string, get func(T) []string, set func(T, []string) T) Field {
	return field(label, KindList, get, set)
}

// Choice is a text field restricted to options.
func Choice[T any](label string, options []string, get func(T) string, set func(T, string) T) Field {
	f := field(label, KindChoice, get, set)
	inner := f.Set
	f.Options = options
	f.Set = func(attr ecs.Attribute, v any) (ecs.Attribute, error) {
		if s, ok := v.(string); ok && !contains(options, s) {
			return attr, fmt.Errorf("%w: %q", ErrChoice, s)
		}
		return inner(attr, v)
	}
	return f
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

// Parse converts text typed into a field into the value type of kind.
// Vectors are written "x, y" and lists are comma separated.
func Parse(kind Kind, input string) (any, error) {
	input = strings.TrimSpace(input)
	switch kind {
	case KindNumber:
		return parseNumber(input)
	case KindVector:
		x, y, ok := strings.Cut(input, ",")
		if !ok {
			return nil, fmt.Errorf("forms: vector %q: want \"x, y\"", input)
		}
		fx, err := parseNumber(strings.TrimSpace(x))
		if err != nil {
			return nil, err
		}
		fy, err := parseNumber(strings.TrimSpace(y))
		if err != nil {
			return nil, err
		}
		return geom.Vec(fx, fy), nil
	case KindBool:
		return strconv.ParseBool(input)
	case KindText, KindChoice:
		return input, nil
	case KindList:
		if input == "" {
			return []string{}, nil
		}
		parts := strings.Split(input, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
	return nil, fmt.Errorf("forms: unknown field kind %d", kind)
}

// parseNumber rejects NaN and infinities; they break draw ordering and
// cannot be written to a level file.
func parseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("forms: number %q is not finite", s)
	}
	return f, nil
}

// Format renders a field value as editable text, the inverse of Parse.
func Format(v any) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case geom.Vector:
		return Format(val.X) + ", " + Format(val.Y)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	case []string:
		return strings.Join(val, ", ")
	}
	return fmt.Sprint(v)
}

// SetText parses input for f and applies it to attr.
func (f Field) SetText(attr ecs.Attribute, input string) (ecs.Attribute, error) {
	v, err := Parse(f.Kind, input)
	if err != nil {
		return attr, fmt.Errorf("forms: %s: %w", f.Label, err)
	}
	return f.Set(attr, v)
}

// Text returns the current value of f in attr as text.
func (f Field) Text(attr ecs.Attribute) (string, error) {
	v, err := f.Get(attr)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}
