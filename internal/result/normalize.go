package result

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Normalizer converts one raw extra-field value onto the common 0..100
// scale. nil means "no usable value": the field is excluded from the
// student's extra component, it is never scored as zero.
type Normalizer interface {
	Normalize(f ExtraField, raw any) *float64
}

// defaultNormalizers routes by field type, mirroring how admin-defined
// fields carry their own type tag.
func defaultNormalizers() map[FieldType]Normalizer {
	return map[FieldType]Normalizer{
		FieldNumber:  numberNormalizer{},
		FieldBoolean: booleanNormalizer{},
		FieldText:    textNormalizer{},
	}
}

type numberNormalizer struct{}

func (numberNormalizer) Normalize(f ExtraField, raw any) *float64 {
	v, ok := toFloat(raw)
	if !ok {
		return nil
	}
	// Without a positive max the value is treated as a percentage already.
	if f.MaxPoints == nil || *f.MaxPoints <= 0 {
		return ptr(clamp100(v))
	}
	return ptr(clamp100(v / *f.MaxPoints * 100))
}

type booleanNormalizer struct{}

func (booleanNormalizer) Normalize(f ExtraField, raw any) *float64 {
	b, ok := toBool(raw)
	if !ok {
		return nil
	}
	if b {
		if f.BoolTruePoints != nil {
			return ptr(clamp100(*f.BoolTruePoints))
		}
		return ptr(100.0)
	}
	if f.BoolFalsePoints != nil {
		return ptr(clamp100(*f.BoolFalsePoints))
	}
	return ptr(0.0)
}

type textNormalizer struct{}

func (textNormalizer) Normalize(f ExtraField, raw any) *float64 {
	if raw == nil || f.TextScoreMap == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	// Exact, case-sensitive lookup; the empty string is a valid key.
	v, ok := f.TextScoreMap[s]
	if !ok {
		return nil
	}
	return ptr(clamp100(v))
}

// helpers

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, isFinite(t)
	case float32:
		return float64(t), isFinite(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil && isFinite(f)
	case string:
		// ParseFloat accepts "NaN" and "Inf"; those are not scores.
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && isFinite(f)
	default:
		return 0, false
	}
}

func toBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			return true, true
		case "false", "0", "no":
			return false, true
		default:
			// includes "": an empty entry is missing, not false
			return false, false
		}
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return false, false
		}
		return f != 0, true
	default:
		return false, false
	}
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func ptr(v float64) *float64 { return &v }
