package result

import "sort"

// computeExtraComponent applies per-field weights to normalized scores.
// Fields whose normalization yields nil are left out of both the
// weighted sum and the total weight, so a missing value changes the
// denominator instead of dragging the average down.
func computeExtraComponent(fields []ExtraField, valuesByKey map[string]any, normalizers map[FieldType]Normalizer) ExtraComponent {
	ordered := make([]ExtraField, 0, len(fields))
	for _, f := range fields {
		if f.IncludeInPass {
			ordered = append(ordered, f)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Key < ordered[j].Key })

	comp := ExtraComponent{Details: []FieldDetail{}}
	weightedSum := 0.0

	for _, f := range ordered {
		n, ok := normalizers[f.Type]
		if !ok {
			continue
		}
		raw, has := valuesByKey[f.Key]
		if !has {
			continue
		}
		norm := n.Normalize(f, raw)
		if norm == nil {
			continue
		}
		// Save-time validation rejects negative weights; rows written
		// before that rule still must not poison a roster run.
		if f.PassWeight < 0 {
			f.PassWeight = 0
		}
		contribution := *norm * f.PassWeight
		comp.Details = append(comp.Details, FieldDetail{
			FieldKey:             f.Key,
			FieldLabel:           f.Label,
			RawValue:             raw,
			NormalizedScore:      *norm,
			Weight:               f.PassWeight,
			WeightedContribution: contribution,
		})
		comp.TotalWeight += f.PassWeight
		weightedSum += contribution
	}

	if comp.TotalWeight > 0 {
		comp.Score = ptr(clamp100(weightedSum / comp.TotalWeight))
	}
	return comp
}
