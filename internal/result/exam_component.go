package result

import "sort"

// computeExamComponent reduces a student's attempts across all
// configured exams to one component score plus per-exam audit rows.
//
// Attempt collapsing: when a student has several attempts on the same
// exam, the maximum attempt percentage (under the configured score
// source, with per-attempt fallback to the raw score) counts. Exams
// with no attempt at all are excluded from the aggregate, not scored
// as zero.
func computeExamComponent(exams []ExamConfig, attemptsByExam map[string][]AttemptScore, st Settings) ExamComponent {
	ordered := make([]ExamConfig, len(exams))
	copy(ordered, exams)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].OrderIndex < ordered[j].OrderIndex })

	comp := ExamComponent{Details: make([]ExamDetail, 0, len(ordered))}
	var scores []float64

	for _, ex := range ordered {
		det := ExamDetail{
			ExamID:        ex.ID,
			ExamTitle:     ex.Title,
			PassThreshold: ex.PassThreshold,
		}
		if !ex.IncludeInPass {
			comp.Details = append(comp.Details, det)
			continue
		}
		comp.ExamsTotal++

		score := bestAttemptScore(attemptsByExam[ex.ID], st.ScoreSource)
		if score == nil {
			// No attempt recorded: the exam drops out of the aggregate.
			comp.Details = append(comp.Details, det)
			continue
		}
		det.Included = true
		det.Score = ptr(clamp100(*score))
		if ex.PassThreshold != nil {
			p := *det.Score >= *ex.PassThreshold
			det.Passed = &p
			if p {
				comp.ExamsPassed++
			}
		}
		comp.ExamsIncluded++
		scores = append(scores, *det.Score)
		comp.Details = append(comp.Details, det)
	}

	if len(scores) > 0 {
		switch st.CalcMode {
		case CalcAvg:
			sum := 0.0
			for _, s := range scores {
				sum += s
			}
			comp.Score = ptr(sum / float64(len(scores)))
		default: // best
			max := scores[0]
			for _, s := range scores[1:] {
				if s > max {
					max = s
				}
			}
			comp.Score = ptr(max)
		}
	}
	return comp
}

// bestAttemptScore picks the highest effective percentage among a
// student's attempts on one exam, or nil when there are none.
func bestAttemptScore(attempts []AttemptScore, src ScoreSource) *float64 {
	var best *float64
	for _, a := range attempts {
		v := a.Score
		if src == SourceFinal && a.FinalScore != nil {
			v = *a.FinalScore
		}
		if best == nil || v > *best {
			best = ptr(v)
		}
	}
	return best
}
