package result

// combine blends the two component scores into the final verdict.
//
// A nil component is absent from the blend, not zero: with one side
// missing the other passes through undiluted. The extra component's
// blend weight is fixed at 1; only the exam side is configurable.
func combine(exam ExamComponent, extra ExtraComponent, st Settings) (finalScore *float64, passed *bool, failedDueToExam bool) {
	switch {
	case exam.Score == nil && extra.Score == nil:
		// nothing to evaluate
	case exam.Score == nil:
		finalScore = ptr(clamp100(*extra.Score))
	case extra.Score == nil:
		finalScore = ptr(clamp100(*exam.Score))
	default:
		w := st.ExamWeight
		if w < 0 {
			w = 0
		}
		finalScore = ptr(clamp100((*exam.Score*w + *extra.Score) / (w + 1)))
	}

	if finalScore != nil {
		p := *finalScore >= st.PassThreshold
		passed = &p
	}

	// Strict override: one failed required exam sinks the verdict no
	// matter what the blended score says. It never flips a fail to a pass.
	if st.FailOnAnyExam && passed != nil {
		for _, d := range exam.Details {
			if d.Included && d.Passed != nil && !*d.Passed {
				f := false
				passed = &f
				failedDueToExam = true
				break
			}
		}
	}
	return finalScore, passed, failedDueToExam
}
