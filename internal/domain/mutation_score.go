package domain

import (
	m "gomu.dev/pkg/gomu/internal/model"
	pkg "gomu.dev/pkg/gomu/pkg"
)

// mutationScoreFromVerdicts computes killed / (killed + survived). Unreached
// and errored mutations stay out of the denominator: they say nothing about
// test quality, only about reachability or harness health.
func mutationScoreFromVerdicts(verdicts pkg.FileSpill[m.Verdict]) (float64, error) {
	killed := 0
	total := 0

	err := verdicts.Range(func(_ uint64, verdict m.Verdict) error {
		switch verdict.Status {
		case m.Killed:
			killed++
			total++
		case m.Survived:
			total++
		case m.Unreached, m.Errored:
		}

		return nil
	})
	if err != nil {
		return 0.0, err
	}

	if total == 0 {
		return 1.0, nil
	}

	return float64(killed) / float64(total), nil
}
