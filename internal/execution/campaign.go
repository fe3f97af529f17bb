package execution

import (
	"time"

	"dct/internal/domain"
)

// Summarize aggregates the verdicts of a campaign of total jobs into a report
func Summarize(runID string, verdicts []domain.Verdict, total int, duration time.Duration, workers int) domain.CampaignReport {
	var passed, failed int
	for _, v := range verdicts {
		if v.Passed() {
			passed++
		} else {
			failed++
		}
	}

	return domain.CampaignReport{
		Meta: domain.CampaignMeta{
			RunID:           runID,
			TotalJobs:       total,
			PassedJobs:      passed,
			FailedJobs:      failed,
			SkippedJobs:     total - len(verdicts),
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Workers:         workers,
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Verdicts: verdicts,
	}
}

// ExitCode returns 0 only when every job of the campaign produced a PASS verdict
func ExitCode(report domain.CampaignReport) int {
	if report.Meta.FailedJobs > 0 || report.Meta.SkippedJobs > 0 {
		return 1
	}
	if report.Meta.PassedJobs != report.Meta.TotalJobs {
		return 1
	}
	return 0
}
