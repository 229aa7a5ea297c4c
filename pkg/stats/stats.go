package stats

import (
	"fmt"
	"math"
	"time"
)

// EstimatedPerEmail is the per-folder time used for run estimates.
const EstimatedPerEmail = 3 * time.Second

// Report is the summary of a completed run.
type Report struct {
	StartedAt          time.Time `json:"startedAt"`
	FinishedAt         time.Time `json:"finishedAt"`
	TotalTimeSeconds   int64     `json:"totalTime"`
	TotalEmails        int       `json:"totalEmails"`
	Processed          int       `json:"processed"`
	Errors             int       `json:"errors"`
	SuccessRatePercent float64   `json:"successRate"`
}

// Summarize builds a Report. The total time is floored to whole seconds and
// the success rate is (processed-errors)/totalFolders*100, or 0 when there
// are no folders.
func Summarize(startedAt, finishedAt time.Time, totalFolders, processed, errorCount int) Report {
	r := Report{
		StartedAt:        startedAt,
		FinishedAt:       finishedAt,
		TotalTimeSeconds: int64(math.Floor(finishedAt.Sub(startedAt).Seconds())),
		TotalEmails:      totalFolders,
		Processed:        processed,
		Errors:           errorCount,
	}
	if r.TotalTimeSeconds < 0 {
		r.TotalTimeSeconds = 0
	}
	if totalFolders > 0 {
		r.SuccessRatePercent = float64(processed-errorCount) / float64(totalFolders) * 100
	}
	return r
}

// Succeeded returns the number of folders sent without error.
func (r Report) Succeeded() int {
	return r.Processed - r.Errors
}

// Duration formats the total time as m:ss.
func (r Report) Duration() string {
	return FormatSeconds(r.TotalTimeSeconds)
}

// FormatSeconds formats s as m:ss.
func FormatSeconds(s int64) string {
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// Progress returns processed/total as a rounded percentage.
func Progress(processed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(processed) / float64(total) * 100))
}

// Estimate returns the expected duration of a run over n folders.
func Estimate(n int) time.Duration {
	return time.Duration(n) * EstimatedPerEmail
}
