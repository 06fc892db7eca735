package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hzerrad/chronowheel/internal/cronx"
)

// TimelineView represents the type of timeline view
type TimelineView int

const (
	// DayView shows 24 hours
	DayView TimelineView = iota
	// HourView shows 60 minutes
	HourView
)

// String returns the string representation of TimelineView
func (v TimelineView) String() string {
	switch v {
	case DayView:
		return "day"
	case HourView:
		return "hour"
	default:
		return "unknown"
	}
}

// JobRun represents a single job execution at a specific time
type JobRun struct {
	JobID   string
	RunTime time.Time
}

// Overlap represents multiple jobs running at the same time
type Overlap struct {
	Time   time.Time
	Count  int
	JobIDs []string
}

// JobInfo contains metadata about a job
type JobInfo struct {
	Expression  string
	Description string
}

// Timeline represents a timeline with time slots and job runs
type Timeline struct {
	view      TimelineView
	startTime time.Time
	endTime   time.Time
	width     int
	jobRuns   []JobRun
	jobInfo   map[string]JobInfo
	slots     []time.Time
}

// NewTimeline creates a new timeline with the specified view, start time, and width
func NewTimeline(view TimelineView, startTime time.Time, width int) *Timeline {
	var endTime time.Time
	var slots []time.Time

	switch view {
	case DayView:
		endTime = startTime.Add(24 * time.Hour)
		// Create slots for each hour in a day (24 slots)
		slots = make([]time.Time, 24)
		for i := 0; i < 24; i++ {
			slots[i] = startTime.Add(time.Duration(i) * time.Hour)
		}
	case HourView:
		endTime = startTime.Add(time.Hour)
		// Create slots for each minute in an hour (60 slots)
		slots = make([]time.Time, 60)
		for i := 0; i < 60; i++ {
			slots[i] = startTime.Add(time.Duration(i) * time.Minute)
		}
	}

	return &Timeline{
		view:      view,
		startTime: startTime,
		endTime:   endTime,
		width:     width,
		jobRuns:   make([]JobRun, 0),
		jobInfo:   make(map[string]JobInfo),
		slots:     slots,
	}
}

// AddJobRun adds a job run to the timeline if it falls within the timeline range
func (tl *Timeline) AddJobRun(jobID string, runTime time.Time) {
	if runTime.Before(tl.startTime) || !runTime.Before(tl.endTime) {
		return
	}

	tl.jobRuns = append(tl.jobRuns, JobRun{
		JobID:   jobID,
		RunTime: runTime,
	})
}

// SetJobInfo sets metadata for a job
func (tl *Timeline) SetJobInfo(jobID, expression, description string) {
	tl.jobInfo[jobID] = JobInfo{
		Expression:  expression,
		Description: description,
	}
}

// AddRunsFromExpression walks a parsed spec-accurate cron expression forward
// from the timeline's start time with its own NextValidAfter search, adding
// every run that lands inside the timeline window. This drives the timeline
// off the same engine the wheel scheduler uses to arm jobs (cronx.CronExpression),
// rather than the legacy field-by-field Schedule/Scheduler pair, so a job that
// fires on the wheel fires at the same instants here. limit caps how many
// candidate fire times are walked, guarding against expressions that never
// reach the window (already exhausted, or too sparse) looping forever.
func (tl *Timeline) AddRunsFromExpression(jobID string, expr *cronx.CronExpression, limit int) {
	cursor := tl.startTime
	for i := 0; i < limit; i++ {
		next, ok := expr.NextValidAfter(cursor)
		if !ok || !next.Before(tl.endTime) {
			return
		}
		tl.AddJobRun(jobID, next)
		cursor = next
	}
}

// DetectOverlaps finds times where multiple jobs run simultaneously
func (tl *Timeline) DetectOverlaps() []Overlap {
	// Group runs by time
	timeGroups := make(map[time.Time][]string)
	for _, run := range tl.jobRuns {
		// Truncate to the minute for overlap detection
		rounded := run.RunTime.Truncate(time.Minute)
		timeGroups[rounded] = append(timeGroups[rounded], run.JobID)
	}

	overlaps := make([]Overlap, 0)
	for t, jobIDs := range timeGroups {
		if len(jobIDs) > 1 {
			// Remove duplicates
			uniqueJobs := make(map[string]bool)
			uniqueList := make([]string, 0)
			for _, id := range jobIDs {
				if !uniqueJobs[id] {
					uniqueJobs[id] = true
					uniqueList = append(uniqueList, id)
				}
			}

			overlaps = append(overlaps, Overlap{
				Time:   t,
				Count:  len(uniqueList),
				JobIDs: uniqueList,
			})
		}
	}

	// Sort by time
	sort.Slice(overlaps, func(i, j int) bool {
		return overlaps[i].Time.Before(overlaps[j].Time)
	})

	return overlaps
}

// getDensityChar picks a shading character for a slot based on how full it
// is relative to the busiest slot on the timeline: a slot running at or
// above 80% of the max concurrent job count gets a full block, tapering
// down to a dot for a lightly loaded slot. maxOverlaps <= 0 (nothing has
// been drawn yet) defaults to a full block rather than dividing by zero.
func getDensityChar(count, maxOverlaps int) string {
	if maxOverlaps <= 0 {
		return "█"
	}
	ratio := float64(count) / float64(maxOverlaps)
	switch {
	case ratio >= 0.8:
		return "█"
	case ratio >= 0.6:
		return "▓"
	case ratio >= 0.4:
		return "▒"
	case ratio >= 0.2:
		return "░"
	default:
		return "·"
	}
}

// Render generates an ASCII timeline string, one density-shaded bar per
// slot scaled to the terminal width. When showOverlaps is true, an overlap
// summary (capped at the first 50 windows in time order) is appended after
// the job list.
func (tl *Timeline) Render(showOverlaps bool) string {
	var sb strings.Builder

	displayEnd := tl.endTime.Add(-time.Minute)
	if tl.view == DayView {
		sb.WriteString(fmt.Sprintf("Timeline for %s (Day View)\n", tl.startTime.Format("2006-01-02")))
	} else {
		sb.WriteString(fmt.Sprintf("Timeline for %s (Hour View)\n", tl.startTime.Format("2006-01-02 15:04")))
	}
	sb.WriteString(fmt.Sprintf("%s ── %s\n", tl.startTime.Format("15:04"), displayEnd.Format("15:04")))

	// Group runs by slot
	slotRuns := make(map[int][]string) // slot index -> job IDs
	for _, run := range tl.jobRuns {
		slotIdx := tl.findSlotIndex(run.RunTime)
		if slotIdx >= 0 && slotIdx < len(tl.slots) {
			slotRuns[slotIdx] = append(slotRuns[slotIdx], run.JobID)
		}
	}

	maxOverlaps := 0
	for _, jobIDs := range slotRuns {
		if n := len(uniqueStrings(jobIDs)); n > maxOverlaps {
			maxOverlaps = n
		}
	}

	slotCount := len(tl.slots)
	availableWidth := tl.width - 8 // left margin + borders
	if availableWidth < slotCount {
		availableWidth = slotCount // never shrink below one column per slot
	}
	slotWidth := availableWidth / slotCount
	if slotWidth < 1 {
		slotWidth = 1
	}
	usedWidth := slotWidth * slotCount

	sb.WriteString("      │" + strings.Repeat(" ", usedWidth) + "│\n")

	sb.WriteString("      │")
	for i := 0; i < slotCount; i++ {
		char := " "
		if jobIDs, hasRuns := slotRuns[i]; hasRuns {
			char = getDensityChar(len(uniqueStrings(jobIDs)), maxOverlaps)
		}
		sb.WriteString(strings.Repeat(char, slotWidth))
	}
	sb.WriteString("│\n")

	sb.WriteString("      │" + strings.Repeat(" ", usedWidth) + "│\n")
	sb.WriteString("      └" + strings.Repeat("─", usedWidth) + "┘\n")

	// List jobs
	jobIDsSeen := make(map[string]bool)
	for _, run := range tl.jobRuns {
		if !jobIDsSeen[run.JobID] {
			jobIDsSeen[run.JobID] = true
			info, hasInfo := tl.jobInfo[run.JobID]
			if hasInfo {
				sb.WriteString(fmt.Sprintf("      %s: %s\n", run.JobID, info.Description))
			} else {
				sb.WriteString(fmt.Sprintf("      %s\n", run.JobID))
			}
		}
	}

	sb.WriteString("\n      Legend: █ 80%+  ▓ 60%+  ▒ 40%+  ░ 20%+  · <20% of the busiest slot\n")

	if showOverlaps {
		overlaps := tl.DetectOverlaps()
		if len(overlaps) > 0 {
			sb.WriteString("\n      Overlap Summary:\n")
			shown := overlaps
			truncated := len(overlaps) > 50
			if truncated {
				shown = overlaps[:50]
			}
			for _, o := range shown {
				sb.WriteString(fmt.Sprintf("      %s: %d jobs (%s)\n",
					o.Time.Format("15:04"), o.Count, strings.Join(o.JobIDs, ", ")))
			}
			if truncated {
				sb.WriteString(fmt.Sprintf("      (showing first 50 of %d, and %d more overlap window(s))\n",
					len(overlaps), len(overlaps)-50))
			}
		}
	}

	return sb.String()
}

// OverlapStat is a single entry in a Timeline's busiest-windows ranking.
type OverlapStat struct {
	Time   time.Time
	Count  int
	JobIDs []string
}

// OverlapStats summarizes the timeline's overlapping windows: how many
// exist, the highest concurrent job count seen in any of them, and the
// ten busiest, ranked by job count (ties broken by earliest time).
type OverlapStats struct {
	TotalWindows    int
	MaxConcurrent   int
	MostProblematic []OverlapStat
}

// GetOverlapStats summarizes DetectOverlaps into ranked, bounded form
// suitable for a budget-style report.
func (tl *Timeline) GetOverlapStats() OverlapStats {
	overlaps := tl.DetectOverlaps()
	if len(overlaps) == 0 {
		return OverlapStats{}
	}

	stats := OverlapStats{TotalWindows: len(overlaps)}
	for _, o := range overlaps {
		if o.Count > stats.MaxConcurrent {
			stats.MaxConcurrent = o.Count
		}
	}

	ranked := make([]Overlap, len(overlaps))
	copy(ranked, overlaps)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Time.Before(ranked[j].Time)
	})

	limit := len(ranked)
	if limit > 10 {
		limit = 10
	}
	for _, o := range ranked[:limit] {
		stats.MostProblematic = append(stats.MostProblematic, OverlapStat{
			Time:   o.Time,
			Count:  o.Count,
			JobIDs: o.JobIDs,
		})
	}
	return stats
}

// RenderJSON generates a JSON representation of the timeline
func (tl *Timeline) RenderJSON() map[string]interface{} {
	// Group runs by job ID
	jobRunsMap := make(map[string][]time.Time)
	for _, run := range tl.jobRuns {
		jobRunsMap[run.JobID] = append(jobRunsMap[run.JobID], run.RunTime)
	}

	// Build jobs array
	jobs := make([]map[string]interface{}, 0)
	for jobID, runTimes := range jobRunsMap {
		// Sort run times
		sort.Slice(runTimes, func(i, j int) bool {
			return runTimes[i].Before(runTimes[j])
		})

		jobData := map[string]interface{}{
			"id":   jobID,
			"runs": make([]map[string]interface{}, 0),
		}

		// Add job info if available
		if info, hasInfo := tl.jobInfo[jobID]; hasInfo {
			jobData["expression"] = info.Expression
			jobData["description"] = info.Description
		}

		// Add runs
		overlaps := tl.DetectOverlaps()
		overlapMap := make(map[time.Time]int)
		for _, overlap := range overlaps {
			overlapMap[overlap.Time.Truncate(time.Minute)] = overlap.Count
		}

		for _, runTime := range runTimes {
			overlapCount := 0
			if count, hasOverlap := overlapMap[runTime.Truncate(time.Minute)]; hasOverlap {
				overlapCount = count - 1 // Subtract 1 because the job itself is included
			}

			jobData["runs"] = append(jobData["runs"].([]map[string]interface{}), map[string]interface{}{
				"time":     runTime.Format(time.RFC3339),
				"overlaps": overlapCount,
			})
		}

		jobs = append(jobs, jobData)
	}

	// Build overlaps array
	overlaps := tl.DetectOverlaps()
	overlapsJSON := make([]map[string]interface{}, 0, len(overlaps))
	for _, overlap := range overlaps {
		overlapsJSON = append(overlapsJSON, map[string]interface{}{
			"time":  overlap.Time.Format(time.RFC3339),
			"count": overlap.Count,
			"jobs":  overlap.JobIDs,
		})
	}

	overlapStats := tl.GetOverlapStats()
	mostProblematic := make([]map[string]interface{}, 0, len(overlapStats.MostProblematic))
	for _, o := range overlapStats.MostProblematic {
		mostProblematic = append(mostProblematic, map[string]interface{}{
			"time":  o.Time.Format(time.RFC3339),
			"count": o.Count,
			"jobs":  o.JobIDs,
		})
	}

	return map[string]interface{}{
		"view":      tl.view.String(),
		"startTime": tl.startTime.Format(time.RFC3339),
		"endTime":   tl.endTime.Format(time.RFC3339),
		"width":     tl.width,
		"jobs":      jobs,
		"overlaps":  overlapsJSON,
		"overlapStats": map[string]interface{}{
			"totalWindows":    overlapStats.TotalWindows,
			"maxConcurrent":   overlapStats.MaxConcurrent,
			"mostProblematic": mostProblematic,
		},
	}
}

// findSlotIndex finds the slot index for a given time
func (tl *Timeline) findSlotIndex(t time.Time) int {
	if t.Before(tl.startTime) || !t.Before(tl.endTime) {
		return -1
	}

	switch tl.view {
	case DayView:
		// Find which hour slot
		hours := int(t.Sub(tl.startTime).Hours())
		if hours >= 0 && hours < 24 {
			return hours
		}
	case HourView:
		// Find which minute slot
		minutes := int(t.Sub(tl.startTime).Minutes())
		if minutes >= 0 && minutes < 60 {
			return minutes
		}
	}

	return -1
}

// uniqueStrings returns unique strings from a slice
func uniqueStrings(strs []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)
	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}
