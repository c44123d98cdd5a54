package calc

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// dueLayouts are tried in order when parsing a due date
var dueLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006/01/02",
	"01-02-2006",
}

// task is one Task Record
type task struct {
	name string
	time float64
	due  *time.Time
}

// parseDue returns nil for empty or unparseable dates
func parseDue(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseTasks(lines []string) []task {
	tasks := make([]task, 0, len(lines))
	for _, line := range lines {
		parts := splitFields(line)
		if len(parts) < 2 {
			continue
		}
		t := task{name: parts[0], time: numberOrZero(parts[1])}
		if len(parts) > 2 {
			t.due = parseDue(parts[2])
		}
		tasks = append(tasks, t)
	}
	return tasks
}

// sequenceStats summarises one ordering
type sequenceStats struct {
	meanCompletion float64
	meanWaiting    float64
	makespan       float64
}

// schedule runs the tasks back-to-back from time 0 in the given order
func schedule(tasks []task) ([]Row, sequenceStats) {
	rows := make([]Row, 0, len(tasks))
	var stats sequenceStats
	var clock, sumCompletion, sumWaiting float64
	for i, t := range tasks {
		start := clock
		completion := start + t.time
		clock = completion
		sumCompletion += completion
		sumWaiting += start

		due := Placeholder
		if t.due != nil {
			due = t.due.UTC().Format("2006-01-02")
		}
		rows = append(rows, Row{i + 1, t.name, t.time, start, completion, start, completion, due, Placeholder})
	}
	if n := float64(len(tasks)); n > 0 {
		stats.meanCompletion = sumCompletion / n
		stats.meanWaiting = sumWaiting / n
	}
	stats.makespan = clock
	return rows, stats
}

func bySPT(tasks []task) []task {
	out := append([]task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].time < out[j].time })
	return out
}

// byEDD orders by due date; undated tasks follow every dated one
func byEDD(tasks []task) []task {
	out := append([]task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].due, out[j].due
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return out
}

// JobSequencing compares the FCFS, SPT and EDD orderings of a single-machine
// job set.
//
// Row format: "Alternative, processingTime, [dueDate]". The primary table is
// the FCFS sequence; all three orderings are attached as sections.
func JobSequencing(lines []string) *Result {
	tasks := parseTasks(lines)

	orderings := []struct {
		name  string
		label string
		tasks []task
	}{
		{"fcfs", "FCFS", tasks},
		{"spt", "SPT", bySPT(tasks)},
		{"edd", "EDD", byEDD(tasks)},
	}

	headers := []string{"#", "Alternative", "ProcTime", "Start", "Completion", "Waiting", "Turnaround", "Due", "Lateness"}
	steps := []string{
		"FCFS keeps the input order, SPT sorts by processing time ascending, EDD sorts by due date ascending with undated jobs last.",
		"All jobs arrive at time 0 and run back-to-back: start = previous completion, waiting = start, turnaround = completion.",
	}

	res := &Result{Calculator: NameJSM, Headers: headers}
	for _, o := range orderings {
		rows, stats := schedule(o.tasks)
		if o.name == "fcfs" {
			res.Rows = rows
		}
		res.Sections = append(res.Sections, Section{Name: o.name, Headers: headers, Rows: rows})
		steps = append(steps, fmt.Sprintf("%s: mean completion %s, mean waiting %s, makespan %s.",
			o.label,
			formatFixed(stats.meanCompletion, ForecastPrecision),
			formatFixed(stats.meanWaiting, ForecastPrecision),
			formatNumber(stats.makespan)))
	}
	res.Steps = steps
	return res
}
