// Package schedule enforces the placement rules of generated study blocks.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"focusos/internal/model"
)

const (
	MinBlock = 50 * time.Minute
	MaxBlock = 120 * time.Minute
)

// Window is the half-open interval blocks must fall inside.
type Window struct {
	Start time.Time
	End   time.Time
}

// Rejection records why a block was dropped.
type Rejection struct {
	Block  model.StudyBlock
	Reason string
}

type interval struct {
	start, end time.Time
}

func (a interval) overlaps(b interval) bool {
	return a.start.Before(b.end) && b.start.Before(a.end)
}

// Sanitize keeps the blocks that parse, last 50 to 120 minutes, lie inside the
// window, avoid every busy event and do not overlap each other. Blocks are
// considered in start order so the earliest of two overlapping blocks survives.
// Kept blocks are returned in start order.
func Sanitize(blocks []model.StudyBlock, busy []*model.CalendarEvent, window Window) ([]model.StudyBlock, []Rejection) {
	type candidate struct {
		block model.StudyBlock
		span  interval
	}

	var rejected []Rejection
	candidates := make([]candidate, 0, len(blocks))
	for _, b := range blocks {
		start, end, err := b.Interval()
		if err != nil {
			rejected = append(rejected, Rejection{Block: b, Reason: err.Error()})
			continue
		}
		if reason := checkShape(start, end, window); reason != "" {
			rejected = append(rejected, Rejection{Block: b, Reason: reason})
			continue
		}
		candidates = append(candidates, candidate{block: b, span: interval{start, end}})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].span.start.Before(candidates[j].span.start)
	})

	kept := make([]model.StudyBlock, 0, len(candidates))
	var taken []interval
next:
	for _, c := range candidates {
		for _, e := range busy {
			if e.Overlaps(c.span.start, c.span.end) {
				rejected = append(rejected, Rejection{Block: c.block, Reason: fmt.Sprintf("overlaps calendar event %q", e.Title)})
				continue next
			}
		}
		for _, t := range taken {
			if c.span.overlaps(t) {
				rejected = append(rejected, Rejection{Block: c.block, Reason: "overlaps an earlier study block"})
				continue next
			}
		}
		taken = append(taken, c.span)
		kept = append(kept, c.block)
	}
	return kept, rejected
}

func checkShape(start, end time.Time, window Window) string {
	if !start.Before(end) {
		return "start is not before end"
	}
	d := end.Sub(start)
	if d < MinBlock || d > MaxBlock {
		return fmt.Sprintf("duration %s outside %s-%s", d, MinBlock, MaxBlock)
	}
	if start.Before(window.Start) || end.After(window.End) {
		return "outside the planning window"
	}
	return ""
}
