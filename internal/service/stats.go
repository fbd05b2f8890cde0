package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/habimori/habimori/internal/aggregate"
	"github.com/habimori/habimori/internal/model"
	"github.com/habimori/habimori/internal/period"
	"github.com/habimori/habimori/internal/repository"
)

// maxBuckets bounds how many chart buckets a range collapses into before
// granularity escalates.
const maxBuckets = 10

const bucketLabelFormat = "02.01"

// DayTotal is one day's tracked total with an optional per-category
// breakdown (category is the context name).
type DayTotal struct {
	Day        time.Time
	Total      float64
	ByCategory map[string]float64
}

// Bucket is one chart bar: a day, a run of days within a week, or a month.
type Bucket struct {
	Label      string         `json:"label"`
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category,omitempty"`
}

// StatsService derives chart series from raw time entries.
type StatsService struct {
	timeRepo    repository.TimeEntryRepository
	contextRepo repository.ContextRepository
}

func NewStatsService(timeRepo repository.TimeEntryRepository, contextRepo repository.ContextRepository) *StatsService {
	return &StatsService{
		timeRepo:    timeRepo,
		contextRepo: contextRepo,
	}
}

// Range returns bucketed tracked minutes per day over [from, to], broken
// down by context.
func (s *StatsService) Range(userID string, from, to time.Time, now time.Time) ([]Bucket, error) {
	totals, err := s.DayTotals(userID, from, to, now)
	if err != nil {
		return nil, err
	}
	return GroupItems(totals), nil
}

// DayTotals computes tracked minutes for every day in [from, to]. Running
// entries contribute elapsed time up to now; this is a display path, never
// persisted.
func (s *StatsService) DayTotals(userID string, from, to time.Time, now time.Time) ([]DayTotal, error) {
	from = period.Midnight(from)
	end := period.Midnight(to).AddDate(0, 0, 1)

	entries, err := s.timeRepo.ForUserWindow(userID, from, end)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time entries: %w", err)
	}

	contexts, err := s.contextRepo.Contexts(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contexts: %w", err)
	}
	names := make(map[string]string, len(contexts))
	for _, c := range contexts {
		names[c.ID] = c.Name
	}

	byContext := make(map[string][]*model.TimeEntry)
	for _, e := range entries {
		byContext[e.ContextID] = append(byContext[e.ContextID], e)
	}

	var totals []DayTotal
	for day := from; day.Before(end); day = day.AddDate(0, 0, 1) {
		dt := DayTotal{Day: day, ByCategory: make(map[string]float64)}
		next := day.AddDate(0, 0, 1)
		for contextID, group := range byContext {
			minutes := aggregate.TimeActualLive(group, day, next, now).Minutes()
			if minutes == 0 {
				continue
			}
			name := names[contextID]
			if name == "" {
				name = contextID
			}
			dt.ByCategory[name] += minutes
			dt.Total += minutes
		}
		totals = append(totals, dt)
	}

	return totals, nil
}

// GroupItems buckets per-day totals for charting. Zero-total days are
// dropped, then days group per calendar day; above maxBuckets the grouping
// escalates to ISO weeks, then to months, and as a last resort truncates to
// the first maxBuckets buckets.
func GroupItems(days []DayTotal) []Bucket {
	nonZero := make([]DayTotal, 0, len(days))
	for _, d := range days {
		if d.Total != 0 {
			nonZero = append(nonZero, d)
		}
	}
	if len(nonZero) == 0 {
		return []Bucket{}
	}
	sort.Slice(nonZero, func(i, j int) bool { return nonZero[i].Day.Before(nonZero[j].Day) })

	buckets := groupByKey(nonZero, func(d time.Time) string {
		return d.Format(period.DateFormat)
	})
	if len(buckets) > maxBuckets {
		buckets = groupByKey(nonZero, func(d time.Time) string {
			// ISO weeks start Monday; key by the week's Monday.
			diff := (int(d.Weekday()) + 6) % 7
			return d.AddDate(0, 0, -diff).Format(period.DateFormat)
		})
	}
	if len(buckets) > maxBuckets {
		buckets = groupByKey(nonZero, func(d time.Time) string {
			return d.Format("2006-01")
		})
	}
	if len(buckets) > maxBuckets {
		buckets = buckets[:maxBuckets]
	}

	return buckets
}

func groupByKey(days []DayTotal, keyFn func(time.Time) string) []Bucket {
	var buckets []Bucket
	var first, last time.Time
	var total float64
	var byCategory map[string]float64
	currentKey := ""

	flush := func() {
		if byCategory == nil {
			return
		}
		buckets = append(buckets, finishBucket(first, last, total, byCategory))
	}

	for _, d := range days {
		key := keyFn(d.Day)
		if key != currentKey {
			flush()
			currentKey = key
			first = d.Day
			total = 0
			byCategory = make(map[string]float64)
		}
		last = d.Day
		total += d.Total
		for cat, v := range d.ByCategory {
			byCategory[cat] += v
		}
	}
	flush()

	return buckets
}

func finishBucket(first, last time.Time, total float64, byCategory map[string]float64) Bucket {
	label := first.Format(bucketLabelFormat)
	if !last.Equal(first) {
		label += "-" + last.Format(bucketLabelFormat)
	}

	rounded := make(map[string]int, len(byCategory))
	for cat, v := range byCategory {
		rounded[cat] = int(math.Round(v))
	}

	return Bucket{
		Label:      label,
		Total:      int(math.Round(total)),
		ByCategory: rounded,
	}
}
