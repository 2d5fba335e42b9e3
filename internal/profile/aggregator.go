// internal/profile/aggregator.go
package profile

import (
	"sort"

	"github.com/davenull7x/listforge/internal/schema"
)

// Aggregator accumulates field occurrences across every site of one analysis
// run. It is an owned value threaded through the run, never process-wide
// state, and is flushed exactly once via Report.
type Aggregator struct {
	entries map[string]*fieldEntry
	total   int
	success int
}

type fieldEntry struct {
	count int
	sites []string
}

func NewAggregator() *Aggregator {
	return &Aggregator{entries: make(map[string]*fieldEntry)}
}

// ObserveSite records one successfully analyzed site. Every field of every
// extracted form counts; duplicates per key per site are not suppressed, so
// a site with two email-like fields counts twice.
func (a *Aggregator) ObserveSite(name string, forms []schema.ExtractedForm) {
	a.total++
	a.success++
	for _, form := range forms {
		for _, d := range form.Fields {
			if !fillable(d) {
				continue
			}
			key := MappingKey(d)
			e := a.entries[key]
			if e == nil {
				e = &fieldEntry{}
				a.entries[key] = e
			}
			e.count++
			e.sites = append(e.sites, name)
		}
	}
}

// ObserveFailure records a site whose analysis did not complete.
func (a *Aggregator) ObserveFailure(name string) {
	a.total++
}

// TotalSites returns the number of sites observed so far.
func (a *Aggregator) TotalSites() int { return a.total }

// Report flushes the accumulator into the persisted statistics shape, ranked
// by occurrence count (ties broken by key for a stable order).
//
// Frequency is count ÷ len(sites) × 100. Because sites gains one entry per
// counted occurrence, the ratio is always 100, a degenerate statistic kept
// for compatibility with recorded data. TotalSites is persisted alongside so
// the per-run share can be derived without rewriting history.
func (a *Aggregator) Report(perSite map[string]schema.PageExtraction) schema.FieldStatsReport {
	stats := make([]schema.FieldStat, 0, len(a.entries))
	for key, e := range a.entries {
		stats = append(stats, schema.FieldStat{
			Key:       key,
			Count:     e.count,
			Sites:     e.sites,
			Frequency: float64(e.count) / float64(len(e.sites)) * 100,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Key < stats[j].Key
	})

	return schema.FieldStatsReport{
		TotalSites:         a.total,
		SuccessfulAnalysis: a.success,
		FieldRequirements:  stats,
		PerSiteAnalysis:    perSite,
	}
}
