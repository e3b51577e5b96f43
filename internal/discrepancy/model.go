package discrepancy

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Item is the label agreement of one example.
type Item struct {
	ID            int
	Text          string
	Percentages   map[string]float64
	IsDiscrepancy bool
	MaxPercentage float64
	DiffCount     int
}

// TopLabels returns the labels sharing the highest percentage, sorted.
func (i Item) TopLabels() []string {
	var top []string
	for label, pct := range i.Percentages {
		if pct == i.MaxPercentage {
			top = append(top, label)
		}
	}
	slices.Sort(top)
	return top
}

// Options narrows the examples analysed.
type Options struct {
	// PerspectiveFilters keeps only examples whose perspective answers are
	// among the allowed values, keyed by perspective id.
	PerspectiveFilters map[int][]string
	Threshold          *int
}

func (o Options) params() map[string]any {
	params := make(map[string]any, len(o.PerspectiveFilters)+1)
	for _, id := range slices.Sorted(maps.Keys(o.PerspectiveFilters)) {
		values := o.PerspectiveFilters[id]
		if len(values) == 0 {
			continue
		}
		params["perspective_"+strconv.Itoa(id)] = strings.Join(values, ",")
	}
	if o.Threshold != nil {
		params["threshold"] = *o.Threshold
	}
	return params
}
