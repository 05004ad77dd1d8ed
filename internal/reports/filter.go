package reports

import (
	"strings"
	"time"

	"github.com/radarobras/radar_api/internal/obras"
)

// Filter narrows a report to a slice of the pipeline. Every set field must
// match; an unset field matches everything. The date range is inclusive on
// both ends, with To stretched to the end of its day.
type Filter struct {
	LojaID   string
	Status   obras.Status
	Stage    obras.Stage
	SellerID string
	From     time.Time
	To       time.Time
}

func (f Filter) cacheKey() string {
	parts := []string{
		f.LojaID,
		string(f.Status),
		string(f.Stage),
		f.SellerID,
	}
	if !f.From.IsZero() {
		parts = append(parts, f.From.Format("2006-01-02"))
	} else {
		parts = append(parts, "")
	}
	if !f.To.IsZero() {
		parts = append(parts, f.To.Format("2006-01-02"))
	} else {
		parts = append(parts, "")
	}
	return strings.Join(parts, "|")
}

func (f Filter) Matches(o *obras.Obra) bool {
	if f.LojaID != "" && o.LojaID != f.LojaID {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Stage != "" && o.Stage != f.Stage {
		return false
	}
	if f.SellerID != "" && o.SellerID != f.SellerID {
		return false
	}
	if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() {
		end := time.Date(f.To.Year(), f.To.Month(), f.To.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), f.To.Location())
		if o.CreatedAt.After(end) {
			return false
		}
	}
	return true
}

func (f Filter) Apply(list []*obras.Obra) []*obras.Obra {
	out := make([]*obras.Obra, 0, len(list))
	for _, o := range list {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// ParseFilter builds a Filter from raw query values. Invalid status or stage
// values are reported, not silently ignored.
func ParseFilter(lojaID, status, stage, sellerID, from, to string) (Filter, error) {
	f := Filter{
		LojaID:   strings.TrimSpace(lojaID),
		SellerID: strings.TrimSpace(sellerID),
	}

	if s := strings.TrimSpace(status); s != "" {
		st := obras.Status(s)
		if !st.Valid() {
			return Filter{}, &InvalidFilterError{Field: "status", Value: s}
		}
		f.Status = st
	}
	if s := strings.TrimSpace(stage); s != "" {
		sg := obras.Stage(s)
		if !sg.Valid() {
			return Filter{}, &InvalidFilterError{Field: "stage", Value: s}
		}
		f.Stage = sg
	}
	if s := strings.TrimSpace(from); s != "" {
		t, err := parseDay(s)
		if err != nil {
			return Filter{}, &InvalidFilterError{Field: "from", Value: s}
		}
		f.From = t
	}
	if s := strings.TrimSpace(to); s != "" {
		t, err := parseDay(s)
		if err != nil {
			return Filter{}, &InvalidFilterError{Field: "to", Value: s}
		}
		f.To = t
	}
	return f, nil
}

func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

type InvalidFilterError struct {
	Field string
	Value string
}

func (e *InvalidFilterError) Error() string {
	return "invalid report filter " + e.Field + ": " + e.Value
}
