// Package query is the read side: typed filters, paginated listing and cached
// status counts. Reads are not transactional.
package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Filter keys recognized by ParseFilterSpec.
const (
	KeyStatus             = "status"
	KeyVerificationStatus = "verification_status"
	KeyPaymentStatus      = "payment_status"
	KeyDistrict           = "district"
	KeySearch             = "search"
	KeySpaID              = "spa_id"
)

// FilterSpec is the closed set of recognized filters. Empty fields do not filter.
type FilterSpec struct {
	Status             string
	VerificationStatus string
	PaymentStatus      string
	District           string
	Search             string
	SpaID              *int64
}

// ParseFilterSpec reads recognized keys from loose caller input and ignores the rest.
// A non-numeric spa_id is ignored as well.
func ParseFilterSpec(raw map[string]string) FilterSpec {
	var f FilterSpec
	for k, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case KeyStatus:
			f.Status = v
		case KeyVerificationStatus:
			f.VerificationStatus = v
		case KeyPaymentStatus:
			f.PaymentStatus = v
		case KeyDistrict:
			f.District = v
		case KeySearch:
			f.Search = v
		case KeySpaID:
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				f.SpaID = &id
			}
		}
	}
	return f
}

// StringValues flattens decoded JSON filter values so numbers and booleans can be
// parsed like their string forms. Nested values are dropped.
func StringValues(raw map[string]interface{}) map[string]string {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(val)
		case json.Number:
			out[k] = val.String()
		}
	}
	return out
}

// TherapistStatusFilter adapts the older status-only listing call to a FilterSpec.
func TherapistStatusFilter(status string) FilterSpec {
	return FilterSpec{Status: strings.TrimSpace(status)}
}

// Pagination is a validated page request.
type Pagination struct {
	Page  int
	Limit int
}

// Limits bound page sizes.
type Limits struct {
	Default int
	Max     int
}

var DefaultLimits = Limits{Default: 20, Max: 100}

// NewPagination clamps page to [1, MaxInt/limit] and limit to [1, max], using the
// default when limit is not positive. The page bound keeps Offset from overflowing.
func NewPagination(page, limit int, l Limits) Pagination {
	if l.Default <= 0 {
		l.Default = DefaultLimits.Default
	}
	if l.Max <= 0 {
		l.Max = DefaultLimits.Max
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = l.Default
	}
	if limit > l.Max {
		limit = l.Max
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return Pagination{Page: page, Limit: limit}
}

// Offset of the first row of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// predicate accumulates WHERE fragments with bound arguments.
type predicate struct {
	conds []string
	args  []interface{}
}

func (p *predicate) add(format string, values ...interface{}) {
	placeholders := make([]interface{}, len(values))
	for i, v := range values {
		p.args = append(p.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(p.args))
	}
	p.conds = append(p.conds, fmt.Sprintf(format, placeholders...))
}

func (p *predicate) where() string {
	if len(p.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conds, " AND ")
}

// likePattern escapes LIKE metacharacters and wraps the term for substring match.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// searchCondition matches one bound pattern against every column, case-insensitively.
func (p *predicate) search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	p.args = append(p.args, likePattern(term))
	ph := fmt.Sprintf("$%d", len(p.args))
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s ILIKE %s", c, ph)
	}
	p.conds = append(p.conds, "("+strings.Join(parts, " OR ")+")")
}
