package core

import "fmt"

// Pagination defaults applied when the caller leaves limit/offset unset.
const (
	DefaultLimit  = 100
	DefaultOffset = 0
)

// Filter is a sparse set of optional query predicates plus mandatory
// pagination. A nil predicate imposes no constraint. Filters are built fresh
// per query call and never persisted.
//
// No cross-field validation happens here: min_amount > max_amount or an
// inverted time range simply translates to a query that matches nothing.
// Range times must already be in the canonical TimeLayout; comparison is
// lexicographic on the stored string.
type Filter struct {
	OwnerID      *int64
	Category     *string
	TitleKeyword *string
	IsIncome     *bool
	MinAmount    *Money
	MaxAmount    *Money
	StartTime    *string
	EndTime      *string
	Limit        int64
	Offset       int64
}

// NewFilter returns a filter with no predicates and default pagination.
func NewFilter() Filter {
	return Filter{Limit: DefaultLimit, Offset: DefaultOffset}
}

// FilterFromMap builds a Filter from caller-supplied key/value data, with
// the same coercion rules as RecordFromMap. Unknown keys are rejected.
func FilterFromMap(fields map[string]any) (Filter, error) {
	f := NewFilter()
	for key, value := range fields {
		if value == nil {
			continue
		}
		var err error
		switch key {
		case "owner_id":
			f.OwnerID, err = toID(key, value)
		case "category":
			f.Category, err = toText(key, value)
		case "title_keyword":
			f.TitleKeyword, err = toText(key, value)
		case "is_income":
			f.IsIncome, err = toFlag(key, value)
		case "min_amount":
			f.MinAmount, err = toMoney(value)
		case "max_amount":
			f.MaxAmount, err = toMoney(value)
		case "start_time":
			f.StartTime, err = toTimestamp(key, value)
		case "end_time":
			f.EndTime, err = toTimestamp(key, value)
		case "limit":
			var n *int64
			n, err = toID(key, value)
			if err == nil {
				f.Limit = *n
			}
		case "offset":
			var n *int64
			n, err = toID(key, value)
			if err == nil {
				f.Offset = *n
			}
		default:
			return Filter{}, NewValidationError(key, "unknown field")
		}
		if err != nil {
			return Filter{}, err
		}
	}
	return f, nil
}

// String summarizes the set predicates for logging.
func (f Filter) String() string {
	s := "filter{"
	if f.OwnerID != nil {
		s += fmt.Sprintf("owner_id=%d ", *f.OwnerID)
	}
	if f.Category != nil {
		s += fmt.Sprintf("category=%q ", *f.Category)
	}
	if f.TitleKeyword != nil {
		s += fmt.Sprintf("title_keyword=%q ", *f.TitleKeyword)
	}
	if f.IsIncome != nil {
		s += fmt.Sprintf("is_income=%t ", *f.IsIncome)
	}
	if f.MinAmount != nil {
		s += fmt.Sprintf("min_amount=%.2f ", f.MinAmount.Float64())
	}
	if f.MaxAmount != nil {
		s += fmt.Sprintf("max_amount=%.2f ", f.MaxAmount.Float64())
	}
	if f.StartTime != nil {
		s += fmt.Sprintf("start_time=%q ", *f.StartTime)
	}
	if f.EndTime != nil {
		s += fmt.Sprintf("end_time=%q ", *f.EndTime)
	}
	return s + fmt.Sprintf("limit=%d offset=%d}", f.Limit, f.Offset)
}
