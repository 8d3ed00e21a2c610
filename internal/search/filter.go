package search

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"videovault/library-api/internal/model"

	"gorm.io/gorm"
)

var validSortFields = []string{"created_at", "title", "duration", "file_size"}

// Filter is a composite query. Every predicate is optional and an absent
// predicate never narrows the result, with one deliberate exception: the
// tag set, where "no tags" has no meaning as a base query and the caller
// should use the plain listing instead.
type Filter struct {
	Tags        []string
	Resolutions []string
	DurationMin int
	DurationMax int

	// Either a named preset (today/week/month/year) or an explicit range
	DatePreset string
	DateFrom   int64 // unix milliseconds, 0 = open
	DateTo     int64

	SortBy string
	Order  string
	Page   int
	Limit  int
}

// FilterResult carries one page plus the total for pagination.
type FilterResult struct {
	Videos []model.Video `json:"videos"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// Validate rejects malformed predicates before any store access.
func (f *Filter) Validate() error {
	for _, r := range f.Resolutions {
		if !ValidResolutionClass(r) {
			return fmt.Errorf("unknown resolution class %q", r)
		}
	}

	if f.DatePreset != "" && !slices.Contains([]string{"today", "week", "month", "year"}, f.DatePreset) {
		return fmt.Errorf("unknown date filter %q", f.DatePreset)
	}

	if f.DurationMin < 0 || f.DurationMax < 0 {
		return fmt.Errorf("duration bounds cannot be negative")
	}

	if f.DurationMax > 0 && f.DurationMin > f.DurationMax {
		return fmt.Errorf("durationMin exceeds durationMax")
	}

	if f.SortBy != "" && !slices.Contains(validSortFields, f.SortBy) {
		return fmt.Errorf("unknown sort field %q", f.SortBy)
	}

	if f.Order != "" && f.Order != "asc" && f.Order != "desc" {
		return fmt.Errorf("order must be asc or desc")
	}

	return nil
}

// Run applies every active predicate with AND semantics and returns the
// requested page.
func (e *Engine) Run(f *Filter) (*FilterResult, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	q := e.store.DB().Model(&model.Video{})

	if tags := normalizeTagNames(f.Tags); len(tags) > 0 {
		ids, err := e.videoIDsWithAllTags(tags)
		if err != nil {
			return nil, err
		}

		if len(ids) == 0 {
			return &FilterResult{Videos: []model.Video{}, Page: f.Page, Limit: f.pageSize()}, nil
		}

		q = q.Where("id IN ?", ids)
	}

	if len(f.Resolutions) > 0 {
		q = q.Where(resolutionCondition(e.store.DB(), f.Resolutions))
	}

	if f.DurationMin > 0 {
		q = q.Where("duration >= ?", f.DurationMin)
	}
	if f.DurationMax > 0 {
		q = q.Where("duration <= ?", f.DurationMax)
	}

	from, to := f.dateBounds(time.Now())
	if from > 0 {
		q = q.Where("created_at >= ?", from)
	}
	if to > 0 {
		q = q.Where("created_at <= ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, err
	}

	limit := f.pageSize()

	var videos []model.Video
	err := q.
		Order(f.orderClause()).
		Offset(f.Page * limit).
		Limit(limit).
		Find(&videos).
		Error
	if err != nil {
		return nil, err
	}

	if err := e.store.AttachTags(videos); err != nil {
		return nil, err
	}

	return &FilterResult{Videos: videos, Total: total, Page: f.Page, Limit: limit}, nil
}

// resolutionCondition ORs the height ranges of the selected buckets so
// that the set behaves as a union layered onto the base query.
func resolutionCondition(db *gorm.DB, classes []string) *gorm.DB {
	cond := db.Session(&gorm.Session{NewDB: true})

	for i, c := range classes {
		r := classRanges[c]
		if i == 0 {
			cond = cond.Where("height BETWEEN ? AND ?", r.min, r.max)
		} else {
			cond = cond.Or("height BETWEEN ? AND ?", r.min, r.max)
		}
	}

	return cond
}

func (f *Filter) dateBounds(now time.Time) (int64, int64) {
	// An explicit range wins over a preset
	if f.DateFrom > 0 || f.DateTo > 0 {
		return f.DateFrom, f.DateTo
	}

	switch f.DatePreset {
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return start.UnixMilli(), 0
	case "week":
		return now.AddDate(0, 0, -7).UnixMilli(), 0
	case "month":
		return now.AddDate(0, -1, 0).UnixMilli(), 0
	case "year":
		return now.AddDate(-1, 0, 0).UnixMilli(), 0
	}

	return 0, 0
}

func (f *Filter) orderClause() string {
	field := f.SortBy
	if field == "" {
		field = "created_at"
	}

	dir := strings.ToLower(f.Order)
	if dir == "" {
		dir = "desc"
	}

	return field + " " + dir
}

func (f *Filter) pageSize() int {
	if f.Limit <= 0 {
		return 50
	}
	if f.Limit > 250 {
		return 250
	}
	return f.Limit
}
