// Package search turns free-text queries, tag sets and composite filters
// into ordered video lists.
package search

import (
	"strings"
	"videovault/library-api/internal/catalog"
	"videovault/library-api/internal/model"

	"gorm.io/gorm/clause"
)

const minQueryLength = 2

// Engine runs retrieval queries on top of the catalog store.
type Engine struct {
	store *catalog.Store
}

func NewEngine(store *catalog.Store) *Engine {
	return &Engine{store: store}
}

// Title match quality, best first: an exact title/filename match beats a
// prefix match, which beats a word-start match ("The Matrix" for query
// "Matrix"), which beats a bare substring hit ("xMatrixx").
const tierCase = `CASE ` +
	`WHEN LOWER(title) = ? OR LOWER(filename) = ? THEN 1 ` +
	`WHEN LOWER(title) LIKE ? OR LOWER(filename) LIKE ? THEN 2 ` +
	`WHEN LOWER(title) LIKE ? OR LOWER(filename) LIKE ? THEN 3 ` +
	`ELSE 4 END`

func tierVars(q string) []any {
	return []any{q, q, q + "%", q + "%", "% " + q + "%", "% " + q + "%"}
}

func tierOrder(q string) clause.OrderBy {
	return clause.OrderBy{
		Expression: clause.Expr{
			SQL:                tierCase + ", created_at DESC",
			Vars:               tierVars(q),
			WithoutParentheses: true,
		},
	}
}

// SearchByTitle returns videos whose title or filename contains the query,
// ordered by match tier and then newest first within a tier.
func (e *Engine) SearchByTitle(query string, limit, page int) ([]model.Video, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []model.Video{}, nil
	}

	var videos []model.Video

	err := e.store.DB().
		Where("LOWER(title) LIKE ? OR LOWER(filename) LIKE ?", "%"+q+"%", "%"+q+"%").
		Clauses(tierOrder(q)).
		Offset(page * limit).
		Limit(limit).
		Find(&videos).
		Error
	if err != nil {
		return nil, err
	}

	if err := e.store.AttachTags(videos); err != nil {
		return nil, err
	}

	return videos, nil
}

// Suggest returns up to limit distinct titles for autocomplete. Queries
// shorter than two characters produce no suggestions and no store hit.
func (e *Engine) Suggest(query string, limit int) ([]string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < minQueryLength {
		return []string{}, nil
	}

	if limit <= 0 {
		limit = 10
	}

	type suggestion struct {
		Title string
		Tier  int
	}

	var rows []suggestion

	err := e.store.DB().
		Model(&model.Video{}).
		Select("title, MIN("+tierCase+") AS tier", tierVars(q)...).
		Where("LOWER(title) LIKE ? OR LOWER(filename) LIKE ?", "%"+q+"%", "%"+q+"%").
		Group("title").
		Order("tier, MAX(created_at) DESC").
		Limit(limit).
		Scan(&rows).
		Error
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(rows))
	for _, r := range rows {
		titles = append(titles, r.Title)
	}

	return titles, nil
}

// SearchByTags returns videos carrying every one of the given tags.
// An empty tag set yields an empty result, not the whole library; the
// "no tags selected" case belongs to the unfiltered listing.
func (e *Engine) SearchByTags(names []string) ([]model.Video, error) {
	names = normalizeTagNames(names)
	if len(names) == 0 {
		return []model.Video{}, nil
	}

	ids, err := e.videoIDsWithAllTags(names)
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []model.Video{}, nil
	}

	var videos []model.Video
	err = e.store.DB().
		Where("id IN ?", ids).
		Order("created_at desc").
		Find(&videos).
		Error
	if err != nil {
		return nil, err
	}

	if err := e.store.AttachTags(videos); err != nil {
		return nil, err
	}

	return videos, nil
}

// videoIDsWithAllTags implements AND semantics: group the link rows by
// video and keep videos whose distinct matching tag count equals the
// requested set size.
func (e *Engine) videoIDsWithAllTags(names []string) ([]uint, error) {
	var ids []uint

	err := e.store.DB().
		Table("video_tags").
		Select("video_tags.video_id").
		Joins("JOIN tags ON tags.id = video_tags.tag_id").
		Where("LOWER(tags.name) IN ?", names).
		Group("video_tags.video_id").
		Having("COUNT(DISTINCT LOWER(tags.name)) = ?", len(names)).
		Pluck("video_tags.video_id", &ids).
		Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func normalizeTagNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]bool{}

	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}

	return out
}
