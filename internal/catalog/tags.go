package catalog

import (
	"errors"
	"strings"
	"videovault/library-api/internal/model"

	"gorm.io/gorm"
)

// TagByName resolves a tag case-insensitively.
func (s *Store) TagByName(name string) (*model.Tag, bool, error) {
	var t model.Tag

	err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &t, true, nil
}

// CreateTag inserts a new tag. A name collision (case-insensitive) is an
// error, not an upsert; callers wanting upsert semantics use FindOrCreateTag.
func (s *Store) CreateTag(t *model.Tag) (uint, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return 0, errors.New("tag name cannot be empty")
	}

	_, found, err := s.TagByName(t.Name)
	if err != nil {
		return 0, err
	}
	if found {
		return 0, ErrDuplicateName
	}

	if t.Level == 0 {
		t.Level = 1
	}
	if t.ParentID != nil {
		t.Level = 2
	}

	err = s.db.Create(t).Error
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateName
		}
		return 0, err
	}

	return t.ID, nil
}

// FindOrCreateTag resolves a tag case-insensitively, creating it when
// absent. On a hit the stored color wins over the supplied one; color is
// an attribute of the tag, not of this particular use.
func (s *Store) FindOrCreateTag(name, color string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tag name cannot be empty")
	}

	existing, found, err := s.TagByName(name)
	if err != nil {
		return nil, err
	}
	if found {
		return existing, nil
	}

	t := model.Tag{Name: name, Level: 1}
	if color != "" {
		t.Color = color
	}

	err = s.db.Create(&t).Error
	if err != nil {
		// Lost the check-then-insert race, the existing row wins
		if isUniqueViolation(err) {
			existing, _, lookupErr := s.TagByName(name)
			if lookupErr != nil {
				return nil, lookupErr
			}
			return existing, nil
		}
		return nil, err
	}

	return &t, nil
}

// TagUpdate lists the fields a caller may change on a tag.
type TagUpdate struct {
	Name     *string `json:"name,omitempty"`
	Color    *string `json:"color,omitempty"`
	Category *string `json:"category,omitempty"`
	ParentID *uint   `json:"parent_id,omitempty"`
}

// UpdateTag applies the provided fields. Renaming onto an existing name
// fails with ErrDuplicateName.
func (s *Store) UpdateTag(id uint, u *TagUpdate) (bool, error) {
	fields := map[string]any{}

	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return false, errors.New("tag name cannot be empty")
		}

		other, found, err := s.TagByName(name)
		if err != nil {
			return false, err
		}
		if found && other.ID != id {
			return false, ErrDuplicateName
		}

		fields["name"] = name
	}
	if u.Color != nil {
		fields["color"] = *u.Color
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.ParentID != nil {
		fields["parent_id"] = *u.ParentID
		fields["level"] = 2
	}

	if len(fields) == 0 {
		return false, nil
	}

	res := s.db.Model(&model.Tag{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// DeleteTag removes a tag and all its video links. Children of the tag
// are promoted to roots, never deleted with the parent.
func (s *Store) DeleteTag(id uint) (bool, error) {
	var affected int64

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.VideoTag{}).Error; err != nil {
			return err
		}

		err := tx.Model(&model.Tag{}).
			Where("parent_id = ?", id).
			Updates(map[string]any{"parent_id": nil, "level": 1}).
			Error
		if err != nil {
			return err
		}

		res := tx.Delete(&model.Tag{}, id)
		if res.Error != nil {
			return res.Error
		}

		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// AllTags returns every tag with its live video count. The count is
// always computed from the join table so it can never drift.
func (s *Store) AllTags() ([]model.Tag, error) {
	var tags []model.Tag

	err := s.db.
		Order("level, category, name").
		Find(&tags).
		Error
	if err != nil {
		return nil, err
	}

	if err := s.attachCounts(tags); err != nil {
		return nil, err
	}

	return tags, nil
}

// TagsByCategory returns tags of a single category, counts included.
func (s *Store) TagsByCategory(category string) ([]model.Tag, error) {
	var tags []model.Tag

	err := s.db.
		Where("category = ?", category).
		Order("name").
		Find(&tags).
		Error
	if err != nil {
		return nil, err
	}

	if err := s.attachCounts(tags); err != nil {
		return nil, err
	}

	return tags, nil
}

func (s *Store) attachCounts(tags []model.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	type count struct {
		TagID uint
		N     int64
	}

	var counts []count
	err := s.db.
		Table("video_tags").
		Select("tag_id, COUNT(DISTINCT video_id) AS n").
		Group("tag_id").
		Scan(&counts).
		Error
	if err != nil {
		return err
	}

	byTag := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byTag[c.TagID] = c.N
	}

	for i := range tags {
		tags[i].VideoCount = byTag[tags[i].ID]
	}

	return nil
}

// HierarchicalTags returns the flat tag list plus a tree built from it.
// Two passes: index everything by id, then attach children to parents.
// Tags without a parent (or with a dangling parent id) become roots.
func (s *Store) HierarchicalTags() ([]model.Tag, []model.TagNode, error) {
	tags, err := s.AllTags()
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uint]*model.TagNode, len(tags))
	roots := []*model.TagNode{}

	for _, t := range tags {
		if t.ParentID == nil {
			node := &model.TagNode{Tag: t, Children: []model.Tag{}}
			byID[t.ID] = node
			roots = append(roots, node)
		}
	}

	for _, t := range tags {
		if t.ParentID == nil {
			continue
		}

		parent, ok := byID[*t.ParentID]
		if !ok {
			node := &model.TagNode{Tag: t, Children: []model.Tag{}}
			roots = append(roots, node)
			continue
		}

		parent.Children = append(parent.Children, t)
	}

	tree := make([]model.TagNode, 0, len(roots))
	for _, r := range roots {
		tree = append(tree, *r)
	}

	return tags, tree, nil
}
