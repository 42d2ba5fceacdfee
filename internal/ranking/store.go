package ranking

import (
	"context"
	"time"

	"gorm.io/gorm"

	"review_app/internal/models"
)

// Store loads the entities eligible for ranking.
type Store interface {
	RankableEntities(ctx context.Context) ([]Entity, error)
}

type GormStore struct {
	DB *gorm.DB
}

type reviewRow struct {
	EntityID          int64
	EntityName        string
	EntityDescription string
	CategoryName      string
	TraitID           int64
	TraitName         *string
	Rating            int
	CreatedAt         time.Time
}

// RankableEntities returns every approved entity of an approved category that
// has at least one review, ordered by id. Reviews of deleted traits still
// count toward the entity average but not toward its trait list.
func (s GormStore) RankableEntities(ctx context.Context) ([]Entity, error) {
	var rows []reviewRow
	err := s.DB.WithContext(ctx).
		Table("trait_reviews AS r").
		Select(`e.id AS entity_id, e.name AS entity_name, e.description AS entity_description,
			c.name AS category_name, r.trait_id AS trait_id, t.name AS trait_name,
			r.rating AS rating, r.created_at AS created_at`).
		Joins("JOIN entities e ON e.id = r.entity_id").
		Joins("JOIN categories c ON c.id = e.category_id").
		Joins("LEFT JOIN traits t ON t.id = r.trait_id").
		Where("e.status = ? AND c.status = ?", models.StatusApproved, models.StatusApproved).
		Order("e.id, r.trait_id, r.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return aggregate(rows), nil
}

func aggregate(rows []reviewRow) []Entity {
	type traitAcc struct {
		trait Trait
		sum   int
	}
	type entityAcc struct {
		entity Entity
		sum    int
		count  int
		traits []*traitAcc
		byID   map[int64]*traitAcc
	}

	var order []*entityAcc
	byID := map[int64]*entityAcc{}
	for _, r := range rows {
		acc, ok := byID[r.EntityID]
		if !ok {
			acc = &entityAcc{
				entity: Entity{
					ID:          r.EntityID,
					Name:        r.EntityName,
					Description: r.EntityDescription,
					Category:    r.CategoryName,
				},
				byID: map[int64]*traitAcc{},
			}
			byID[r.EntityID] = acc
			order = append(order, acc)
		}
		acc.sum += r.Rating
		acc.count++
		if !r.CreatedAt.IsZero() && (acc.entity.LastReviewAt == nil || r.CreatedAt.After(*acc.entity.LastReviewAt)) {
			at := r.CreatedAt
			acc.entity.LastReviewAt = &at
		}

		if r.TraitName == nil {
			continue
		}
		ta, ok := acc.byID[r.TraitID]
		if !ok {
			ta = &traitAcc{trait: Trait{ID: r.TraitID, Name: *r.TraitName}}
			acc.byID[r.TraitID] = ta
			acc.traits = append(acc.traits, ta)
		}
		ta.sum += r.Rating
		ta.trait.ReviewCount++
	}

	out := make([]Entity, 0, len(order))
	for _, acc := range order {
		e := acc.entity
		e.AvgRating = round2(float64(acc.sum) / float64(acc.count))
		for _, ta := range acc.traits {
			t := ta.trait
			t.AvgRating = float64(ta.sum) / float64(t.ReviewCount)
			e.Traits = append(e.Traits, t)
		}
		out = append(out, e)
	}
	return out
}
