package repositories

import (
	"fmt"

	"eventim/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// requireIDs checks inside tx that every id exists in the table of model.
func requireIDs(tx *gorm.DB, model interface{}, what string, ids []string) error {
	ids = unique(ids)
	if len(ids) == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s references: %w", what, err)
	}
	if int(count) != len(ids) {
		return invalidReference("unknown %s in %v", what, ids)
	}
	return nil
}

// insertImage stores image inside tx, keyed to the owning entity. A nil image is a no-op.
func insertImage(tx *gorm.DB, image *models.Image, entityType, entityID string) error {
	if image == nil {
		return nil
	}
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	image.EntityType = entityType
	image.EntityID = entityID
	if err := tx.Create(image).Error; err != nil {
		return fmt.Errorf("insert %s image: %w", entityType, err)
	}
	return nil
}

// unique returns ids without duplicates, keeping the first occurrence order.
func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
