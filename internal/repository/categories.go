package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
)

// GetCategories returns the persisted categories, or the bootstrap set if
// none have been saved.
func (r *Repository) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := r.latency.Wait(ctx, latencyGetCategories); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cats, _, err := r.categories(ctx)
	return cats, err
}

// SaveCategory creates a category when patch.ID is empty, otherwise merges
// the patch into the existing category with that id.
func (r *Repository) SaveCategory(ctx context.Context, patch model.CategoryPatch) (model.Category, error) {
	if err := r.latency.Wait(ctx, latencySaveCategory); err != nil {
		return model.Category{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cats, version, err := r.categories(ctx)
	if err != nil {
		return model.Category{}, err
	}

	var saved model.Category
	if patch.ID != "" {
		idx := model.FindCategory(cats, patch.ID)
		if idx < 0 {
			return model.Category{}, common.NewNotFoundError("category", patch.ID)
		}
		if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
			return model.Category{}, common.NewValidationError("name", "must not be blank")
		}
		saved = patch.Apply(cats[idx])
		cats[idx] = saved
	} else {
		if patch.Name == nil || strings.TrimSpace(*patch.Name) == "" {
			return model.Category{}, common.NewValidationError("name", "is required")
		}
		saved = patch.Apply(model.Category{
			ID:    r.newID(),
			Color: model.DefaultCategoryColor,
		})
		if saved.Color == "" {
			saved.Color = model.DefaultCategoryColor
		}
		cats = append(cats, saved)
	}

	w, err := put(service.KeyCategories, cats, version)
	if err != nil {
		return model.Category{}, err
	}
	if err := r.commit(ctx, w); err != nil {
		return model.Category{}, err
	}

	r.logger.Info("Saved category",
		common.FieldOperation, "save_category",
		common.FieldID, saved.ID,
		"name", saved.Name)
	return saved, nil
}

// DeleteCategory removes the category and reassigns its expenses to the
// first remaining category. Both collections are written in one commit.
func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	if err := r.latency.Wait(ctx, latencyDeleteCategory); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cats, catVersion, err := r.categories(ctx)
	if err != nil {
		return err
	}

	idx := model.FindCategory(cats, id)
	if idx < 0 {
		return common.NewNotFoundError("category", id)
	}
	if len(cats) <= 1 {
		return &common.ValidationError{
			Field: "id",
			Msg:   common.ErrLastCategory.Error(),
			Err:   common.ErrLastCategory,
		}
	}

	remaining := make([]model.Category, 0, len(cats)-1)
	remaining = append(remaining, cats[:idx]...)
	remaining = append(remaining, cats[idx+1:]...)
	target := remaining[0].ID

	items, expVersion, err := r.expenses(ctx)
	if err != nil {
		return err
	}

	reassigned := 0
	now := r.now().UTC()
	for i := range items {
		if items[i].CategoryID == id {
			items[i].CategoryID = target
			items[i].UpdatedAt = now
			reassigned++
		}
	}

	expWrite, err := put(service.KeyExpenses, items, expVersion)
	if err != nil {
		return err
	}
	catWrite, err := put(service.KeyCategories, remaining, catVersion)
	if err != nil {
		return err
	}
	if err := r.commit(ctx, expWrite, catWrite); err != nil {
		return fmt.Errorf("delete category %q: %w", id, err)
	}

	r.logger.Info("Deleted category",
		common.FieldOperation, "delete_category",
		common.FieldID, id,
		common.FieldCount, reassigned,
		"reassigned_to", target)
	return nil
}
