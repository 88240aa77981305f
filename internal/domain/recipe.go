package domain

import "github.com/pkg/errors"

// Material one input of a recipe.
type Material struct {
	ItemID   string `json:"item_id" yaml:"item_id"`
	Quantity int64  `json:"quantity" yaml:"quantity"`
}

// Recipe transformation of a list of materials into a quantity of one result item.
type Recipe struct {
	ID             string     `json:"id" yaml:"id"`
	Name           string     `json:"name" yaml:"name"`
	Profession     string     `json:"profession" yaml:"profession"`
	SkillLevel     int        `json:"skill_level" yaml:"skill_level"`
	ResultItemID   string     `json:"result_item_id" yaml:"result_item_id"`
	ResultQuantity int64      `json:"result_quantity" yaml:"result_quantity"`
	Materials      []Material `json:"materials" yaml:"materials"`
}

// Validate checks the structural invariants of a recipe.
func (r Recipe) Validate() error {
	if r.ID == "" {
		return errors.Wrap(ErrDataUnavailable, "recipe without id")
	}
	if r.ResultItemID == "" {
		return errors.Wrapf(ErrDataUnavailable, "recipe %s has no result item", r.ID)
	}
	if r.ResultQuantity < 1 {
		return errors.Wrapf(ErrDataUnavailable, "recipe %s has result quantity %d, must be at least 1", r.ID, r.ResultQuantity)
	}
	for i, m := range r.Materials {
		if m.ItemID == "" {
			return errors.Wrapf(ErrDataUnavailable, "recipe %s material #%d has no item id", r.ID, i)
		}
		if m.Quantity < 1 {
			return errors.Wrapf(ErrDataUnavailable, "recipe %s material %s has quantity %d, must be at least 1", r.ID, m.ItemID, m.Quantity)
		}
	}

	return nil
}
