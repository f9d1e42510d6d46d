package borg

import (
	"fmt"
	"strings"

	"borg-link/feature/borg/models"
)

const openSeaTraitType = "Attribute"

// ToView maps a stored item to its public view.
func ToView(item *models.Item) models.ItemView {
	attrs := make([]models.AttributeView, 0, len(item.Attributes))
	for _, link := range item.Attributes {
		attrs = append(attrs, models.AttributeView{
			ID:    link.Attribute.ID,
			Name:  link.Attribute.Name,
			Layer: link.Attribute.LayerNumber,
		})
	}
	return models.ItemView{
		ID:         item.ID,
		URL:        item.URLFor(models.ResolutionDefault),
		ParentID1:  item.ParentID1,
		ParentID2:  item.ParentID2,
		ChildID:    item.ChildID,
		Name:       item.Name,
		Attributes: attrs,
	}
}

// ToOpenSea maps a stored item to OpenSea metadata. Blank attributes are left out.
func ToOpenSea(item *models.Item, cfg Config) models.OpenSeaView {
	attrs := []models.OpenSeaAttribute{}
	for _, link := range item.Attributes {
		if strings.Contains(strings.ToLower(link.Attribute.Name), "blank") {
			continue
		}
		attrs = append(attrs, models.OpenSeaAttribute{TraitType: openSeaTraitType, Value: link.Attribute.Name})
	}

	name := fmt.Sprintf("Borg #%d", item.ID)
	if item.Name != nil {
		name = *item.Name
	}

	return models.OpenSeaView{
		Name:            name,
		Description:     cfg.Description,
		ExternalURL:     cfg.ExternalURL,
		Image:           item.URLFor(models.ResolutionLarge),
		BackgroundColor: cfg.BackgroundColor,
		Attributes:      attrs,
	}
}
