package models

import (
	"strings"
	"time"
)

// ResolutionPlaceholder is replaced with a resolution name in Item.URL.
const ResolutionPlaceholder = "{resolution}"

// Item is a collectible ("borg"). Its id comes from the contract.
type Item struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	URL       string    `gorm:"column:url;size:512;not null" json:"url"`
	Name      *string   `gorm:"column:name;size:255" json:"name,omitempty"`
	ParentID1 *int      `gorm:"column:parent_id1;index" json:"parentId1"`
	ParentID2 *int      `gorm:"column:parent_id2;index" json:"parentId2"`
	ChildID   *int      `gorm:"column:child_id;index" json:"childId"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`

	Attributes []ItemAttribute `gorm:"foreignKey:ItemID" json:"-"`

	// RawAttributes holds the attribute names reported by the chain during import.
	RawAttributes []string `gorm:"-" json:"-"`
}

// TableName overrides the table name.
func (Item) TableName() string {
	return "borgs"
}

// URLFor returns the image URL at the given resolution.
func (i *Item) URLFor(res Resolution) string {
	return strings.ReplaceAll(i.URL, ResolutionPlaceholder, string(res))
}

// IsAlive reports whether the item has not been bred into a child.
func (i *Item) IsAlive() bool {
	return i.ChildID == nil
}

// HasParents reports whether the item was bred from two parents.
func (i *Item) HasParents() bool {
	return i.ParentID1 != nil && i.ParentID2 != nil
}

// Attribute is a named trait shared across items. The name is unique.
type Attribute struct {
	ID          int    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"column:name;size:191;not null;uniqueIndex" json:"name"`
	LayerNumber int    `gorm:"column:layer_number;not null;default:0" json:"layer"`
}

// TableName overrides the table name.
func (Attribute) TableName() string {
	return "attributes"
}

// ItemAttribute links an item to one of its attributes.
type ItemAttribute struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	ItemID      int       `gorm:"column:borg_id;not null;uniqueIndex:idx_borg_attribute"`
	AttributeID int       `gorm:"column:attribute_id;not null;uniqueIndex:idx_borg_attribute;index"`
	Position    int       `gorm:"column:position;not null;default:0"`
	Attribute   Attribute `gorm:"foreignKey:AttributeID"`
}

// TableName overrides the table name.
func (ItemAttribute) TableName() string {
	return "borg_attributes"
}

// All returns every model of the catalog, in migration order.
func All() []any {
	return []any{&Item{}, &Attribute{}, &ItemAttribute{}}
}
