package models

// AttributeView is an attribute as shown on an item.
type AttributeView struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Layer int    `json:"layer"`
}

// ItemView is the public representation of an item.
type ItemView struct {
	ID         int             `json:"id"`
	URL        string          `json:"url"`
	ParentID1  *int            `json:"parentId1"`
	ParentID2  *int            `json:"parentId2"`
	ChildID    *int            `json:"childId"`
	Name       *string         `json:"name,omitempty"`
	Attributes []AttributeView `json:"attributes"`
}

// OpenSeaAttribute is a trait in OpenSea metadata.
type OpenSeaAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// OpenSeaView is item metadata in the format OpenSea reads.
type OpenSeaView struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	ExternalURL     string             `json:"external_url"`
	Image           string             `json:"image"`
	BackgroundColor string             `json:"background_color,omitempty"`
	Attributes      []OpenSeaAttribute `json:"attributes"`
}

// AttributeCount is how many items carry an attribute.
type AttributeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Page is a zero based page request.
type Page struct {
	Number int `json:"pageNumber"`
	Size   int `json:"perPage"`
}

// Offset returns the number of rows skipped before the page.
func (p Page) Offset() int {
	return p.Number * p.Size
}

// PagedResult is one page of a filtered collection. TotalResults counts the whole
// filtered collection.
type PagedResult[T any] struct {
	Page         Page `json:"page"`
	TotalResults int  `json:"totalResults"`
	Results      []T  `json:"results"`
}
