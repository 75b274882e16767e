package model

// Collection is an ordered group of pictures and backgrounds sharing a title.
//
// Name is the sanitized form of Title and is the key under which the
// collection is stored in a gallery. Two inputs whose titles sanitize to the
// same name address the same collection.
//
// Example:
//
//	col := NewCollection("Summer 2023", pictures, backgrounds)
//	// col.Name = "summer_2023"
type Collection struct {
	// Title is shown to the visitor.
	Title string `json:"title"`

	// Name is the sanitized title, unique within a gallery.
	Name string `json:"name"`

	// Pictures in display order.
	Pictures []Picture `json:"pictures"`

	// Backgrounds in display order. Backgrounds never carry titles.
	Backgrounds []Image `json:"backgrounds"`
}

// NewCollection creates a collection with the given items.
//
// Nil slices are replaced by empty ones so an empty collection serializes
// as empty lists rather than null.
func NewCollection(title string, pictures []Picture, backgrounds []Image) *Collection {
	if pictures == nil {
		pictures = []Picture{}
	}
	if backgrounds == nil {
		backgrounds = []Image{}
	}
	return &Collection{
		Title:       title,
		Name:        Sanitize(title),
		Pictures:    pictures,
		Backgrounds: backgrounds,
	}
}

// Append moves the pictures and backgrounds of other behind the existing ones.
func (c *Collection) Append(other *Collection) {
	if other == nil {
		return
	}
	c.Pictures = append(c.Pictures, other.Pictures...)
	c.Backgrounds = append(c.Backgrounds, other.Backgrounds...)
}

// RemoveByIdentity deletes every picture and background with the given
// identity and returns how many items were removed. The order of the
// remaining items is preserved.
func (c *Collection) RemoveByIdentity(id uint64) int {
	return c.RemoveBackgrounds(id) + c.RemovePictures(id)
}

// RemoveBackgrounds deletes the backgrounds with the given identity and
// returns how many were removed.
func (c *Collection) RemoveBackgrounds(id uint64) int {
	kept := c.Backgrounds[:0]
	for _, bg := range c.Backgrounds {
		if bg.Identity != id {
			kept = append(kept, bg)
		}
	}
	removed := len(c.Backgrounds) - len(kept)
	c.Backgrounds = kept
	return removed
}

// RemovePictures deletes the pictures with the given identity and returns
// how many were removed.
func (c *Collection) RemovePictures(id uint64) int {
	kept := c.Pictures[:0]
	for _, p := range c.Pictures {
		if p.Identity != id {
			kept = append(kept, p)
		}
	}
	removed := len(c.Pictures) - len(kept)
	c.Pictures = kept
	return removed
}
