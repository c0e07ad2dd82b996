package api

// Deck is a named collection of cards sharing a theme.
type Deck struct {
	ID          int64  `json:"id" yaml:"id"`
	Key         string `json:"key" yaml:"key"`
	Title       string `json:"title" yaml:"title"`
	Subtitle    string `json:"subtitle" yaml:"subtitle"`
	Description string `json:"description" yaml:"description"`
	Color       string `json:"color" yaml:"color"`
	ImageURL    string `json:"imageUrl" yaml:"imageUrl"`
	Order       int    `json:"order" yaml:"order"`
}

// Card is a single unit of deck content. Content is the raw semi-structured
// text fed to the formatter.
type Card struct {
	ID       int64  `json:"id" yaml:"id"`
	DeckKey  string `json:"deckKey" yaml:"deckKey"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	Category string `json:"category" yaml:"category"`
	Preview  string `json:"preview" yaml:"preview"`
	Order    int    `json:"order" yaml:"order"`
}

// CardPatch is a partial card update. Nil fields are left unchanged.
type CardPatch struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	Preview  *string `json:"preview,omitempty"`
	Order    *int    `json:"order,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p CardPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.Preview == nil && p.Order == nil
}

// Apply returns c with the patch fields set.
func (p CardPatch) Apply(c Card) Card {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Preview != nil {
		c.Preview = *p.Preview
	}
	if p.Order != nil {
		c.Order = *p.Order
	}
	return c
}

// ErrorBody is the JSON shape of every API error response.
type ErrorBody struct {
	Error string `json:"error"`
}
