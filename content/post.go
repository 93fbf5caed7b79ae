package content

import "time"

// Localized holds the per-language overrides of a post. Empty fields fall
// back to the canonical values on Post.
type Localized struct {
	Title   string
	Content string
	Slug    string
}

// Post is a blog post. Slug is the canonical, language-neutral identity;
// Localized carries optional per-language title, content and slug.
type Post struct {
	ID            int64
	Title         string
	Content       string
	Slug          string
	Localized     map[Lang]Localized
	PublishedAt   *time.Time
	FeaturedImage string
	Categories    []Category
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsPublished reports whether the post is publicly visible at now.
func (p Post) IsPublished(now time.Time) bool {
	return p.PublishedAt != nil && !p.PublishedAt.After(now)
}

// SlugFor returns the slug that addresses the post in lang, falling back to
// the canonical slug.
func (p Post) SlugFor(lang Lang) string {
	if l, ok := p.Localized[lang]; ok && l.Slug != "" {
		return l.Slug
	}
	return p.Slug
}

// LocalizedSlug returns the slug stored for lang, or "" when none is set.
func (p Post) LocalizedSlug(lang Lang) string {
	return p.Localized[lang].Slug
}

// HasSlug reports whether slug equals the canonical slug or any localized slug.
func (p Post) HasSlug(slug string) bool {
	if p.Slug == slug {
		return true
	}
	for _, l := range p.Localized {
		if l.Slug != "" && l.Slug == slug {
			return true
		}
	}
	return false
}

// TitleFor returns the title in lang, falling back to the canonical title
// and then to the other languages in fallback order.
func (p Post) TitleFor(lang Lang) string {
	return p.fallback(lang, p.Title, func(l Localized) string { return l.Title })
}

// ContentFor returns the markdown content in lang with the same fallback as TitleFor.
func (p Post) ContentFor(lang Lang) string {
	return p.fallback(lang, p.Content, func(l Localized) string { return l.Content })
}

func (p Post) fallback(lang Lang, canonical string, field func(Localized) string) string {
	if v := field(p.Localized[lang]); v != "" {
		return v
	}
	if canonical != "" {
		return canonical
	}
	for _, l := range Languages {
		if v := field(p.Localized[l]); v != "" {
			return v
		}
	}
	return ""
}

// SetLocalized stores loc for lang, allocating the map when needed.
func (p *Post) SetLocalized(lang Lang, loc Localized) {
	if p.Localized == nil {
		p.Localized = make(map[Lang]Localized, len(Languages))
	}
	p.Localized[lang] = loc
}

// Status returns the editorial status at now. It is for display only;
// visibility is decided by IsPublished.
func (p Post) Status(now time.Time) EditorialStatus {
	switch {
	case p.PublishedAt == nil:
		return Draft
	case p.PublishedAt.After(now):
		return Scheduled
	default:
		return Published
	}
}

// EditorialStatus is the admin-facing state of a post.
type EditorialStatus int

const (
	Draft EditorialStatus = iota
	Scheduled
	Published
)

func (s EditorialStatus) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Published:
		return "published"
	default:
		return "draft"
	}
}

// Category groups posts. Names and Slugs hold optional per-language values.
type Category struct {
	ID    int64
	Name  string
	Slug  string
	Names map[Lang]string
	Slugs map[Lang]string
}

// NameFor returns the category name in lang, falling back to Name.
func (c Category) NameFor(lang Lang) string {
	if v := c.Names[lang]; v != "" {
		return v
	}
	return c.Name
}

// SlugFor returns the category slug in lang, falling back to Slug.
func (c Category) SlugFor(lang Lang) string {
	if v := c.Slugs[lang]; v != "" {
		return v
	}
	return c.Slug
}
