package handlers

import (
	"html/template"

	"timeismoney.app/web/internal/cms"
)

// ContentData is the view model for markdown-backed static pages.
type ContentData struct {
	Base
	Page cms.Page
	Body template.HTML
}

// ContentPage builds the view model for a static page. The page's front
// matter supplies the metadata overrides; the body HTML has already been
// sanitized by the cms store.
func (b *Builder) ContentPage(path, lang string, page cms.Page) (ContentData, error) {
	base, err := b.base(path, lang, page.SEO)
	if err != nil {
		return ContentData{}, err
	}
	return ContentData{
		Base: base,
		Page: page,
		Body: template.HTML(page.HTML),
	}, nil
}
