// Package preview maps a draft snapshot to a themed block tree. The
// mapping is pure; the Refresher adds the short debounce tier that
// keeps recomputation off the keystroke path.
package preview

import (
	"strconv"
	"strings"
	"time"

	"memorial-app/internal/domain/memorials"
)

type Theme string

const (
	ThemeClassic    Theme = "classic"
	ThemeAccent     Theme = "accent"
	ThemePhotoFirst Theme = "photo-first"
)

// Themes lists the selectable themes in display order.
var Themes = []Theme{ThemeClassic, ThemeAccent, ThemePhotoFirst}

// Block is one section of the rendered page, mirroring how published
// pages are stored as typed blocks with properties.
type Block struct {
	Kind  string            `json:"kind"`
	Props map[string]string `json:"props,omitempty"`
}

type Page struct {
	Theme  Theme   `json:"theme"`
	Blocks []Block `json:"blocks"`
}

const (
	placeholderName  = "Your loved one's name"
	placeholderDates = "Dates not yet added"
	placeholderTitle = "In Loving Memory"
	dateFormat       = "January 2, 2006"
)

// Render builds the preview tree for a draft. A completely empty draft
// still renders, with placeholders for name, dates, and title; absent
// photos simply omit the gallery and hero sections.
func Render(d *memorials.Memorial, theme Theme) *Page {
	page := &Page{Theme: theme}

	if theme == ThemePhotoFirst && len(d.Photos) > 0 {
		hero := d.Photos[0].HeroURL
		if hero == "" {
			hero = d.Photos[0].URL
		}
		page.Blocks = append(page.Blocks, Block{Kind: "hero", Props: map[string]string{"url": hero}})
	}

	nameProps := map[string]string{"text": displayName(d)}
	if theme == ThemeAccent {
		nameProps["accent"] = "true"
	}
	page.Blocks = append(page.Blocks,
		Block{Kind: "title", Props: map[string]string{"text": orPlaceholder(d.Title, placeholderTitle)}},
		Block{Kind: "name", Props: nameProps},
		Block{Kind: "dates", Props: map[string]string{"text": dateLine(d)}},
	)

	if strings.TrimSpace(d.Headline) != "" {
		page.Blocks = append(page.Blocks, Block{Kind: "headline", Props: map[string]string{"text": d.Headline}})
	}
	if strings.TrimSpace(d.Obituary) != "" {
		page.Blocks = append(page.Blocks, Block{Kind: "obituary", Props: map[string]string{"text": d.Obituary}})
	}
	if strings.TrimSpace(d.Biography) != "" {
		page.Blocks = append(page.Blocks, Block{Kind: "biography", Props: map[string]string{"text": d.Biography}})
	}
	if strings.TrimSpace(d.ServiceDetails) != "" {
		page.Blocks = append(page.Blocks, Block{Kind: "service", Props: map[string]string{"text": d.ServiceDetails}})
	}

	if len(d.Photos) > 0 {
		gallery := Block{Kind: "gallery", Props: map[string]string{}}
		for i, p := range d.Photos {
			url := p.GalleryURL
			if url == "" {
				url = p.URL
			}
			gallery.Props["photo_"+strconv.Itoa(i)] = url
		}
		page.Blocks = append(page.Blocks, gallery)
	}

	return page
}

func displayName(d *memorials.Memorial) string {
	parts := []string{}
	for _, p := range []string{d.FirstName, d.MiddleName, d.LastName} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	name := strings.Join(parts, " ")
	if name == "" {
		return placeholderName
	}
	if strings.TrimSpace(d.Nickname) != "" {
		name += " “" + strings.TrimSpace(d.Nickname) + "”"
	}
	return name
}

func dateLine(d *memorials.Memorial) string {
	if d.BirthDate == nil && d.DeathDate == nil {
		return placeholderDates
	}
	return formatDate(d.BirthDate) + " – " + formatDate(d.DeathDate)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "…"
	}
	return t.Format(dateFormat)
}

func orPlaceholder(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
