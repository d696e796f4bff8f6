package preview

import (
	"sync"
	"testing"
	"time"

	"memorial-app/internal/domain/media"
	"memorial-app/internal/domain/memorials"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockByKind(p *Page, kind string) *Block {
	for i := range p.Blocks {
		if p.Blocks[i].Kind == kind {
			return &p.Blocks[i]
		}
	}
	return nil
}

func TestRender_EmptyDraftUsesPlaceholders(t *testing.T) {
	t.Parallel()

	page := Render(&memorials.Memorial{}, ThemeClassic)

	name := blockByKind(page, "name")
	require.NotNil(t, name)
	assert.Equal(t, placeholderName, name.Props["text"])

	dates := blockByKind(page, "dates")
	require.NotNil(t, dates)
	assert.Equal(t, placeholderDates, dates.Props["text"])

	title := blockByKind(page, "title")
	require.NotNil(t, title)
	assert.Equal(t, placeholderTitle, title.Props["text"])

	assert.Nil(t, blockByKind(page, "gallery"), "no gallery without photos")
	assert.Nil(t, blockByKind(page, "hero"))
}

func TestRender_FullDraft(t *testing.T) {
	t.Parallel()

	birth := time.Date(1950, 6, 15, 0, 0, 0, 0, time.UTC)
	death := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	d := &memorials.Memorial{
		FirstName:  "John",
		MiddleName: "Q",
		LastName:   "Doe",
		Nickname:   "Johnny",
		Title:      "In Loving Memory of John Doe",
		Headline:   "A life well lived",
		Obituary:   "John was...",
		BirthDate:  &birth,
		DeathDate:  &death,
		Photos: []media.Photo{
			{URL: "https://cdn.test/a.jpg", GalleryURL: "https://cdn.test/a_g.jpg"},
			{URL: "https://cdn.test/b.jpg"},
		},
	}

	page := Render(d, ThemeClassic)
	assert.Equal(t, "John Q Doe “Johnny”", blockByKind(page, "name").Props["text"])
	assert.Equal(t, "June 15, 1950 – January 10, 2026", blockByKind(page, "dates").Props["text"])
	assert.Equal(t, "A life well lived", blockByKind(page, "headline").Props["text"])

	gallery := blockByKind(page, "gallery")
	require.NotNil(t, gallery)
	assert.Equal(t, "https://cdn.test/a_g.jpg", gallery.Props["photo_0"])
	assert.Equal(t, "https://cdn.test/b.jpg", gallery.Props["photo_1"], "falls back to the original url")
}

func TestRender_PartialDates(t *testing.T) {
	t.Parallel()

	birth := time.Date(1950, 6, 15, 0, 0, 0, 0, time.UTC)
	page := Render(&memorials.Memorial{BirthDate: &birth}, ThemeClassic)
	assert.Equal(t, "June 15, 1950 – …", blockByKind(page, "dates").Props["text"])
}

func TestRender_Themes(t *testing.T) {
	t.Parallel()

	d := &memorials.Memorial{
		FirstName: "John",
		LastName:  "Doe",
		Photos:    []media.Photo{{URL: "https://cdn.test/a.jpg", HeroURL: "https://cdn.test/a_h.jpg"}},
	}

	classic := Render(d, ThemeClassic)
	assert.Nil(t, blockByKind(classic, "hero"))
	assert.Empty(t, blockByKind(classic, "name").Props["accent"])

	accent := Render(d, ThemeAccent)
	assert.Equal(t, "true", blockByKind(accent, "name").Props["accent"])

	photoFirst := Render(d, ThemePhotoFirst)
	require.NotEmpty(t, photoFirst.Blocks)
	assert.Equal(t, "hero", photoFirst.Blocks[0].Kind)
	assert.Equal(t, "https://cdn.test/a_h.jpg", photoFirst.Blocks[0].Props["url"])

	// Photo-first without photos degrades to the classic ordering.
	empty := Render(&memorials.Memorial{}, ThemePhotoFirst)
	assert.Nil(t, blockByKind(empty, "hero"))
}

func TestRender_Pure(t *testing.T) {
	t.Parallel()

	d := &memorials.Memorial{FirstName: "John", LastName: "Doe"}
	a := Render(d, ThemeClassic)
	b := Render(d, ThemeClassic)
	assert.Equal(t, a, b)
}

func TestRefresher_OnlyLatestSnapshotRenders(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var pages []*Page
	r := NewRefresher(30*time.Millisecond, func(p *Page) {
		mu.Lock()
		pages = append(pages, p)
		mu.Unlock()
	})
	defer r.Close()

	for _, name := range []string{"J", "Jo", "John"} {
		r.Schedule(&memorials.Memorial{FirstName: name})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, pages, 1, "debounce collapses keystrokes into one render")
	assert.Equal(t, "John", blockByKind(pages[0], "name").Props["text"])
}

func TestRefresher_ThemeChangeAppliesToNextRender(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var last *Page
	r := NewRefresher(10*time.Millisecond, func(p *Page) {
		mu.Lock()
		last = p
		mu.Unlock()
	})
	defer r.Close()

	r.SetTheme(ThemeAccent)
	r.Schedule(&memorials.Memorial{FirstName: "John"})
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, last)
	assert.Equal(t, ThemeAccent, last.Theme)
}
