package studio

import (
	"strings"

	"memorial-app/internal/domain/memorials"
)

type Layout string

const (
	// LayoutSplit is the persistent two-pane form | preview layout.
	LayoutSplit Layout = "split"
	// LayoutTabbed is the single-pane layout with an edit/preview tab
	// switch, used on narrow viewports.
	LayoutTabbed Layout = "tabbed"
)

type Tab string

const (
	TabEdit    Tab = "edit"
	TabPreview Tab = "preview"
)

// splitMinWidth is the viewport width, in CSS pixels, at which the
// studio switches from tabs to the two-pane layout.
const splitMinWidth = 1024

// LayoutFor picks the studio layout for a viewport width.
func LayoutFor(width int) Layout {
	if width >= splitMinWidth {
		return LayoutSplit
	}
	return LayoutTabbed
}

// ShowPreviewShortcut reports whether the tabbed layout should offer
// the floating jump-to-preview button: there has to be at least a
// first name before a preview is worth looking at.
func ShowPreviewShortcut(d *memorials.Memorial) bool {
	return strings.TrimSpace(d.FirstName) != ""
}
