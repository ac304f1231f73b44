package ui

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PaneKind selects what the workspace's main pane shows.
type PaneKind uint8

const (
	// PaneEditor shows the editable source of the active file.
	PaneEditor PaneKind = iota + 1
	// PaneTranspilerPreview shows the preview-variant compiled output.
	PaneTranspilerPreview
	// PanePlayer shows the running program's output.
	PanePlayer
)

// String returns the string representation of PaneKind.
func (k PaneKind) String() string {
	switch k {
	case PaneEditor:
		return "editor"
	case PaneTranspilerPreview:
		return "preview"
	case PanePlayer:
		return "player"
	default:
		return "unknown"
	}
}

var paneTitle = cases.Title(language.English)

// Label returns the human-facing pane name.
func (k PaneKind) Label() string {
	return paneTitle.String(k.String())
}

// next cycles through the pane kinds in order.
func (k PaneKind) next() PaneKind {
	switch k {
	case PaneEditor:
		return PaneTranspilerPreview
	case PaneTranspilerPreview:
		return PanePlayer
	default:
		return PaneEditor
	}
}

// paneRenderers dispatches rendering over the closed set of pane kinds.
var paneRenderers = map[PaneKind]func(*Model) string{
	PaneEditor:            (*Model).renderEditor,
	PaneTranspilerPreview: (*Model).renderPreview,
	PanePlayer:            (*Model).renderPlayer,
}
