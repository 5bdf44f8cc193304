package page

import (
	"fittingroom/internal/fitting"
)

// PaneKind selects what the result pane shows.
type PaneKind string

const (
	PaneSpinner     PaneKind = "spinner"
	PaneError       PaneKind = "error"
	PaneImage       PaneKind = "image"
	PanePlaceholder PaneKind = "placeholder"
)

// SlotView is one upload slot as displayed.
type SlotView struct {
	Name         string `json:"name"`
	Label        string `json:"label"`
	Filled       bool   `json:"filled"`
	PreviewURL   string `json:"preview_url,omitempty"`
	UploadAction string `json:"upload_action"`
	RemoveAction string `json:"remove_action,omitempty"`
}

// ResultPane is the right-hand result area.
type ResultPane struct {
	Kind     PaneKind `json:"kind"`
	Message  string   `json:"message,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Surface is everything the page shows for one snapshot.
type Surface struct {
	Locale         string     `json:"locale"`
	Phase          string     `json:"phase"`
	Slots          []SlotView `json:"slots"`
	TriggerEnabled bool       `json:"trigger_enabled"`
	Loading        bool       `json:"loading"`
	Result         ResultPane `json:"result"`
	Notice         string     `json:"notice,omitempty"`
	Generation     int        `json:"generation"`

	Text Messages `json:"-"`
}

// Build derives the surface from a snapshot. It has no side effects.
func Build(snap fitting.Snapshot, locale string) Surface {
	text := MessagesFor(locale)
	lifecycle := snap.Lifecycle
	if lifecycle == nil {
		lifecycle = fitting.Idle{}
	}
	_, loading := lifecycle.(fitting.Requesting)

	slots := make([]SlotView, 0, len(fitting.Slots))
	for _, slot := range fitting.Slots {
		view := SlotView{
			Name:         slot.String(),
			Label:        text.SlotLabels[slot],
			UploadAction: "/slots/" + slot.String(),
		}
		if img, ok := snap.Image(slot); ok {
			view.Filled = true
			view.PreviewURL = img.DataURL()
			view.RemoveAction = "/slots/" + slot.String() + "/remove"
		}
		slots = append(slots, view)
	}

	return Surface{
		Locale:         locale,
		Phase:          string(lifecycle.Phase()),
		Slots:          slots,
		TriggerEnabled: !loading && snap.Complete(),
		Loading:        loading,
		Result:         resultPane(lifecycle, text),
		Generation:     snap.Generation,
		Text:           text,
	}
}

func resultPane(lifecycle fitting.Lifecycle, text Messages) ResultPane {
	switch state := lifecycle.(type) {
	case fitting.Requesting:
		return ResultPane{Kind: PaneSpinner, Message: text.Waiting}
	case fitting.Failed:
		msg := state.Message
		if state.Kind == fitting.KindValidation {
			msg = text.Incomplete
		}
		return ResultPane{Kind: PaneError, Message: msg}
	case fitting.Succeeded:
		return ResultPane{Kind: PaneImage, ImageURL: state.Image}
	default:
		return ResultPane{Kind: PanePlaceholder, Message: text.Placeholder}
	}
}
