package domain

// Preferences configures gesture handling. None of these affect
// validation outcomes.
type Preferences struct {
	// DragThreshold is the pointer distance in pixels before a drag starts.
	DragThreshold int `json:"drag_threshold"`
	// LongPressDelayMs is the touch long-press trigger delay.
	LongPressDelayMs int `json:"long_press_delay_ms"`
	// SnapToGrid rounds target slots to half-hour grid lines.
	SnapToGrid bool `json:"snap_to_grid"`
	// ShowPreview shows a floating preview of the dragged item.
	ShowPreview bool `json:"show_preview"`
	// AutoScroll scrolls the viewport when dragging near its edges.
	AutoScroll bool `json:"auto_scroll"`
}

// DefaultPreferences returns the standard gesture configuration.
func DefaultPreferences() Preferences {
	return Preferences{
		DragThreshold:    5,
		LongPressDelayMs: 300,
		SnapToGrid:       true,
		ShowPreview:      true,
		AutoScroll:       true,
	}
}

// PreferencesPatch is a partial preferences update; nil fields are left
// unchanged.
type PreferencesPatch struct {
	DragThreshold    *int  `json:"drag_threshold,omitempty"`
	LongPressDelayMs *int  `json:"long_press_delay_ms,omitempty"`
	SnapToGrid       *bool `json:"snap_to_grid,omitempty"`
	ShowPreview      *bool `json:"show_preview,omitempty"`
	AutoScroll       *bool `json:"auto_scroll,omitempty"`
}

// Apply merges the patch into the preferences.
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	if patch.DragThreshold != nil {
		p.DragThreshold = *patch.DragThreshold
	}
	if patch.LongPressDelayMs != nil {
		p.LongPressDelayMs = *patch.LongPressDelayMs
	}
	if patch.SnapToGrid != nil {
		p.SnapToGrid = *patch.SnapToGrid
	}
	if patch.ShowPreview != nil {
		p.ShowPreview = *patch.ShowPreview
	}
	if patch.AutoScroll != nil {
		p.AutoScroll = *patch.AutoScroll
	}
	return p
}
