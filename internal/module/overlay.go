package module

import "image"

// OverlayProvider is implemented by modules that can temporarily take over
// every key and the whole touch strip, such as an inspector panel.
type OverlayProvider interface {
	// IsOverlayActive reports whether the overlay currently owns the device.
	IsOverlayActive() bool

	// RenderOverlayKeys returns images for all keys while the overlay is
	// active.
	RenderOverlayKeys() map[KeyID]image.Image

	// RenderOverlayStrip returns the full touch strip image while the
	// overlay is active.
	RenderOverlayStrip() image.Image

	// HandleOverlayKey receives every key event while the overlay is active,
	// including keys owned by other modules.
	HandleOverlayKey(id KeyID, event KeyEvent) error

	// HandleOverlayStripTouch receives every touch strip event while the
	// overlay is active.
	HandleOverlayStripTouch(event TouchStripEvent) error
}

// ActiveOverlay returns the first module in mods whose overlay is active.
func ActiveOverlay(mods []Module) (OverlayProvider, bool) {
	for _, m := range mods {
		if op, ok := m.(OverlayProvider); ok && op.IsOverlayActive() {
			return op, true
		}
	}
	return nil, false
}
