package ui

import "time"

// LayoutCompactWidth is the threshold below which the header abbreviates.
const LayoutCompactWidth = 100

// Overlay sizes.
const (
	helpWidth           = 44
	settingsWidth       = 64
	settingsVisibleSubs = 10
)

const (
	// noticeTTL is how long a notice stays in the command bar.
	noticeTTL = 6 * time.Second

	// eventBatchSize caps the transport events handled per update.
	eventBatchSize = 512
)
