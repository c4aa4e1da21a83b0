package tui

// UI Text Constants
const (
	// Footer
	TextFooterIdle    = "Press 'g' to generate | Press 'q' or Ctrl+C to quit"
	TextFooterRunning = "Rendering takes a few minutes | Press 'q' or Ctrl+C to quit"
	TextFooterDone    = "Press 'q' or Ctrl+C to exit"
)
