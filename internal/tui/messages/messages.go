package messages

import "romcat/internal/catalog"

type ErrorMsg struct {
	Err error
}

type ScanCompleteMsg struct {
	Entries int
	Error   error
}

// PreviewTickMsg asks the model to poll the async preview worker.
type PreviewTickMsg struct{}

type BatchProgressMsg struct {
	Current int
	Total   int
	Name    string
}

type BatchCompleteMsg struct {
	Downloaded int
	Error      error
}

type SelectedMsg struct {
	Selection catalog.Selection
}

// CatalogChangedMsg reports that the catalog was rebuilt outside the browser.
type CatalogChangedMsg struct{}
