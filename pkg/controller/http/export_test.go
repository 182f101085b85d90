package http

// Test-only access to unexported helpers
var (
	SelectionFromQuery = selectionFromQuery
	WriteStatesXLSX    = writeStatesXLSX
)
