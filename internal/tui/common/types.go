package common

import (
	"romcat/internal/catalog"
	"romcat/internal/preview"
)

type Mode int

const (
	Normal Mode = iota
	Search
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Page() catalog.Page
	Mode() Mode
	HelpView() string
	Title() string
	SearchInput() string
	Search() string
	Status() string
	Preview() preview.Result
	Err() error
	StationName(id int) string
}
