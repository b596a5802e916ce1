package profile

import domexp "github.com/bconnected/marketplace/internal/domain/expert"

// Directory resolves experts by id and samples related ones.
type Directory interface {
	Get(id string) (domexp.Expert, error)
	Related(excludeID string, count int) []domexp.Expert
}
