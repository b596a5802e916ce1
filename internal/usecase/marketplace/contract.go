package marketplace

import domexp "github.com/bconnected/marketplace/internal/domain/expert"

// Directory lists experts in directory order.
type Directory interface {
	All() []domexp.Expert
}
