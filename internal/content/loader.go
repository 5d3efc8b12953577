package content

import (
	"context"
	"errors"

	"github.com/nmoreno/examterm/internal/api"
)

// ErrContentUnavailable means the attempt has no loadable sections. Fatal
// for this attempt; there is nothing to retry until the server has content.
var ErrContentUnavailable = errors.New("attempt has no sections")

// Fetcher is the part of the api client the loader needs.
type Fetcher interface {
	TestData(ctx context.Context, testID int) ([]api.Section, error)
}

// Loader fetches and flattens an attempt's content tree.
type Loader struct {
	client Fetcher
}

// NewLoader creates a Loader backed by the given fetcher.
func NewLoader(client Fetcher) *Loader {
	return &Loader{client: client}
}

// Load fetches the section tree for attemptID and returns the flattened
// snapshot. Transport and validation failures propagate unchanged from the
// gateway; an empty tree maps to ErrContentUnavailable. Load has no side
// effects beyond the returned snapshot.
func (l *Loader) Load(ctx context.Context, attemptID int) (*Tree, error) {
	sections, err := l.client.TestData(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	tree := flatten(attemptID, sections)
	if tree.TotalTitles() == 0 {
		return nil, ErrContentUnavailable
	}
	return tree, nil
}

// FromSections builds a tree directly from wire sections, for the case
// where /newtest already returned the content inline.
func FromSections(attemptID int, sections []api.Section) (*Tree, error) {
	tree := flatten(attemptID, sections)
	if tree.TotalTitles() == 0 {
		return nil, ErrContentUnavailable
	}
	return tree, nil
}
