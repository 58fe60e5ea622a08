package output

import (
	"context"

	"github.com/apexneural-anniesiri/Project-CUA/internal/domain/entity"
)

// BrowserPort is the automation surface owned by exactly one session.
// Implementations serialize every call internally, so operations for a
// session run one at a time in submission order.
type BrowserPort interface {
	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	CurrentURL(ctx context.Context) (string, error)
	ExecuteAction(ctx context.Context, action entity.Action) error
	ExtractContent(ctx context.Context) (string, error)

	Dispose() error
}
