// ABOUTME: ContentFetcher is the retrieval contract consumed by the coherence core
// ABOUTME: Returns bounded per-kind lists of attributed source material
package retrieval

import (
	"context"

	"github.com/harper/longform/internal/models"
)

// ContentFetcher turns a subject and topic into bounded lists of content
// items, most relevant first (best effort). The core never sees how the
// material is stored or searched.
type ContentFetcher interface {
	FetchContent(ctx context.Context, subjectID, topic string, limitPerKind int) (*models.ContentBundle, error)
}
