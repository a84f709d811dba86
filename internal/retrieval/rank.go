// ABOUTME: Semantic reranking of keyword search results via embeddings
// ABOUTME: Cosine similarity against the topic, folded into relevance scores
package retrieval

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"sort"

	"github.com/harper/longform/internal/models"
)

// Embedder produces embedding vectors for rerank scoring
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// rerank folds cosine similarity against the topic into each item's
// relevance and re-sorts. Items without stored embeddings keep their
// keyword score.
func (l *Library) rerank(ctx context.Context, topic string, bundle *models.ContentBundle) error {
	queryVec, err := l.embedder.GenerateEmbedding(ctx, topic)
	if err != nil {
		return err
	}

	for _, items := range [][]models.ContentItem{bundle.Positions, bundle.Quotes, bundle.Arguments, bundle.WorkExcerpts} {
		for i := range items {
			vec, err := l.loadEmbedding(ctx, items[i].ID)
			if err != nil || vec == nil {
				continue
			}
			items[i].Relevance += cosineSimilarity(queryVec, vec)
		}
		sortByRelevance(items)
	}
	return nil
}

func (l *Library) loadEmbedding(ctx context.Context, itemID string) ([]float64, error) {
	var raw sql.NullString
	err := l.db.QueryRowContext(ctx, `SELECT embedding FROM source_items WHERE item_id = ?`, itemID).Scan(&raw)
	if err != nil || !raw.Valid {
		return nil, err
	}
	var vec []float64
	if err := json.Unmarshal([]byte(raw.String), &vec); err != nil {
		return nil, err
	}
	return vec, nil
}

func sortByRelevance(items []models.ContentItem) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].Relevance > items[j].Relevance
	})
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
