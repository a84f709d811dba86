// ABOUTME: Library is the sqlite-backed store of curated source material
// ABOUTME: Keyword search with relevance scoring and an author-wide fallback
package retrieval

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/harper/longform/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Library stores positions, quotes, arguments, and work excerpts per subject
type Library struct {
	db       *sql.DB
	embedder Embedder
}

// SourceDocument is the JSON shape accepted by Ingest
type SourceDocument struct {
	SubjectID  string `json:"subject_id"`
	AuthorName string `json:"author_name"`
	Items      []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	} `json:"items"`
}

// OpenLibrary opens (or creates) the source library at path
func OpenLibrary(path string) (*Library, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS source_items (
		item_id TEXT PRIMARY KEY,
		subject_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		author_name TEXT NOT NULL,
		text TEXT NOT NULL,
		embedding TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_items_subject ON source_items(subject_id);
	CREATE INDEX IF NOT EXISTS idx_items_kind ON source_items(subject_id, kind);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Library{db: db}, nil
}

// Close closes the database connection
func (l *Library) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// SetEmbedder enables semantic reranking of search results.
// Optional; without it results are ranked by keyword score only.
func (l *Library) SetEmbedder(e Embedder) {
	l.embedder = e
}

// IngestFile reads a SourceDocument JSON file into the library.
// Item ids are derived from the document, so re-ingesting the same
// file is idempotent.
func (l *Library) IngestFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read source document: %w", err)
	}

	var doc SourceDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("failed to parse source document %s: %w", path, err)
	}
	if doc.SubjectID == "" || doc.AuthorName == "" {
		return 0, fmt.Errorf("source document %s missing subject_id or author_name", path)
	}

	count := 0
	for i, raw := range doc.Items {
		kind := models.ContentKind(raw.Kind)
		switch kind {
		case models.KindPosition, models.KindQuote, models.KindArgument, models.KindWorkExcerpt:
		default:
			fmt.Fprintf(os.Stderr, "Warning: skipping item %d in %s: unknown kind %q\n", i, path, raw.Kind)
			continue
		}
		if strings.TrimSpace(raw.Text) == "" {
			continue
		}

		itemID := fmt.Sprintf("%s_%s_%d", doc.SubjectID, kind, i)
		var embeddingJSON any
		if l.embedder != nil {
			if vec, err := l.embedder.GenerateEmbedding(ctx, raw.Text); err == nil {
				if data, err := json.Marshal(vec); err == nil {
					embeddingJSON = string(data)
				}
			} else {
				fmt.Fprintf(os.Stderr, "Warning: embedding failed for %s: %v\n", itemID, err)
			}
		}

		_, err := l.db.ExecContext(ctx, `
			INSERT OR REPLACE INTO source_items (item_id, subject_id, kind, author_name, text, embedding)
			VALUES (?, ?, ?, ?, ?, ?)
		`, itemID, doc.SubjectID, string(kind), doc.AuthorName, raw.Text, embeddingJSON)
		if err != nil {
			return count, fmt.Errorf("failed to insert item %s: %w", itemID, err)
		}
		count++
	}

	return count, nil
}

// FetchContent returns bounded per-kind lists for a subject and topic,
// most relevant first. When the topic search matches nothing, it falls
// back to everything stored for the subject so generation is never left
// without grounding.
func (l *Library) FetchContent(ctx context.Context, subjectID, topic string, limitPerKind int) (*models.ContentBundle, error) {
	if limitPerKind <= 0 {
		limitPerKind = 20
	}

	bundle := &models.ContentBundle{}
	for _, kind := range []models.ContentKind{models.KindPosition, models.KindQuote, models.KindArgument, models.KindWorkExcerpt} {
		items, err := l.searchKind(ctx, subjectID, kind, topic, limitPerKind)
		if err != nil {
			return nil, err
		}
		switch kind {
		case models.KindPosition:
			bundle.Positions = items
		case models.KindQuote:
			bundle.Quotes = items
		case models.KindArgument:
			bundle.Arguments = items
		case models.KindWorkExcerpt:
			bundle.WorkExcerpts = items
		}
	}

	if l.embedder != nil && topic != "" {
		if err := l.rerank(ctx, topic, bundle); err != nil {
			// Rerank is an enhancement; keyword ordering remains usable
			fmt.Fprintf(os.Stderr, "Warning: semantic rerank failed: %v\n", err)
		}
	}

	return bundle, nil
}

// searchKind runs the keyword search for one kind, with the author-wide fallback
func (l *Library) searchKind(ctx context.Context, subjectID string, kind models.ContentKind, topic string, limit int) ([]models.ContentItem, error) {
	scored := map[string]*models.ContentItem{}

	for _, keyword := range topicKeywords(topic) {
		pattern := "%" + keyword + "%"
		rows, err := l.db.QueryContext(ctx, `
			SELECT item_id, author_name, text
			FROM source_items
			WHERE subject_id = ? AND kind = ? AND text LIKE ?
			LIMIT ?
		`, subjectID, string(kind), pattern, limit*2)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s items: %w", kind, err)
		}
		if err := scanItems(rows, kind, scored); err != nil {
			return nil, err
		}
	}

	// Fallback cascade: no topic matches, take what the subject has
	if len(scored) == 0 {
		rows, err := l.db.QueryContext(ctx, `
			SELECT item_id, author_name, text
			FROM source_items
			WHERE subject_id = ? AND kind = ?
			ORDER BY created_at
			LIMIT ?
		`, subjectID, string(kind), limit)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s fallback: %w", kind, err)
		}
		if err := scanItems(rows, kind, scored); err != nil {
			return nil, err
		}
	}

	items := make([]models.ContentItem, 0, len(scored))
	for _, item := range scored {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Relevance != items[j].Relevance {
			return items[i].Relevance > items[j].Relevance
		}
		return items[i].ID < items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// scanItems accumulates rows into the score map; repeated keyword hits
// raise an item's relevance
func scanItems(rows *sql.Rows, kind models.ContentKind, scored map[string]*models.ContentItem) error {
	defer rows.Close()
	for rows.Next() {
		var id, author, text string
		if err := rows.Scan(&id, &author, &text); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		if existing, ok := scored[id]; ok {
			existing.Relevance += 1.0
			continue
		}
		scored[id] = &models.ContentItem{
			Kind:       kind,
			ID:         id,
			AuthorName: author,
			Text:       text,
			Relevance:  1.0,
		}
	}
	return rows.Err()
}

// topicKeywords splits a topic into deduplicated lowercase search
// keywords, dropping words too short to discriminate
func topicKeywords(topic string) []string {
	seen := map[string]bool{}
	var keywords []string
	for _, field := range strings.Fields(strings.ToLower(topic)) {
		field = strings.Trim(field, ".,;:!?\"'()")
		if len(field) < 3 || seen[field] {
			continue
		}
		seen[field] = true
		keywords = append(keywords, field)
	}
	return keywords
}
