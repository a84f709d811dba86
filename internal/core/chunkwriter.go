// ABOUTME: ChunkWriter assembles per-chunk prompts and streams one unit of output
// ABOUTME: Prior chunks enter the prompt only as delta rollups, never full text
package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/harper/longform/internal/llm"
	"github.com/harper/longform/internal/models"
)

// Digest slice bounds for chunk prompts. Smaller than the extraction
// bounds: every chunk pays this cost, so it stays tight.
const (
	chunkMaxPositions = 10
	chunkMaxQuotes    = 10
	chunkMaxArguments = 5
	chunkMaxExcerpts  = 5
)

// Rollup caps keep prompt size constant regardless of chunk count
const (
	maxRollupClaims = 12
	maxRollupTerms  = 20
)

// ChunkRequest describes one chunk to generate
type ChunkRequest struct {
	Skeleton     *models.Skeleton
	Kind         models.SessionKind
	SubjectLabel string
	ChunkIndex   int
	TotalChunks  int
	TargetWords  int
	PriorDeltas  []models.Delta
}

// ChunkWriter generates one bounded unit of output via the generation client
type ChunkWriter struct {
	client llm.Client
}

// NewChunkWriter creates a writer over an injected generation client
func NewChunkWriter(client llm.Client) *ChunkWriter {
	return &ChunkWriter{client: client}
}

// Write streams one chunk, forwarding fragments to the handler as they
// arrive. A transport error aborts; fragments already forwarded stand.
func (w *ChunkWriter) Write(ctx context.Context, req ChunkRequest, handler llm.FragmentHandler) error {
	system, user := w.BuildPrompt(req)
	// Leave headroom over the word target; tokens run ~1.5 per word
	maxTokens := req.TargetWords * 2
	if maxTokens < 1024 {
		maxTokens = 1024
	}
	return w.client.Stream(ctx, system, user, maxTokens, handler)
}

// BuildPrompt assembles the system and user prompts for one chunk.
// The skeleton's thesis and commitments are restated verbatim as hard
// constraints; prior chunks appear only as their deltas' claims and terms.
func (w *ChunkWriter) BuildPrompt(req ChunkRequest) (system, user string) {
	sk := req.Skeleton

	var sys strings.Builder
	fmt.Fprintf(&sys, "You are writing a long philosophical %s in the voice of %s.\n\n", req.Kind, req.SubjectLabel)
	fmt.Fprintf(&sys, "Central thesis (must hold throughout): %s\n", sk.Thesis)
	if len(sk.Commitments) > 0 {
		sys.WriteString("\nCommitments you must not contradict:\n")
		for _, c := range sk.Commitments {
			fmt.Fprintf(&sys, "- %s\n", c)
		}
	}
	if len(sk.KeyTerms) > 0 {
		sys.WriteString("\nKey terms and their fixed definitions:\n")
		for name, def := range sk.KeyTerms {
			fmt.Fprintf(&sys, "- %s: %s\n", name, def)
		}
	}
	sys.WriteString("\nGround every paragraph in the source material, opening with its citation code (e.g. [P2], [Q1]).\n")
	sys.WriteString("Write flowing prose only: no headings, no lists, no markup of any kind.\n")

	var usr strings.Builder
	fmt.Fprintf(&usr, "Write section %d of %d: %q.\n", req.ChunkIndex+1, req.TotalChunks, sk.SectionLabel(req.ChunkIndex))
	fmt.Fprintf(&usr, "This section must be at least %d words.\n\n", req.TargetWords)

	if digest := sliceDigest(sk.SourceDigest); len(digest) > 0 {
		usr.WriteString("Source material (cite by code):\n")
		for _, line := range digest {
			usr.WriteString(line)
			usr.WriteString("\n")
		}
		usr.WriteString("\n")
	}

	claims, terms := rollupDeltas(req.PriorDeltas)
	if len(claims) > 0 {
		usr.WriteString("Earlier sections already established (do not repeat, do not contradict):\n")
		for _, c := range claims {
			fmt.Fprintf(&usr, "- %s\n", c)
		}
		usr.WriteString("\n")
	}
	if len(terms) > 0 {
		fmt.Fprintf(&usr, "Terms already in use: %s\n", strings.Join(terms, ", "))
	}

	return sys.String(), usr.String()
}

// sliceDigest bounds the digest embedded in a chunk prompt, keeping the
// first N lines of each citation kind so codes stay stable
func sliceDigest(digest []string) []string {
	counts := map[byte]int{}
	limits := map[byte]int{'P': chunkMaxPositions, 'Q': chunkMaxQuotes, 'A': chunkMaxArguments, 'W': chunkMaxExcerpts}

	var out []string
	for _, line := range digest {
		if len(line) < 2 || line[0] != '[' {
			continue
		}
		code := line[1]
		limit, ok := limits[code]
		if !ok {
			continue
		}
		if counts[code] >= limit {
			continue
		}
		counts[code]++
		out = append(out, line)
	}
	return out
}

// rollupDeltas flattens prior deltas into bounded claim and term lists.
// The caps make per-chunk prompt growth constant in the chunk count.
func rollupDeltas(deltas []models.Delta) (claims, terms []string) {
	seenTerm := map[string]bool{}
	for _, d := range deltas {
		for _, c := range d.ClaimsAdded {
			if len(claims) < maxRollupClaims {
				claims = append(claims, c)
			}
		}
		for _, t := range d.TermsUsed {
			if !seenTerm[t] && len(terms) < maxRollupTerms {
				seenTerm[t] = true
				terms = append(terms, t)
			}
		}
	}
	return claims, terms
}
