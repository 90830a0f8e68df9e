package retrieval

import (
	"fmt"
	"strings"

	"github.com/povarna/mf-faq-agent/internal/models"
)

// charsPerToken is the rough character budget per token used to size the
// prompt context without a tokenizer.
const charsPerToken = 4

// truncation reserve: space kept back for the chunk header and ellipsis,
// and the minimum remaining budget worth truncating into.
const (
	truncateReserve      = 50
	minTruncateRemaining = 100
)

// Context is the prompt-ready bundle built from the top chunks.
type Context struct {
	Text       string
	SourceURLs []string
	NumChunks  int
	Chunks     []models.Chunk
}

// PrepareContext assembles the top chunks into a single prompt context
// within the token budget. Source URLs are collected first-seen from ALL
// top chunks, including ones the budget later excludes, so a citation URL
// survives even when its chunk text does not fit.
func PrepareContext(chunks []models.Chunk, maxChunks, maxContextTokens int) Context {
	top := chunks
	if len(top) > maxChunks {
		top = top[:maxChunks]
	}

	maxLength := maxContextTokens * charsPerToken

	var parts []string
	var sourceURLs []string
	seen := make(map[string]bool)
	currentLength := 0

	for i, chunk := range top {
		text := strings.TrimSpace(chunk.Text)
		url := strings.TrimSpace(chunk.SourceURL)

		if url != "" && !seen[url] {
			seen[url] = true
			sourceURLs = append(sourceURLs, url)
		}

		if text == "" {
			continue
		}

		header := fmt.Sprintf("[Chunk %d]\n", i+1)
		formatted := header + text

		if currentLength+len(formatted) > maxLength {
			remaining := maxLength - currentLength - len(header) - truncateReserve
			if remaining > minTruncateRemaining {
				formatted = header + text[:remaining] + "..."
				parts = append(parts, formatted)
				currentLength += len(formatted)
			}
			break
		}

		parts = append(parts, formatted)
		currentLength += len(formatted)
	}

	used := top
	if len(used) > len(parts) {
		used = used[:len(parts)]
	}

	return Context{
		Text:       strings.Join(parts, "\n\n"),
		SourceURLs: sourceURLs,
		NumChunks:  len(parts),
		Chunks:     used,
	}
}
