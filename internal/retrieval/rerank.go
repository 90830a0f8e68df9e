package retrieval

import (
	"regexp"
	"sort"
	"strings"

	"github.com/povarna/mf-faq-agent/internal/models"
)

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// Document type priorities. Official scheme pages outrank aggregator
// listings; anything else sits at the neutral baseline.
const (
	prioritySchemeDetails = 1.0
	priorityGrowwListing  = 0.8
	priorityDefault       = 0.5
)

const (
	keywordBonusPerWord = 0.05
	keywordBonusMax     = 0.2
	typeBonusScale      = 0.1
	schemeMatchBonus    = 0.1
	minSchemeMatchWord  = 3
)

// Rerank reorders chunks by the base similarity score plus bonuses for
// query keyword overlap, document type priority and scheme name match.
// RerankedScore is set on every chunk; the base Score is untouched.
func Rerank(chunks []models.Chunk, query string) []models.Chunk {
	queryWords := wordSet(strings.ToLower(query))

	reranked := make([]models.Chunk, len(chunks))
	copy(reranked, chunks)

	for i := range reranked {
		chunk := &reranked[i]

		chunkWords := wordSet(strings.ToLower(chunk.Text))
		overlap := 0
		for w := range queryWords {
			if chunkWords[w] {
				overlap++
			}
		}
		keywordBonus := float64(overlap) * keywordBonusPerWord
		if keywordBonus > keywordBonusMax {
			keywordBonus = keywordBonusMax
		}

		typeBonus := (docTypePriority(chunk.DocumentType) - priorityDefault) * typeBonusScale

		schemeBonus := 0.0
		schemeName := strings.ToLower(chunk.SchemeName)
		if schemeName != "" {
			for w := range queryWords {
				if len(w) > minSchemeMatchWord && strings.Contains(schemeName, w) {
					schemeBonus = schemeMatchBonus
					break
				}
			}
		}

		chunk.RerankedScore = chunk.Score + keywordBonus + typeBonus + schemeBonus
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].RerankedScore > reranked[j].RerankedScore
	})

	return reranked
}

func docTypePriority(docType string) float64 {
	switch docType {
	case "scheme_details":
		return prioritySchemeDetails
	case "groww_listing":
		return priorityGrowwListing
	default:
		return priorityDefault
	}
}

func wordSet(s string) map[string]bool {
	words := wordPattern.FindAllString(s, -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
