package domain

import (
	"sort"
	"time"
)

// Producer is a company known to manufacture a product.
type Producer struct {
	// Name is the producer's display name.
	Name string `json:"name"`

	// City is where the producer is located. Feeds the city filter.
	City string `json:"city,omitempty"`

	// Country is the producer's country.
	Country string `json:"country,omitempty"`
}

// Occurrences summarises where a product appears across the corpus.
type Occurrences struct {
	// Projects lists project identifiers mentioning the product.
	Projects []string `json:"projects"`

	// Companies lists companies mentioning the product.
	Companies []string `json:"companies"`

	// TotalOccurrences is the total mention count.
	TotalOccurrences int `json:"total_occurrences"`
}

// SourceDocument identifies the document a result was drawn from.
// DocumentID is the join key for every side effect. ModifiedAt is kept
// exactly as the server formats it.
type SourceDocument struct {
	Filename   string `json:"filename"`
	ModifiedAt string `json:"modification_date"`
	Tag        string `json:"tag,omitempty"`
	Size       int64  `json:"size"`
	DocumentID string `json:"document_id"`
	ProjectID  string `json:"project_id,omitempty"`
	City       string `json:"city,omitempty"`
	IsStarred  bool   `json:"is_starred,omitempty"`

	// ContributionCount is the server's count at the time of the search.
	ContributionCount int `json:"contribution_count,omitempty"`
}

// ProductResult is the payload of a single strong match.
type ProductResult struct {
	// Product is the product name. An empty name makes the result invalid.
	Product string `json:"product"`

	// Domain is the product's business domain.
	Domain string `json:"domain"`

	// AIDefinition is the generated description of the product.
	AIDefinition string `json:"ai_definition"`

	// Producers is optional.
	Producers []Producer `json:"producers,omitempty"`

	// Occurrences is optional.
	Occurrences *Occurrences `json:"occurrences,omitempty"`

	// SourceDocument is the best document for this product.
	SourceDocument SourceDocument `json:"source_document"`

	// ChunksUsed counts the chunks that contributed to the definition.
	ChunksUsed int `json:"chunks_used"`

	// AllDocumentIDs is optional.
	AllDocumentIDs []string `json:"all_document_ids,omitempty"`
}

// Identity returns the value used to decide whether two results show the
// same product: the source document id, falling back to the product name.
func (p *ProductResult) Identity() string {
	if p == nil {
		return ""
	}
	if p.SourceDocument.DocumentID != "" {
		return p.SourceDocument.DocumentID
	}
	return p.Product
}

// SampleDocument is the subset of SourceDocument shown in a product list.
type SampleDocument struct {
	Filename   string `json:"filename"`
	ModifiedAt string `json:"modification_date"`
	DocumentID string `json:"document_id"`
	ProjectID  string `json:"project_id,omitempty"`
	City       string `json:"city,omitempty"`
}

// ProductListItem is one candidate in a multiple-results outcome.
type ProductListItem struct {
	Product        string         `json:"product"`
	DocumentCount  int            `json:"document_count"`
	ChunkCount     int            `json:"chunk_count"`
	BestMatchScore float64        `json:"best_match_score"`
	SampleDocument SampleDocument `json:"sample_document"`
}

// SortByScore returns a copy of items ordered by descending best match score.
// Items with equal scores keep their arrival order.
func SortByScore(items []ProductListItem) []ProductListItem {
	sorted := make([]ProductListItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BestMatchScore > sorted[j].BestMatchScore
	})
	return sorted
}

// DocumentRef is an entry in a document_groups payload.
type DocumentRef struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	ProjectID  string  `json:"project_id,omitempty"`
	City       string  `json:"city,omitempty"`
	Score      float64 `json:"score,omitempty"`
}

// Contribution is a user-authored annotation on a source document.
type Contribution struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	IsEdited  bool      `json:"is_edited"`
	LikeCount int       `json:"like_count"`
	UserLiked bool      `json:"user_liked"`
	CanEdit   bool      `json:"can_edit"`
}
