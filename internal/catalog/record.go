package catalog

import (
	"strings"
	"time"
)

// Category classifies a technology into one of a fixed set of buckets.
type Category string

const (
	CategoryFrontend  Category = "frontend"
	CategoryBackend   Category = "backend"
	CategoryDatabase  Category = "database"
	CategoryMobile    Category = "mobile"
	CategoryDevOps    Category = "devops"
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryLibrary   Category = "library"
	CategoryTool      Category = "tool"
)

var validCategories = map[Category]struct{}{
	CategoryFrontend:  {},
	CategoryBackend:   {},
	CategoryDatabase:  {},
	CategoryMobile:    {},
	CategoryDevOps:    {},
	CategoryLanguage:  {},
	CategoryFramework: {},
	CategoryLibrary:   {},
	CategoryTool:      {},
}

// ParseCategory normalizes a raw category value. Unknown values return an
// empty category and false rather than an error; the record tolerates an
// unset category.
func ParseCategory(raw string) (Category, bool) {
	candidate := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := validCategories[candidate]; ok {
		return candidate, true
	}
	return "", false
}

// Categories returns the valid category values in stable order.
func Categories() []Category {
	return []Category{
		CategoryFrontend,
		CategoryBackend,
		CategoryDatabase,
		CategoryMobile,
		CategoryDevOps,
		CategoryLanguage,
		CategoryFramework,
		CategoryLibrary,
		CategoryTool,
	}
}

// ResourceType classifies a learning resource.
type ResourceType string

const (
	ResourceDocumentation ResourceType = "documentation"
	ResourceTutorial      ResourceType = "tutorial"
	ResourceVideo         ResourceType = "video"
	ResourceBook          ResourceType = "book"
)

// ParseResourceType normalizes a raw resource type, defaulting unknown values
// to documentation so a sloppy collaborator response never drops a resource.
func ParseResourceType(raw string) ResourceType {
	switch ResourceType(strings.ToLower(strings.TrimSpace(raw))) {
	case ResourceTutorial:
		return ResourceTutorial
	case ResourceVideo:
		return ResourceVideo
	case ResourceBook:
		return ResourceBook
	default:
		return ResourceDocumentation
	}
}

// LearningResource points at external material for learning a technology.
type LearningResource struct {
	URL   string       `json:"url"`
	Type  ResourceType `json:"type"`
	Title string       `json:"title"`
}

// LearningDifficulty carries a tier label and an optional five-star boolean
// rating. The label takes precedence when both are present.
type LearningDifficulty struct {
	Label       string `json:"label,omitempty"`
	Stars       []bool `json:"stars,omitempty"`
	Description string `json:"description,omitempty"`
}

// Record is the unit of persisted state: one enriched technology entry.
// The JSON tags are the canonical field names for the local snapshot.
type Record struct {
	Name               string             `json:"name"`
	Slug               string             `json:"slug"`
	Category           Category           `json:"category,omitempty"`
	Description        string             `json:"description,omitempty"`
	AIExplanation      string             `json:"ai_explanation,omitempty"`
	Popularity         int                `json:"popularity"`
	LogoURL            string             `json:"logo_url,omitempty"`
	Homepage           string             `json:"homepage,omitempty"`
	Repo               string             `json:"repo,omitempty"`
	ProjectSuitability []string           `json:"project_suitability,omitempty"`
	LearningDifficulty LearningDifficulty `json:"learning_difficulty,omitzero"`
	LearningResources  []LearningResource `json:"learning_resources,omitempty"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// ClampPopularity forces a score into the [0,100] range.
func ClampPopularity(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Normalize enforces the record invariants before persistence: the slug is
// always derived from the name and popularity is clamped to range.
func (r *Record) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = Slugify(r.Name)
	r.Popularity = ClampPopularity(r.Popularity)
}
