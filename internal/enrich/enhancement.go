package enrich

import (
	"fmt"
	"strings"

	"techscout/internal/catalog"
	"techscout/internal/services"
)

// enhancement is the wire shape of the model's catalog answer.
type enhancement struct {
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	AIExplanation      string   `json:"ai_explanation"`
	ProjectSuitability []string `json:"project_suitability"`
	LearningDifficulty struct {
		Label       string `json:"label"`
		Stars       []bool `json:"stars"`
		Description string `json:"description"`
	} `json:"learning_difficulty"`
	LogoURL           string `json:"logo_url"`
	LearningResources []struct {
		URL   string `json:"url"`
		Type  string `json:"type"`
		Title string `json:"title"`
	} `json:"learning_resources"`
}

// validate checks the fields the record cannot do without and coerces the
// rest. A missing description or category is a stage failure; sloppy
// resource types and star arrays are repaired instead.
func (e *enhancement) validate() error {
	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		return services.Wrap(services.ErrValidation, "enrich", "enhance", "missing description", nil)
	}
	if _, ok := catalog.ParseCategory(e.Category); !ok {
		return services.Wrap(services.ErrValidation, "enrich", "enhance",
			fmt.Sprintf("unknown category %q", e.Category), nil)
	}
	if len(e.LearningDifficulty.Stars) > 5 {
		e.LearningDifficulty.Stars = e.LearningDifficulty.Stars[:5]
	}
	return nil
}

// apply copies the validated enhancement onto the record.
func (e *enhancement) apply(record *catalog.Record) {
	record.Description = e.Description
	category, _ := catalog.ParseCategory(e.Category)
	record.Category = category
	record.AIExplanation = strings.TrimSpace(e.AIExplanation)

	for _, phrase := range e.ProjectSuitability {
		phrase = strings.TrimSpace(phrase)
		if phrase != "" {
			record.ProjectSuitability = append(record.ProjectSuitability, phrase)
		}
	}

	record.LearningDifficulty = catalog.LearningDifficulty{
		Label:       strings.ToLower(strings.TrimSpace(e.LearningDifficulty.Label)),
		Stars:       e.LearningDifficulty.Stars,
		Description: strings.TrimSpace(e.LearningDifficulty.Description),
	}

	for _, res := range e.LearningResources {
		url := strings.TrimSpace(res.URL)
		if url == "" {
			continue
		}
		record.LearningResources = append(record.LearningResources, catalog.LearningResource{
			URL:   url,
			Type:  catalog.ParseResourceType(res.Type),
			Title: strings.TrimSpace(res.Title),
		})
	}
}
