package entities

import (
	"sort"
	"strings"
)

// Category is a classification code such as LIVRE_BD. The prefix before the
// first underscore is the media family.
type Category string

type CategoryInfo struct {
	Code   Category
	Label  string
	Family string
}

var categories = []CategoryInfo{
	{Code: "LIVRE_BD", Label: "BD", Family: "LIVRE"},
	{Code: "LIVRE_ROMAN", Label: "Roman", Family: "LIVRE"},
	{Code: "LIVRE_JEUNESSE", Label: "Jeunesse", Family: "LIVRE"},
	{Code: "LIVRE_TECHNIQUE", Label: "Technique", Family: "LIVRE"},
	{Code: "LIVRE_EDUCATION", Label: "Education", Family: "LIVRE"},
	{Code: "LIVRE_CULTURE", Label: "Culture", Family: "LIVRE"},
	{Code: "LIVRE_SANTE", Label: "Santé", Family: "LIVRE"},
	{Code: "MUSIQUE_CLASSIQUE", Label: "Classique", Family: "MUSIQUE"},
	{Code: "MUSIQUE_JAZZ", Label: "Jazz", Family: "MUSIQUE"},
	{Code: "MUSIQUE_POP", Label: "Pop", Family: "MUSIQUE"},
	{Code: "MUSIQUE_METAL", Label: "Metal", Family: "MUSIQUE"},
	{Code: "VIDEO_SF", Label: "SF", Family: "VIDEO"},
	{Code: "VIDEO_HISTOIRE", Label: "Histoire", Family: "VIDEO"},
	{Code: "VIDEO_SERIE", Label: "Série", Family: "VIDEO"},
	{Code: "VIDEO_DOCUMENTAIRE", Label: "Documentaire", Family: "VIDEO"},
	{Code: "ARTICLE", Label: "Article", Family: "ARTICLE"},
}

var categoryRank = func() map[Category]int {
	rank := make(map[Category]int, len(categories))
	for i, info := range categories {
		rank[info.Code] = i
	}
	return rank
}()

// Categories returns the catalogue of classification codes in display order.
func Categories() []CategoryInfo {
	return append([]CategoryInfo(nil), categories...)
}

func ParseCategory(raw string) (Category, bool) {
	code := Category(strings.ToUpper(strings.TrimSpace(raw)))
	_, ok := categoryRank[code]
	return code, ok
}

// ParseCategories returns the known codes of raw deduplicated in display
// order, and the entries that matched no code.
func ParseCategories(raw []string) ([]Category, []string) {
	seen := make(map[Category]bool, len(raw))
	known := make([]Category, 0, len(raw))
	var unknown []string
	for _, item := range raw {
		code, ok := ParseCategory(item)
		if !ok {
			unknown = append(unknown, item)
			continue
		}
		if !seen[code] {
			seen[code] = true
			known = append(known, code)
		}
	}
	sort.Slice(known, func(i, j int) bool {
		return categoryRank[known[i]] < categoryRank[known[j]]
	})
	return known, unknown
}
