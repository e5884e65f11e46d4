package analysis

import "strings"

// VocabularyItem explains one word of the analysed line.
type VocabularyItem struct {
	Word         string `json:"word"`
	Root         string `json:"root"`
	Meaning      string `json:"meaning"`
	PartOfSpeech string `json:"partOfSpeech"`
}

// GrammarPoint explains one structure used by the line.
type GrammarPoint struct {
	Structure   string `json:"structure"`
	Explanation string `json:"explanation"`
}

// Result is the analysis of a single line.
type Result struct {
	Vocabulary     []VocabularyItem `json:"vocabulary"`
	GrammarPoints  []GrammarPoint   `json:"grammarPoints"`
	CulturalNuance string           `json:"culturalNuance"`
}

// Empty reports whether the result carries nothing to show.
func (r *Result) Empty() bool {
	return r == nil || (len(r.Vocabulary) == 0 && len(r.GrammarPoints) == 0 && strings.TrimSpace(r.CulturalNuance) == "")
}

// Request is the input to an Analyzer.
type Request struct {
	Text        string
	Translation string
	RequestID   string
}
