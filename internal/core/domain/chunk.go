package domain

// Sourcebook identifies one of the FCA Handbook sourcebooks the demo corpus
// is drawn from. The set is closed; filters reference it by tag.
type Sourcebook string

const (
	SourcebookPRIN  Sourcebook = "PRIN"
	SourcebookSYSC  Sourcebook = "SYSC"
	SourcebookCOBS  Sourcebook = "COBS"
	SourcebookICOBS Sourcebook = "ICOBS"
	SourcebookDISP  Sourcebook = "DISP"
	SourcebookFCG   Sourcebook = "FCG"
)

func AllSourcebooks() []Sourcebook {
	return []Sourcebook{
		SourcebookPRIN,
		SourcebookSYSC,
		SourcebookCOBS,
		SourcebookICOBS,
		SourcebookDISP,
		SourcebookFCG,
	}
}

func (s Sourcebook) Valid() bool {
	switch s {
	case SourcebookPRIN, SourcebookSYSC, SourcebookCOBS, SourcebookICOBS, SourcebookDISP, SourcebookFCG:
		return true
	}
	return false
}

type SourcebookInfo struct {
	Code        Sourcebook `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

func SourcebookCatalogue() []SourcebookInfo {
	return []SourcebookInfo{
		{SourcebookPRIN, "Principles for Businesses", "The fundamental obligations of all regulated firms"},
		{SourcebookSYSC, "Senior Management Arrangements, Systems and Controls", "Organisational requirements for firms"},
		{SourcebookCOBS, "Conduct of Business Sourcebook", "Rules for firms conducting investment business"},
		{SourcebookICOBS, "Insurance: Conduct of Business", "Rules for insurance distribution activities"},
		{SourcebookDISP, "Dispute Resolution: Complaints", "Complaints handling and FOS referral rules"},
		{SourcebookFCG, "Financial Crime Guide", "Guidance on financial crime systems and controls"},
	}
}

type ChunkMetadata struct {
	Sourcebook Sourcebook `json:"sourcebook" yaml:"sourcebook"`
	Section    string     `json:"section" yaml:"section"`
	Title      string     `json:"title" yaml:"title"`
	PageNumber int        `json:"page_number,omitempty" yaml:"page_number,omitempty"`
}

// DocumentChunk is an immutable unit of corpus text. The embedding is
// optional; scoring falls back to lexical similarity when it is absent.
type DocumentChunk struct {
	ID        string        `json:"id" yaml:"id"`
	Text      string        `json:"text" yaml:"text"`
	Metadata  ChunkMetadata `json:"metadata" yaml:"metadata"`
	Embedding []float64     `json:"embedding,omitempty" yaml:"embedding,omitempty"`
}

// RetrievedChunk annotates a DocumentChunk with a method-dependent score and
// a 1-based rank within the current result set. Scores are not comparable
// across retrieval methods.
type RetrievedChunk struct {
	DocumentChunk `yaml:",inline"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
}
