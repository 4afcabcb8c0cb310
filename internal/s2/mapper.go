package s2

import (
	"github.com/citelens/citelens/internal/paper"
)

// MapPaper converts a Graph API paper to the domain Paper type.
func MapPaper(p Paper) paper.Paper {
	names := make([]string, len(p.Authors))
	for i, a := range p.Authors {
		names[i] = a.Name
	}

	return paper.Paper{
		Title:    p.Title,
		DOI:      paper.NormalizeDOI(p.ExternalIDs.DOI),
		ArXivID:  paper.NormalizeArXivID(p.ExternalIDs.ArXiv),
		Year:     p.Year,
		Venue:    p.Venue,
		Abstract: p.Abstract,
		URL:      p.URL,
		Authors:  paper.AuthorsFromNames(names),
		Source:   paper.PlatformSemanticScholar,
	}
}
