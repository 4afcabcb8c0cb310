// Package pdfmeta pulls identifying metadata out of paper PDFs.
package pdfmeta

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/citelens/citelens/internal/paper"
)

// DOI pattern: 10.XXXX/... where XXXX is 4+ digits
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// arXiv ID as printed on preprint margins: arXiv:2101.00001v2
var arxivPattern = regexp.MustCompile(`arXiv:(\d{4}\.\d{4,5})(v\d+)?`)

// ExtractDOI extracts a DOI from a PDF file, searching the first few
// pages. An empty result with nil error means no DOI was found.
func ExtractDOI(filePath string) (string, error) {
	text, err := firstPagesText(filePath, 3)
	if err != nil {
		return "", err
	}
	return FindDOI(text), nil
}

// ExtractArXivID extracts an arXiv identifier from a PDF file.
func ExtractArXivID(filePath string) (string, error) {
	text, err := firstPagesText(filePath, 3)
	if err != nil {
		return "", err
	}
	return FindArXivID(text), nil
}

// ExtractTitle attempts to extract the title from a PDF. Best-effort:
// takes the first substantial line of the first page.
func ExtractTitle(filePath string) (string, error) {
	text, err := firstPagesText(filePath, 1)
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line, nil
		}
	}
	return "", nil
}

// firstPagesText collects plain text from the first maxPages pages.
func firstPagesText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if r.NumPage() < maxPages {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// FindDOI finds the first valid DOI in text, normalized for storage.
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		// Remove trailing punctuation
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return paper.NormalizeDOI(match)
		}
	}
	return ""
}

// FindArXivID finds the first arXiv identifier in text.
func FindArXivID(text string) string {
	m := arxivPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

// isValidDOI performs basic validation on a DOI.
func isValidDOI(doi string) bool {
	if len(doi) < 10 {
		return false
	}
	if !strings.HasPrefix(doi, "10.") {
		return false
	}
	slashIdx := strings.Index(doi, "/")
	if slashIdx == -1 || slashIdx >= len(doi)-1 {
		return false
	}
	return true
}

// isHeaderLine checks if a line is likely a header/footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "article") && strings.Contains(lower, "published") {
		return true
	}
	return false
}
