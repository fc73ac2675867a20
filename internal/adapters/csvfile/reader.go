package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"sentimentMarket/internal/domain"
)

// Required input columns. Header matching is case-insensitive.
const (
	colHeadline = "Headline"
	colDate     = "Date"
	colTime     = "Time"
)

// InputTable holds the parsed article rows plus the input columns that are
// carried through to the output untouched.
type InputTable struct {
	Articles     []*domain.Article
	ExtraHeaders []string // input columns other than Headline/Date/Time, in file order
}

// ReadArticles loads the input table. A missing file or a header without the
// required columns is a fatal input-load failure; blank headlines within rows
// are kept (they score 0.0 downstream).
func ReadArticles(path string) (*InputTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file %q: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows; missing cells read as empty

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading input file %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("input file %q is empty", path)
	}

	header := records[0]
	idx := map[string]int{}
	var extras []string
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
		switch strings.ToLower(strings.TrimSpace(name)) {
		case strings.ToLower(colHeadline), strings.ToLower(colDate), strings.ToLower(colTime):
		default:
			extras = append(extras, name)
		}
	}

	headlineIdx, ok := idx[strings.ToLower(colHeadline)]
	if !ok {
		return nil, fmt.Errorf("input file %q has no %s column", path, colHeadline)
	}
	dateIdx, ok := idx[strings.ToLower(colDate)]
	if !ok {
		return nil, fmt.Errorf("input file %q has no %s column", path, colDate)
	}
	timeIdx, hasTime := idx[strings.ToLower(colTime)]

	cell := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	articles := make([]*domain.Article, 0, len(records)-1)
	for n, row := range records[1:] {
		art := &domain.Article{
			Row:      n,
			Headline: cell(row, headlineIdx),
			RawDate:  cell(row, dateIdx),
		}
		if hasTime {
			art.RawTime = cell(row, timeIdx)
		}
		if len(extras) > 0 {
			art.Extra = make(map[string]string, len(extras))
			for _, name := range extras {
				art.Extra[name] = cell(row, idx[strings.ToLower(strings.TrimSpace(name))])
			}
		}
		articles = append(articles, art)
	}

	return &InputTable{Articles: articles, ExtraHeaders: extras}, nil
}
