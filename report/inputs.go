package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/zombar/blogaudit/models"
	"github.com/zombar/blogaudit/slug"
)

// LoadKeywords reads the SEO keyword workbook and returns a URL to target
// keyword map. The workbook has no header row; the keyword sits in the third
// column and the URL in the fifth, an artifact of the export tool.
func LoadKeywords(path string) (map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword rows: %w", err)
	}

	keywords := make(map[string]string)
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		url := strings.TrimSpace(row[4])
		keyword := strings.TrimSpace(row[2])
		if url != "" && keyword != "" {
			keywords[url] = keyword
		}
	}
	return keywords, nil
}

// LoadPerformance reads the analytics export workbook and returns metrics
// keyed by URL slug (trailing path segment). Rows whose page path yields no
// slug are skipped.
func LoadPerformance(path string) (map[string]models.PerformanceMetrics, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open performance file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read performance rows: %w", err)
	}
	if len(rows) < 2 {
		return map[string]models.PerformanceMetrics{}, nil
	}

	index := make(map[string]int)
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	pathCol, ok := index["Page path + query string"]
	if !ok {
		return nil, fmt.Errorf("performance file missing 'Page path + query string' column")
	}

	metrics := make(map[string]models.PerformanceMetrics)
	for _, row := range rows[1:] {
		if pathCol >= len(row) {
			continue
		}
		s := slug.FromURL(row[pathCol])
		if s == "" {
			continue
		}
		metrics[s] = models.PerformanceMetrics{
			TotalViews:        cellInt(row, index, "Views"),
			TotalUsers:        cellInt(row, index, "Total users"),
			TotalSessions:     cellInt(row, index, "Sessions"),
			EngagementRate:    cellFloat(row, index, "Engagement rate"),
			AverageTimeOnPage: cellFloat(row, index, "Average session duration"),
			BounceRate:        cellFloat(row, index, "Bounce rate"),
		}
	}
	return metrics, nil
}

func cellInt(row []string, index map[string]int, name string) int {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(row[i]))
	if err != nil {
		// Analytics exports sometimes render counts as floats.
		if fv, ferr := strconv.ParseFloat(strings.TrimSpace(row[i]), 64); ferr == nil {
			return int(fv)
		}
		return 0
	}
	return v
}

func cellFloat(row []string, index map[string]int, name string) float64 {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return 0
	}
	return v
}
