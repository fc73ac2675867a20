package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"sentimentMarket/internal/domain"
	"sentimentMarket/internal/timealign"
)

// Output columns appended after the input columns, in fixed order.
var resultHeaders = []string{
	"Sentiment_Score",
	"Vol_5m_%", "Price_Chg_5m_%",
	"Vol_30m_%", "Price_Chg_30m_%",
	"Vol_60m_%", "Price_Chg_60m_%",
	"Vol_Day_%", "Price_Chg_Day_%",
	"AI_Correct",
}

// WriteResults writes the full result table: the input columns (Date/Time
// normalized where parseable) followed by the computed columns. Write
// failures are fatal to the run.
func WriteResults(path string, table *domain.ResultTable, extraHeaders []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{colHeadline, colDate, colTime}, extraHeaders...)
	header = append(header, resultHeaders...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing output header: %w", err)
	}

	for _, row := range table.Rows {
		art := row.Article
		record := []string{
			art.Headline,
			timealign.NormalizeDate(art.RawDate),
			timealign.NormalizeClock(art.RawTime),
		}
		for _, name := range extraHeaders {
			record = append(record, art.Extra[name])
		}
		record = append(record, formatFloat(art.Sentiment))
		for _, v := range row.Metrics.Values() {
			record = append(record, formatFloat(v))
		}
		record = append(record, row.Label.Cell())

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing output row %d: %w", art.Row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteBars writes a bar series to CSV, used by the fetch_bars diagnostic tool.
func WriteBars(path string, bars []*domain.Bar) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating bars file %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, b := range bars {
		err := writer.Write([]string{
			b.Timestamp.Format(time.RFC3339),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Volume),
		})
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
