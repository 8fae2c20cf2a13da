package cli

import (
	"fmt"
	"io"
	"strings"

	"hotel_insight/internal/app"
)

const width = 55

// PrintInsightReport formats one hotel's insights for the terminal.
func PrintInsightReport(w io.Writer, b app.InsightBundle) {
	border := strings.Repeat("═", width)
	thin := strings.Repeat("─", width)

	title := b.HotelID
	if b.Hotel != nil {
		title = b.Hotel.Name
	}
	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center(truncate(title, width), width))
	fmt.Fprintf(w, "╚%s╝\n", border)

	if b.TotalReviews == 0 {
		fmt.Fprintf(w, "\n  No reviews for %s\n\n", b.HotelID)
		return
	}

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Total Reviews           : %d\n", b.TotalReviews)
	fmt.Fprintf(w, "  Undated Reviews         : %d\n", b.Undated)
	if b.Scores.Count > 0 {
		fmt.Fprintf(w, "  Average Score           : %.2f\n", b.Scores.Mean)
		fmt.Fprintf(w, "  Median Score            : %.2f\n", b.Scores.Median)
		fmt.Fprintf(w, "  Score Range             : %.1f - %.1f\n", b.Scores.Min, b.Scores.Max)
	}
	if b.Nights.Median != nil {
		fmt.Fprintf(w, "  Median Nights           : %.1f\n", *b.Nights.Median)
	}

	if len(b.SentimentCounts) > 0 {
		fmt.Fprintf(w, "\n SENTIMENT\n%s\n", thin)
		for _, c := range b.SentimentCounts {
			fmt.Fprintf(w, "  %-25s %4d  %s\n", c.Key+":", c.Count, bar(c.Count, b.TotalReviews))
		}
	}

	if len(b.MonthlyStays) > 0 {
		fmt.Fprintf(w, "\n STAYS PER MONTH\n%s\n", thin)
		for _, m := range b.MonthlyStays {
			fmt.Fprintf(w, "  %-25s %4d  %s\n", m.Period+":", m.Count, bar(m.Count, b.TotalReviews))
		}
	}

	printWords(w, "TOP POSITIVE WORDS", thin, b.PositiveWords)
	printWords(w, "TOP NEGATIVE WORDS", thin, b.NegativeWords)

	if len(b.Nationality.MedianScores) > 0 {
		fmt.Fprintf(w, "\n MEDIAN SCORE BY NATIONALITY\n%s\n", thin)
		for _, d := range b.Nationality.MedianScores {
			fmt.Fprintf(w, "  %-25s %5.2f  (%d)\n", truncate(d.Key, 24)+":", d.Median, d.Count)
		}
	}

	if len(b.RoomTypes.Labels) > 0 {
		fmt.Fprintf(w, "\n ROOM TYPES\n%s\n", thin)
		for _, l := range b.RoomTypes.Labels {
			fmt.Fprintf(w, "  %s\n", truncate(l.String(), width-2))
		}
	}

	if len(b.Groups.Distribution) > 0 {
		fmt.Fprintf(w, "\n GUEST GROUPS\n%s\n", thin)
		for _, g := range b.Groups.Distribution {
			fmt.Fprintf(w, "  %-25s %4d  %s\n", truncate(g.Key, 24)+":", g.Count, bar(g.Count, b.TotalReviews))
		}
	}

	if len(b.SampleReviews) > 0 {
		fmt.Fprintf(w, "\n SAMPLE REVIEWS\n%s\n", thin)
		for i, r := range b.SampleReviews {
			fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, r.Sentiment, truncate(r.Title, 40))
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func printWords(w io.Writer, heading, thin string, ws app.WordStats) {
	if len(ws.Top) == 0 {
		return
	}
	fmt.Fprintf(w, "\n %s (%d words, %d unique)\n%s\n", heading, ws.Total, ws.Unique, thin)
	for i, c := range ws.Top {
		fmt.Fprintf(w, "  %2d. %-25s %4d\n", i+1, truncate(c.Word, 25), c.Count)
	}
}

// bar scales count against total onto at most 20 cells.
func bar(count, total int) string {
	if total <= 0 || count <= 0 {
		return ""
	}
	n := count * 20 / total
	if n == 0 {
		n = 1
	}
	return strings.Repeat("▓", n)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
