package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_insight/internal/domain"
)

type ClassMetrics struct {
	Label     domain.Sentiment `json:"label"`
	Precision float64          `json:"precision"`
	Recall    float64          `json:"recall"`
	F1        float64          `json:"f1"`
	Support   int              `json:"support"`
}

type AverageMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// EvaluationReport scores a classifier against a held-out table. Confusion
// rows are actual labels, columns are predicted, both in Labels order.
type EvaluationReport struct {
	Total       int                `json:"total"`
	Accuracy    float64            `json:"accuracy"`
	Labels      []domain.Sentiment `json:"labels"`
	Classes     []ClassMetrics     `json:"classes"`
	MacroAvg    AverageMetrics     `json:"macro_avg"`
	WeightedAvg AverageMetrics     `json:"weighted_avg"`
	Confusion   [][]int            `json:"confusion"`
	Text        string             `json:"text"`
}

// Evaluate predicts every test row and compares against its label.
func Evaluate(clf domain.Classifier, test []domain.LabeledText) EvaluationReport {
	texts := make([]string, len(test))
	actual := make([]domain.Sentiment, len(test))
	for i, row := range test {
		texts[i] = row.Text // missing text was loaded as ""
		actual[i] = row.Label
	}
	predicted := clf.Predict(texts)
	if len(predicted) != len(actual) {
		log.Error().Int("want", len(actual)).Int("got", len(predicted)).Msg("classifier returned wrong prediction count")
		fixed := make([]domain.Sentiment, len(actual))
		copy(fixed, predicted)
		predicted = fixed
	}
	return score(actual, predicted)
}

func score(actual, predicted []domain.Sentiment) EvaluationReport {
	labels := labelOrder(actual, predicted)
	pos := make(map[domain.Sentiment]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}

	cm := make([][]int, len(labels))
	for i := range cm {
		cm[i] = make([]int, len(labels))
	}
	correct := 0
	for i := range actual {
		cm[pos[actual[i]]][pos[predicted[i]]]++
		if actual[i] == predicted[i] {
			correct++
		}
	}

	rep := EvaluationReport{Total: len(actual), Labels: labels, Confusion: cm, Classes: make([]ClassMetrics, 0, len(labels))}
	if len(actual) > 0 {
		rep.Accuracy = float64(correct) / float64(len(actual))
	}
	for i, l := range labels {
		tp := cm[i][i]
		support, predictedN := 0, 0
		for j := range labels {
			support += cm[i][j]
			predictedN += cm[j][i]
		}
		m := ClassMetrics{Label: l, Support: support}
		m.Precision = ratio(tp, predictedN)
		m.Recall = ratio(tp, support)
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		rep.Classes = append(rep.Classes, m)

		rep.MacroAvg.Precision += m.Precision
		rep.MacroAvg.Recall += m.Recall
		rep.MacroAvg.F1 += m.F1
		w := float64(support)
		rep.WeightedAvg.Precision += w * m.Precision
		rep.WeightedAvg.Recall += w * m.Recall
		rep.WeightedAvg.F1 += w * m.F1
	}
	if n := float64(len(labels)); n > 0 {
		rep.MacroAvg.Precision /= n
		rep.MacroAvg.Recall /= n
		rep.MacroAvg.F1 /= n
	}
	if n := float64(len(actual)); n > 0 {
		rep.WeightedAvg.Precision /= n
		rep.WeightedAvg.Recall /= n
		rep.WeightedAvg.F1 /= n
	}
	rep.MacroAvg.Support = len(actual)
	rep.WeightedAvg.Support = len(actual)
	rep.Text = formatReport(rep)
	return rep
}

// ratio is 0 when the denominator is 0.
func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// labelOrder yields the labels seen in either slice: the known set in its
// canonical order, then anything else sorted.
func labelOrder(actual, predicted []domain.Sentiment) []domain.Sentiment {
	seen := map[domain.Sentiment]bool{}
	for _, l := range actual {
		seen[l] = true
	}
	for _, l := range predicted {
		seen[l] = true
	}
	var out, extra []domain.Sentiment
	for _, l := range domain.Sentiments {
		if seen[l] {
			out = append(out, l)
			delete(seen, l)
		}
	}
	for l := range seen {
		extra = append(extra, l)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// formatReport lays the metrics out as a fixed-width text table, 4 digits.
func formatReport(r EvaluationReport) string {
	width := len("weighted avg")
	for _, l := range r.Labels {
		if n := len([]rune(string(l))); n > width {
			width = n
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%*s  %9.4f %9.4f %9.4f %9d\n", width, string(c.Label), c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%*s  %9s %9s %9.4f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(&b, "%*s  %9.4f %9.4f %9.4f %9d\n", width, "macro avg", r.MacroAvg.Precision, r.MacroAvg.Recall, r.MacroAvg.F1, r.MacroAvg.Support)
	fmt.Fprintf(&b, "%*s  %9.4f %9.4f %9.4f %9d\n", width, "weighted avg", r.WeightedAvg.Precision, r.WeightedAvg.Recall, r.WeightedAvg.F1, r.WeightedAvg.Support)
	return b.String()
}

// EvaluationService holds the artifact loaded at startup, or the reason it
// could not be loaded.
type EvaluationService struct {
	clf     domain.Classifier
	loadErr error
	test    []domain.LabeledText
}

func NewEvaluationService(clf domain.Classifier, loadErr error, test []domain.LabeledText) *EvaluationService {
	return &EvaluationService{clf: clf, loadErr: loadErr, test: test}
}

// Report returns the artifact load error unchanged when there is no classifier.
func (s *EvaluationService) Report() (EvaluationReport, error) {
	if s.loadErr != nil {
		return EvaluationReport{}, s.loadErr
	}
	if s.clf == nil {
		return EvaluationReport{}, &domain.LoadError{Path: "", Reason: "no classifier configured"}
	}
	return Evaluate(s.clf, s.test), nil
}
