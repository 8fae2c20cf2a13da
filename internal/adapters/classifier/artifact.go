// Package classifier loads the exported sentiment model and its count
// vectorizer and scores texts with them. Both artifacts are JSON files written
// by the training pipeline; they are read once and never modified.
package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"hotel_insight/internal/domain"
)

// vectorizerFile mirrors the exported CountVectorizer state.
type vectorizerFile struct {
	Vocabulary map[string]int `json:"vocabulary"`
	Lowercase  *bool          `json:"lowercase"`
	NgramRange []int          `json:"ngram_range"`
	Binary     bool           `json:"binary"`
}

// modelFile mirrors the exported logistic regression state.
type modelFile struct {
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// Artifact is a vectorizer paired with a linear model over its features.
type Artifact struct {
	vec   *Vectorizer
	model *linearModel
}

// LoadArtifact reads and cross-checks the model and vectorizer files.
func LoadArtifact(modelPath, vectorizerPath string) (*Artifact, error) {
	var vf vectorizerFile
	if err := readJSON(vectorizerPath, &vf); err != nil {
		return nil, err
	}
	vec, err := newVectorizer(vf)
	if err != nil {
		return nil, &domain.LoadError{Path: vectorizerPath, Reason: "invalid vectorizer", Err: err}
	}

	var mf modelFile
	if err := readJSON(modelPath, &mf); err != nil {
		return nil, err
	}
	model, err := newLinearModel(mf, vec.Features())
	if err != nil {
		return nil, &domain.LoadError{Path: modelPath, Reason: "incompatible with vectorizer", Err: err}
	}
	return &Artifact{vec: vec, model: model}, nil
}

func readJSON(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		reason := "read failed"
		if errors.Is(err, fs.ErrNotExist) {
			reason = "missing"
		}
		return &domain.LoadError{Path: path, Reason: reason, Err: err}
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return &domain.LoadError{Path: path, Reason: "decode failed", Err: err}
	}
	return nil
}

// Classes lists the model's labels in the order it was trained with.
func (a *Artifact) Classes() []domain.Sentiment {
	out := make([]domain.Sentiment, len(a.model.classes))
	copy(out, a.model.classes)
	return out
}

// Predict vectorizes each text and returns the highest-scoring label.
func (a *Artifact) Predict(texts []string) []domain.Sentiment {
	out := make([]domain.Sentiment, len(texts))
	for i, t := range texts {
		out[i] = a.model.predict(a.vec.Transform(t))
	}
	return out
}

type linearModel struct {
	classes   []domain.Sentiment
	coef      [][]float64
	intercept []float64
}

func newLinearModel(mf modelFile, features int) (*linearModel, error) {
	if len(mf.Classes) < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", len(mf.Classes))
	}
	rows := len(mf.Classes)
	if rows == 2 {
		rows = 1 // binary models export a single decision row
	}
	if len(mf.Coef) != rows {
		return nil, fmt.Errorf("coef has %d rows, want %d", len(mf.Coef), rows)
	}
	if len(mf.Intercept) != rows {
		return nil, fmt.Errorf("intercept has %d values, want %d", len(mf.Intercept), rows)
	}
	for i, row := range mf.Coef {
		if len(row) != features {
			return nil, fmt.Errorf("coef row %d has %d features, vectorizer has %d", i, len(row), features)
		}
	}
	m := &linearModel{coef: mf.Coef, intercept: mf.Intercept}
	for _, c := range mf.Classes {
		m.classes = append(m.classes, domain.Sentiment(c))
	}
	return m, nil
}

func (m *linearModel) decision(x map[int]float64) []float64 {
	out := make([]float64, len(m.coef))
	for r, row := range m.coef {
		s := m.intercept[r]
		for idx, v := range x {
			s += row[idx] * v
		}
		out[r] = s
	}
	return out
}

func (m *linearModel) predict(x map[int]float64) domain.Sentiment {
	scores := m.decision(x)
	if len(scores) == 1 {
		if scores[0] > 0 {
			return m.classes[1]
		}
		return m.classes[0]
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return m.classes[best]
}
