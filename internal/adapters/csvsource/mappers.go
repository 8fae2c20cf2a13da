package csvsource

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// naValues are read as missing cells.
var naValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// frame gives typed cell access to a string-typed dataframe. Columns are
// materialized once; DataFrame.Col copies the whole series on every call.
type frame struct {
	n    int
	cols map[string][]string
}

func newFrame(df dataframe.DataFrame) frame {
	cols := make(map[string][]string, df.Ncol())
	for _, name := range df.Names() {
		cols[name] = df.Col(name).Records()
	}
	return frame{n: df.Nrow(), cols: cols}
}

func (f frame) rows() int { return f.n }

func (f frame) has(col string) bool {
	_, ok := f.cols[col]
	return ok
}

// str returns the trimmed cell, or "" when the column is absent or NA.
func (f frame) str(col string, i int) string {
	vals, ok := f.cols[col]
	if !ok || i >= len(vals) {
		return ""
	}
	s := strings.TrimSpace(vals[i])
	for _, na := range naValues {
		if s == na {
			return ""
		}
	}
	return s
}

// decimal accepts a decimal comma ("8,0"). Non-finite values do not parse.
func (f frame) decimal(col string, i int) (*float64, bool) {
	s := strings.ReplaceAll(f.str(col, i), ",", ".")
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, false
	}
	return &v, true
}

// integer accepts integral floats such as "3.0".
func (f frame) integer(col string, i int) (int, bool) {
	p, ok := f.decimal(col, i)
	if !ok || p == nil || *p != float64(int(*p)) {
		return 0, false
	}
	return int(*p), true
}
