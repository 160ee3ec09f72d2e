package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/povarna/iris-pipeline/internal/dataset"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultTarget   = "species"
	DefaultTestSize = 0.2
	DefaultSeed     = 522
)

// PrepareFeaturesAndTarget splits df into the feature frame (every column
// except target) and the target series.
func PrepareFeaturesAndTarget(df dataframe.DataFrame, target string) (dataframe.DataFrame, series.Series, error) {
	if !dataset.HasColumn(df, target) {
		return dataframe.DataFrame{}, series.Series{}, fmt.Errorf("target column %q not found in dataframe", target)
	}

	X := df.Drop(target)
	if X.Err != nil {
		return dataframe.DataFrame{}, series.Series{}, fmt.Errorf("failed to drop target: %w", X.Err)
	}
	return X, df.Col(target).Copy(), nil
}

// ToMatrix copies the numeric columns of df into a dense row-major matrix.
func ToMatrix(df dataframe.DataFrame) (*mat.Dense, error) {
	r, c := df.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("empty feature frame (%d x %d)", r, c)
	}

	m := mat.NewDense(r, c, nil)
	for j, name := range df.Names() {
		values := df.Col(name).Float()
		for i, v := range values {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("column %q row %d is not numeric", name, i)
			}
			m.Set(i, j, v)
		}
	}
	return m, nil
}

// TrainTestSplit shuffles 0..n-1 with seed and holds out ceil(n*testSize)
// indices for testing.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	nTest := int(math.Ceil(float64(n) * testSize))
	if n < 2 || nTest >= n {
		return nil, nil, fmt.Errorf("cannot split %d samples with test size %v", n, testSize)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// StratifiedKFold assigns indices to k test folds so each fold holds roughly
// the same share of every class. Per-class fold sizes come from dealing the
// class-sorted labels round-robin; each class then fills its folds with
// contiguous blocks of its indices in original order, fold 0 first. Classes
// are ordered by first appearance. This matches sklearn's unshuffled
// StratifiedKFold.
func StratifiedKFold(y []string, k int) ([][]int, error) {
	if k < 2 || k > len(y) {
		return nil, fmt.Errorf("cannot make %d folds from %d samples", k, len(y))
	}

	var classes []string
	code := map[string]int{}
	byClass := map[string][]int{}
	for i, label := range y {
		if _, ok := code[label]; !ok {
			code[label] = len(classes)
			classes = append(classes, label)
		}
		byClass[label] = append(byClass[label], i)
	}

	encoded := make([]int, len(y))
	for i, label := range y {
		encoded[i] = code[label]
	}
	sort.Ints(encoded)

	alloc := make([][]int, k)
	for f := range alloc {
		alloc[f] = make([]int, len(classes))
		for j := f; j < len(encoded); j += k {
			alloc[f][encoded[j]]++
		}
	}

	folds := make([][]int, k)
	for c, label := range classes {
		f, used := 0, 0
		for _, i := range byClass[label] {
			for used == alloc[f][c] {
				f++
				used = 0
			}
			folds[f] = append(folds[f], i)
			used++
		}
	}
	for _, f := range folds {
		sort.Ints(f)
	}
	return folds, nil
}

func rowsOf(X *mat.Dense, idx []int) *mat.Dense {
	_, c := X.Dims()
	out := mat.NewDense(len(idx), c, nil)
	for i, r := range idx {
		out.SetRow(i, X.RawRowView(r))
	}
	return out
}

func labelsOf(y []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, r := range idx {
		out[i] = y[r]
	}
	return out
}

func classesOf(y []string) []string {
	seen := map[string]struct{}{}
	var classes []string
	for _, label := range y {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		classes = append(classes, label)
	}
	sort.Strings(classes)
	return classes
}
