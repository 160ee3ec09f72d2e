package model

func Accuracy(y, pred []string) float64 {
	if len(y) == 0 {
		return 0
	}
	correct := 0
	for i := range y {
		if y[i] == pred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y))
}

// ConfusionMatrix counts predictions: cm[i][j] is the number of samples of
// classes[i] predicted as classes[j].
func ConfusionMatrix(classes, y, pred []string) [][]int {
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}

	cm := make([][]int, len(classes))
	for i := range cm {
		cm[i] = make([]int, len(classes))
	}
	for i := range y {
		t, ok1 := index[y[i]]
		p, ok2 := index[pred[i]]
		if ok1 && ok2 {
			cm[t][p]++
		}
	}
	return cm
}
