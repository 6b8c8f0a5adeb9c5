package eval

import (
	"fmt"
	"strings"

	"github.com/born-ml/letternet/internal/nn"
)

// Matrix is a confusion matrix indexed [actual][predicted].
type Matrix [][]int

// NewMatrix returns a zeroed numClasses×numClasses matrix.
func NewMatrix(numClasses int) Matrix {
	m := make(Matrix, numClasses)
	for i := range m {
		m[i] = make([]int, numClasses)
	}
	return m
}

// ConfusionMatrix counts matrix[actual][predicted] over samples.
//
// Row c sums to the number of samples whose target is class c. An empty
// dataset yields an all-zero matrix.
func ConfusionMatrix(net *nn.Network, samples []nn.Sample, numClasses int) (Matrix, error) {
	if numClasses < 1 {
		return nil, fmt.Errorf("%w: %d classes", nn.ErrInvalidTarget, numClasses)
	}
	m := NewMatrix(numClasses)
	if len(samples) == 0 {
		return m, nil
	}
	outputs, err := forwardAll(net, samples)
	if err != nil {
		return nil, err
	}
	for i, s := range samples {
		pred := nn.ClassOf(outputs[i])
		actual := nn.ClassOf(s.Target)
		if actual < 0 || actual >= numClasses || pred < 0 || pred >= numClasses {
			return nil, fmt.Errorf("sample %d: %w: class %d predicted as %d with %d classes",
				i, nn.ErrInvalidTarget, actual, pred, numClasses)
		}
		m[actual][pred]++
	}
	return m, nil
}

// ComputeConfusionMatrix is ConfusionMatrix for inputs paired with integer
// class labels.
func ComputeConfusionMatrix(net *nn.Network, images [][]float64, labels []int, numClasses int) (Matrix, error) {
	samples, err := labelled(net, images, labels)
	if err != nil {
		return nil, err
	}
	return ConfusionMatrix(net, samples, numClasses)
}

// RowSums returns the number of samples of each actual class.
func (m Matrix) RowSums() []int {
	sums := make([]int, len(m))
	for i, row := range m {
		for _, v := range row {
			sums[i] += v
		}
	}
	return sums
}

// Total returns the number of samples counted.
func (m Matrix) Total() int {
	total := 0
	for _, s := range m.RowSums() {
		total += s
	}
	return total
}

// Accuracy returns the trace divided by the total.
func (m Matrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	correct := 0
	for i := range m {
		correct += m[i][i]
	}
	return float64(correct) / float64(total)
}

// Recall returns the fraction of class c samples predicted as c.
func (m Matrix) Recall(c int) float64 {
	row := 0
	for _, v := range m[c] {
		row += v
	}
	if row == 0 {
		return 0
	}
	return float64(m[c][c]) / float64(row)
}

// Precision returns the fraction of class c predictions that were correct.
func (m Matrix) Precision(c int) float64 {
	col := 0
	for i := range m {
		col += m[i][c]
	}
	if col == 0 {
		return 0
	}
	return float64(m[c][c]) / float64(col)
}

// String renders the matrix with actual classes as rows.
func (m Matrix) String() string {
	var sb strings.Builder
	sb.WriteString("actual\\pred")
	for j := range m {
		fmt.Fprintf(&sb, "%8d", j)
	}
	sb.WriteString("\n")
	for i, row := range m {
		fmt.Fprintf(&sb, "%11d", i)
		for _, v := range row {
			fmt.Fprintf(&sb, "%8d", v)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
