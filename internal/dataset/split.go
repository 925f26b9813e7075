package dataset

import (
	"context"
	"fmt"
	"sort"

	"github.com/Tejas1331/stock-volatility-ai/internal/logger"
	"github.com/Tejas1331/stock-volatility-ai/internal/types"
)

// Partition is a chronological split of a fully-labeled dataset. The labels
// are temporally dependent, so the split is contiguous by date - never
// shuffled - and adjacent partitions must not share dates.
type Partition struct {
	Train []types.LabeledRow
	Val   []types.LabeledRow
	Test  []types.LabeledRow
}

// Split partitions rows chronologically by the given ratios. Rows are sorted
// by date before slicing; the caller is expected to pass null-free rows
// (features.CompleteLabeled).
func Split(rows []types.LabeledRow, trainRatio, valRatio float64) (Partition, error) {
	if trainRatio <= 0 || valRatio <= 0 || trainRatio+valRatio >= 1 {
		return Partition{}, fmt.Errorf("invalid split ratios train=%.2f val=%.2f", trainRatio, valRatio)
	}

	sorted := append([]types.LabeledRow(nil), rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	n := len(sorted)
	trainEnd := int(float64(n) * trainRatio)
	valEnd := int(float64(n) * (trainRatio + valRatio))

	p := Partition{
		Train: sorted[:trainEnd],
		Val:   sorted[trainEnd:valEnd],
		Test:  sorted[valEnd:],
	}

	if err := p.Verify(n); err != nil {
		return Partition{}, err
	}
	return p, nil
}

// Verify asserts the chronology and conservation invariants:
// max(train.date) < min(val.date) < min(test.date), and no row lost.
func (p Partition) Verify(inputLen int) error {
	if len(p.Train) == 0 || len(p.Val) == 0 || len(p.Test) == 0 {
		return fmt.Errorf("empty partition: train=%d val=%d test=%d", len(p.Train), len(p.Val), len(p.Test))
	}
	if got := len(p.Train) + len(p.Val) + len(p.Test); got != inputLen {
		return fmt.Errorf("partition lengths %d do not sum to input length %d", got, inputLen)
	}

	trainMax := p.Train[len(p.Train)-1].Date
	valMin := p.Val[0].Date
	valMax := p.Val[len(p.Val)-1].Date
	testMin := p.Test[0].Date

	if !trainMax.Before(valMin) {
		return fmt.Errorf("train/val date overlap: train ends %s, val starts %s", trainMax, valMin)
	}
	if !valMax.Before(testMin) {
		return fmt.Errorf("val/test date overlap: val ends %s, test starts %s", valMax, testMin)
	}
	return nil
}

// LogDistributions reports the label balance per partition. The expansion
// class is expected to be a minority; a partition with a single class is a
// red flag for the downstream classifier.
func (p Partition) LogDistributions(ctx context.Context) {
	for _, part := range []struct {
		name string
		rows []types.LabeledRow
	}{
		{"train", p.Train},
		{"validation", p.Val},
		{"test", p.Test},
	} {
		pos := 0
		for _, r := range part.rows {
			if r.VolExpansion == 1 {
				pos++
			}
		}
		ratio := 0.0
		if len(part.rows) > 0 {
			ratio = float64(pos) / float64(len(part.rows))
		}
		logger.Info(ctx, "Partition label distribution",
			"partition", part.name,
			"rows", len(part.rows),
			"positives", pos,
			"positive_ratio", ratio)
	}
}
