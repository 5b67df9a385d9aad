package analytics

import (
	"math"
	"math/rand"
)

// isolationForest is an ensemble outlier detector: observations are
// isolated by recursive random partitioning, and points that take fewer
// partitions to isolate score as more anomalous. Seeded construction
// keeps scoring deterministic.
type isolationForest struct {
	trees     []*isoNode
	subsample int
}

type isoNode struct {
	left, right *isoNode
	feature     int
	split       float64
	size        int // leaf only
}

const isoSubsampleSize = 256

func newIsolationForest(numTrees int, rng *rand.Rand, data [][]float64) *isolationForest {
	subsample := isoSubsampleSize
	if len(data) < subsample {
		subsample = len(data)
	}
	heightLimit := int(math.Ceil(math.Log2(float64(subsample))))

	f := &isolationForest{subsample: subsample}
	for i := 0; i < numTrees; i++ {
		sample := make([][]float64, subsample)
		for j := range sample {
			sample[j] = data[rng.Intn(len(data))]
		}
		f.trees = append(f.trees, buildIsoTree(sample, 0, heightLimit, rng))
	}
	return f
}

func buildIsoTree(data [][]float64, depth, heightLimit int, rng *rand.Rand) *isoNode {
	if depth >= heightLimit || len(data) <= 1 {
		return &isoNode{size: len(data)}
	}

	features := len(data[0])
	feature := rng.Intn(features)

	min, max := data[0][feature], data[0][feature]
	for _, row := range data {
		if row[feature] < min {
			min = row[feature]
		}
		if row[feature] > max {
			max = row[feature]
		}
	}
	if min == max {
		return &isoNode{size: len(data)}
	}

	split := min + rng.Float64()*(max-min)
	var left, right [][]float64
	for _, row := range data {
		if row[feature] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &isoNode{
		feature: feature,
		split:   split,
		left:    buildIsoTree(left, depth+1, heightLimit, rng),
		right:   buildIsoTree(right, depth+1, heightLimit, rng),
	}
}

// pathLength walks one tree, adding the average-path correction c(n) at
// unsplit leaves.
func (n *isoNode) pathLength(point []float64, depth float64) float64 {
	if n.left == nil && n.right == nil {
		return depth + avgPathLength(n.size)
	}
	if point[n.feature] < n.split {
		return n.left.pathLength(point, depth+1)
	}
	return n.right.pathLength(point, depth+1)
}

// avgPathLength is c(n), the expected path length of an unsuccessful BST
// search over n points.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	const euler = 0.5772156649
	nf := float64(n)
	return 2*(math.Log(nf-1)+euler) - 2*(nf-1)/nf
}

// scores returns the anomaly score s(x) in (0,1] for each point; higher
// means more anomalous.
func (f *isolationForest) scores(data [][]float64) []float64 {
	c := avgPathLength(f.subsample)
	out := make([]float64, len(data))
	for i, point := range data {
		var sum float64
		for _, tree := range f.trees {
			sum += tree.pathLength(point, 0)
		}
		mean := sum / float64(len(f.trees))
		out[i] = math.Pow(2, -mean/c)
	}
	return out
}
