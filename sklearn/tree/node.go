package tree

// Node is one entry of a Tree's node arena.
// Internal nodes route rows with Feature == 1 to Left and Feature == 0 to Right.
type Node struct {
	// Feature is the split feature index, -1 for a leaf.
	Feature int
	// Left is the child index for feature value 1, -1 for a leaf.
	Left int
	// Right is the child index for feature value 0, -1 for a leaf.
	Right int

	Depth            int
	NSamples         int
	WeightedNSamples float64
	Impurity         float64
	// Gain is the information gain of the split, 0 for leaves.
	Gain float64

	// Value is the majority class (classification) or weighted mean (regression).
	Value float64
	// Distribution holds normalised class weights aligned with Tree.Classes.
	Distribution []float64
	// Labels is the label multiset that reached a leaf, nil for internal nodes.
	Labels []float64
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Feature < 0
}

// Tree is a fitted binary decision tree. Nodes[0] is the root.
type Tree struct {
	Nodes []Node

	Criterion       Criterion
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int

	// Classes lists the class codes in ascending order. nil for regression.
	Classes []float64
	// NFeatures is the column count the tree was trained on.
	NFeatures int
	// FeatureSubset restricts the candidate split features. nil means all.
	FeatureSubset []int
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return &t.Nodes[0]
}

// Node returns the node at arena index i.
func (t *Tree) Node(i int) *Node {
	return &t.Nodes[i]
}

// NNodes returns the number of nodes.
func (t *Tree) NNodes() int {
	return len(t.Nodes)
}

// NLeaves returns the number of leaves.
func (t *Tree) NLeaves() int {
	n := 0
	for i := range t.Nodes {
		if t.Nodes[i].IsLeaf() {
			n++
		}
	}
	return n
}

// Depth returns the depth of the deepest node. A single leaf has depth 0.
func (t *Tree) Depth() int {
	d := 0
	for i := range t.Nodes {
		if t.Nodes[i].Depth > d {
			d = t.Nodes[i].Depth
		}
	}
	return d
}

// IsClassifier reports whether the tree predicts class labels.
func (t *Tree) IsClassifier() bool {
	return t.Criterion.IsClassification()
}

// FeatureImportances returns the weighted impurity decrease per feature,
// normalised to sum to 1. All zeros when the tree is a single leaf.
func (t *Tree) FeatureImportances() []float64 {
	imp := make([]float64, t.NFeatures)
	total := 0.0
	for i := range t.Nodes {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			continue
		}
		v := n.WeightedNSamples * n.Gain
		imp[n.Feature] += v
		total += v
	}
	if total > 0 {
		for j := range imp {
			imp[j] /= total
		}
	}
	return imp
}

// Walk visits nodes depth-first, left child before right child.
// Returning false from fn stops the descent below that node.
func (t *Tree) Walk(fn func(index int, n *Node) bool) {
	if len(t.Nodes) == 0 {
		return
	}
	var visit func(i int)
	visit = func(i int) {
		n := &t.Nodes[i]
		if !fn(i, n) || n.IsLeaf() {
			return
		}
		visit(n.Left)
		visit(n.Right)
	}
	visit(0)
}
