package tree

import (
	"io"

	"github.com/YuminosukeSato/scitree/core/model"
)

// Save writes the tree with gob.
func (t *Tree) Save(w io.Writer) error {
	return model.SaveModelToWriter(t, w)
}

// Load reads a tree written by Save.
func Load(r io.Reader) (*Tree, error) {
	var t Tree
	if err := model.LoadModelFromReader(&t, r); err != nil {
		return nil, err
	}
	return &t, nil
}
