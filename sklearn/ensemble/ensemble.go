package ensemble

import (
	"io"

	"github.com/YuminosukeSato/scitree/core/model"
	scierrors "github.com/YuminosukeSato/scitree/pkg/errors"
)

// Ensemble is an ordered list of weighted members.
// Members are appended during training only; a returned Ensemble is frozen
// and safe for concurrent prediction.
type Ensemble struct {
	Mode        Mode
	Aggregation Aggregation
	Members     []Member

	// Classes are the sorted class codes, nil for regression ensembles.
	Classes   []float64
	NFeatures int
	Params    Params

	// Degenerate records rounds that failed to produce a usable member.
	Degenerate []scierrors.DegenerateRoundError

	frozen bool
}

func newEnsemble(s settings, classes []float64, nFeatures int, p Params) *Ensemble {
	return &Ensemble{
		Mode:        s.mode,
		Aggregation: s.aggregation,
		Classes:     classes,
		NFeatures:   nFeatures,
		Params:      p,
	}
}

// NMembers returns the number of committed members.
func (e *Ensemble) NMembers() int {
	return len(e.Members)
}

// IsClassifier reports whether the ensemble predicts class codes.
func (e *Ensemble) IsClassifier() bool {
	return e.Classes != nil
}

// Coefficients returns the member coefficients in commit order.
func (e *Ensemble) Coefficients() []float64 {
	out := make([]float64, len(e.Members))
	for i := range e.Members {
		out[i] = e.Members[i].Coefficient
	}
	return out
}

// commit appends a member. It fails once the ensemble has been frozen.
func (e *Ensemble) commit(m Member) error {
	if e.frozen {
		return scierrors.Newf("ensemble: cannot add member from round %d to a frozen ensemble", m.Round)
	}
	e.Members = append(e.Members, m)
	return nil
}

func (e *Ensemble) recordDegenerate(err error) {
	var d *scierrors.DegenerateRoundError
	if scierrors.As(err, &d) {
		e.Degenerate = append(e.Degenerate, *d)
	}
}

func (e *Ensemble) freeze() {
	e.frozen = true
}

// Save writes the ensemble with gob.
func (e *Ensemble) Save(w io.Writer) error {
	return model.SaveModelToWriter(e, w)
}

// Load reads an ensemble written by Save. The result is frozen.
func Load(r io.Reader) (*Ensemble, error) {
	var e Ensemble
	if err := model.LoadModelFromReader(&e, r); err != nil {
		return nil, err
	}
	e.freeze()
	return &e, nil
}

// SaveFile writes the ensemble to a file.
func (e *Ensemble) SaveFile(path string) error {
	return model.SaveModel(e, path)
}

// LoadFile reads an ensemble from a file written by SaveFile.
func LoadFile(path string) (*Ensemble, error) {
	var e Ensemble
	if err := model.LoadModel(&e, path); err != nil {
		return nil, err
	}
	e.freeze()
	return &e, nil
}
