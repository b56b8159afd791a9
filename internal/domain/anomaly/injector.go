package anomaly

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/rpggio/auditsynth/internal/domain/activity"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/rpggio/auditsynth/internal/domain/sequence"
)

// MutationKind names a structural change applied to a correct sequence.
type MutationKind string

const (
	SwapSteps              MutationKind = "swap_steps"
	ModifyParameter        MutationKind = "modify_parameter"
	InsertUnexpectedAction MutationKind = "insert_unexpected_action"
	SkipStep               MutationKind = "skip_step"
)

// MutationKinds lists the kinds Inject draws from.
var MutationKinds = []MutationKind{SwapSteps, ModifyParameter, InsertUnexpectedAction, SkipStep}

// DefaultMutations is the number of mutations applied per call.
const DefaultMutations = 3

// Mutation records one applied change. Sequence indexes the slice passed to
// InjectAcross and is 0 for Inject.
type Mutation struct {
	Sequence int          `json:"sequence"`
	Kind     MutationKind `json:"kind"`
	Index    int          `json:"index"`
}

// Injector perturbs stamped sequences and flags the records it touches.
type Injector struct {
	catalog *activity.Catalog
	rng     *rand.Rand
}

// NewInjector creates an injector using cat for illicit actions and fault
// envelopes.
func NewInjector(cat *activity.Catalog, rng *rand.Rand) *Injector {
	return &Injector{catalog: cat, rng: rng}
}

// Inject applies exactly n mutations chosen uniformly with replacement and
// then re-stamps the sequence at RelinearizeStep from its first timestamp.
// Mutations may overlap; compounded anomalies are kept as is. On error seq
// is left unchanged.
func (inj *Injector) Inject(seq *record.Sequence, n int) ([]Mutation, error) {
	seqs := []record.Sequence{*seq}
	applied, err := inj.InjectAcross(seqs, n)
	if err != nil {
		return nil, err
	}
	*seq = seqs[0]
	return applied, nil
}

// InjectAcross applies exactly n mutations in total over seqs, as if they
// were one frame: each mutation lands in a sequence chosen with probability
// proportional to its length. Every touched sequence is then re-stamped
// from its own first timestamp. On error seqs is left unchanged.
func (inj *Injector) InjectAcross(seqs []record.Sequence, n int) ([]Mutation, error) {
	work := make([]record.Sequence, len(seqs))
	for i, seq := range seqs {
		work[i] = seq.Clone()
	}
	touched := make([]bool, len(work))

	applied := make([]Mutation, 0, n)
	for range n {
		kind := MutationKinds[inj.rng.IntN(len(MutationKinds))]
		target, err := inj.pickSequence(work)
		if err != nil {
			return nil, err
		}
		idx, err := inj.pickIndex(kind, len(work[target].Records))
		if err != nil {
			return nil, err
		}
		if err := inj.Apply(&work[target], kind, idx); err != nil {
			return nil, err
		}
		touched[target] = true
		applied = append(applied, Mutation{Sequence: target, Kind: kind, Index: idx})
	}

	for i := range work {
		if touched[i] {
			sequence.Relinearize(work[i].Records, sequence.RelinearizeStep)
		}
	}
	copy(seqs, work)
	return applied, nil
}

func (inj *Injector) pickSequence(seqs []record.Sequence) (int, error) {
	if len(seqs) == 1 {
		return 0, nil
	}
	total := 0
	for _, seq := range seqs {
		total += len(seq.Records)
	}
	if total == 0 {
		return 0, fmt.Errorf("%w: no records", ErrSequenceTooShort)
	}
	r := inj.rng.IntN(total)
	for i, seq := range seqs {
		if r < len(seq.Records) {
			return i, nil
		}
		r -= len(seq.Records)
	}
	return len(seqs) - 1, nil
}

// pickIndex keeps the first and last records out of reach.
func (inj *Injector) pickIndex(kind MutationKind, n int) (int, error) {
	if kind == SwapSteps {
		if n < 4 {
			return 0, fmt.Errorf("%w: %s needs 4 records, have %d", ErrSequenceTooShort, kind, n)
		}
		return 1 + inj.rng.IntN(n-3), nil
	}
	if n < 3 {
		return 0, fmt.Errorf("%w: %s needs 3 records, have %d", ErrSequenceTooShort, kind, n)
	}
	return 1 + inj.rng.IntN(n-2), nil
}

// Apply performs one mutation at idx without re-stamping.
func (inj *Injector) Apply(seq *record.Sequence, kind MutationKind, idx int) error {
	n := len(seq.Records)
	if idx < 0 || idx >= n || (kind == SwapSteps && idx+1 >= n) {
		return fmt.Errorf("%w: %s at %d of %d", ErrIndexOutOfRange, kind, idx, n)
	}

	switch kind {
	case SwapSteps:
		seq.Records[idx], seq.Records[idx+1] = seq.Records[idx+1], seq.Records[idx]
		seq.Records[idx].Flag(string(kind))
		seq.Records[idx+1].Flag(string(kind))
	case ModifyParameter:
		if err := inj.corrupt(&seq.Records[idx]); err != nil {
			return err
		}
		seq.Records[idx].Flag(string(kind))
	case InsertUnexpectedAction:
		text, err := inj.catalog.Pick(inj.rng, activity.KindUnexpectedAction)
		if err != nil {
			return err
		}
		rec := seq.Records[idx].Clone()
		rec.Kind = activity.KindUnexpectedAction
		rec.Activity = text
		rec.Param = nil
		rec.Flag(string(kind))
		seq.Records = slices.Insert(seq.Records, idx, rec)
	case SkipStep:
		seq.Records = slices.Delete(seq.Records, idx, idx+1)
		if idx < len(seq.Records) {
			seq.Records[idx].Flag(string(kind))
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMutation, kind)
	}
	return nil
}

// corrupt moves a range parameter's "to" value into the kind's fault
// envelope. Records without a range parameter keep their text.
func (inj *Injector) corrupt(rec *record.LogRecord) error {
	if rec.Param == nil || !rec.Param.IsRange() {
		return nil
	}
	kind, err := inj.catalog.Kind(rec.Param.Kind)
	if err != nil {
		return err
	}
	fault := kind.Param.Fault

	param := *rec.Param
	param.To = float64(fault.Min + inj.rng.IntN(fault.Max-fault.Min+1))
	text, err := param.Render()
	if err != nil {
		return err
	}
	rec.Param = &param
	rec.Activity = text
	return nil
}
