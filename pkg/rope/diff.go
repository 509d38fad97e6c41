package rope

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ========== Rope Diffing ==========

// EditOperation is one splice against a document: replace chars [From, To)
// with Text. A pure insert has From == To; a pure delete has empty Text.
type EditOperation struct {
	From int
	To   int
	Text string
}

// EditsTo computes an edit script that turns r's text into other's. The
// operations are ordered by position in r and do not overlap, so they can
// be fed to ApplyEdits or translated into external change formats.
func (r *Rope) EditsTo(other *Rope) []EditOperation {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(r.String(), other.String(), false)

	var ops []EditOperation
	pos := 0
	for _, d := range diffs {
		n := runeCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += n
		case diffmatchpatch.DiffDelete:
			ops = append(ops, EditOperation{From: pos, To: pos + n})
			pos += n
		case diffmatchpatch.DiffInsert:
			ops = append(ops, EditOperation{From: pos, To: pos, Text: d.Text})
		}
	}
	return mergeAdjacentEdits(ops)
}

// mergeAdjacentEdits folds a delete followed by an insert at the same spot
// into a single replacement.
func mergeAdjacentEdits(ops []EditOperation) []EditOperation {
	if len(ops) < 2 {
		return ops
	}
	merged := ops[:0]
	for _, op := range ops {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.Text == "" && op.From == op.To && op.From == last.To {
				last.Text = op.Text
				continue
			}
		}
		merged = append(merged, op)
	}
	return merged
}

// ApplyEdits replays an edit script produced against r's current text.
// Operations are applied back to front so earlier positions stay valid.
func (r *Rope) ApplyEdits(ops []EditOperation) error {
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if op.To > op.From {
			if err := r.Remove(op.From, op.To); err != nil {
				return err
			}
		}
		if op.Text != "" {
			if err := r.Insert(op.From, op.Text); err != nil {
				return err
			}
		}
	}
	return nil
}
