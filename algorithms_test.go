package dx7

import "testing"

func TestEveryAlgorithmHasExactlyOneFeedbackOperator(t *testing.T) {
	for i, a := range algorithms {
		if a.feedbackOp < 0 || a.feedbackOp > 5 {
			t.Fatalf("algorithm %d: feedbackOp = %d, want 0-5", i, a.feedbackOp)
		}
	}
}

func TestEveryAlgorithmHasAtLeastOneCarrier(t *testing.T) {
	for i, a := range algorithms {
		count := 0
		for _, c := range a.carrier {
			if c {
				count++
			}
		}
		if count == 0 {
			t.Fatalf("algorithm %d: no carrier operators", i)
		}
	}
}

func TestEveryOperatorIsReachableFromSomeCarrier(t *testing.T) {
	for i, a := range algorithms {
		reachable := [6]bool{}
		var mark func(op int)
		mark = func(op int) {
			if reachable[op] {
				return
			}
			reachable[op] = true
			for _, mod := range a.modulators[op] {
				mark(mod)
			}
		}
		for op := 0; op < 6; op++ {
			if a.carrier[op] {
				mark(op)
			}
		}
		for op := 0; op < 6; op++ {
			if !reachable[op] {
				t.Fatalf("algorithm %d: operator %d is not reachable from any carrier", i, op)
			}
		}
	}
}

func TestAlgorithmModulatorsAreHigherIndexThanTarget(t *testing.T) {
	// computeVoiceBlock relies on processing operators from 5 down to 0;
	// that only produces correct output if every modulator has a higher
	// index than the operator it feeds.
	for i, a := range algorithms {
		for op := 0; op < 6; op++ {
			for _, mod := range a.modulators[op] {
				if mod <= op {
					t.Fatalf("algorithm %d: operator %d modulated by %d, which is not higher-indexed", i, op, mod)
				}
			}
		}
	}
}
