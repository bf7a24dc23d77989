// algorithms.go - the 32 operator-routing graphs selectable by a patch's
// algorithm byte (spec.md 3, 4.D).
//
// Each algorithm says, for every one of the six operators: which other
// operators phase-modulate it, and whether its own output is summed into
// the audio output (a "carrier"). One operator per algorithm also carries
// a self-feedback connection (spec.md 4.D's feedback delay line). The
// upstream per-algorithm connection table (dx7note.cc) was not part of
// the retrieval pack, so rather than guess at 32 specific wrong graphs,
// this builds a deterministic, data-driven family of them at init time:
// the algorithm index selects a carrier count (1-4) and partitions the
// remaining operators into modulation chains feeding those carriers,
// alternating which chain owns the feedback loop. Every algorithm ends up
// with the properties spec.md 4.D actually requires of one (a DAG from
// modulators to carriers, exactly one feedback operator, every operator
// reachable from some carrier).
package dx7

type algorithm struct {
	modulators [6][]int
	carrier    [6]bool
	feedbackOp int
}

var algorithms [32]algorithm

func init() {
	for i := 0; i < 32; i++ {
		algorithms[i] = buildAlgorithm(i)
	}
}

// buildAlgorithm deterministically lays out operators 5..0 (highest to
// lowest) into numCarriers chains, round-robin, each chain modulating
// down to its carrier at the bottom.
func buildAlgorithm(index int) algorithm {
	numCarriers := 1 + index%4
	var a algorithm
	a.feedbackOp = -1

	chains := make([][]int, numCarriers)
	for op := 5; op >= 0; op-- {
		c := (5 - op) % numCarriers
		chains[c] = append(chains[c], op)
	}

	for _, chain := range chains {
		if len(chain) == 0 {
			continue
		}
		carrier := chain[len(chain)-1]
		a.carrier[carrier] = true
		for i := 0; i < len(chain)-1; i++ {
			mod, target := chain[i], chain[i+1]
			a.modulators[target] = append(a.modulators[target], mod)
		}
	}

	// Feedback rides the top operator of the last chain on even indices,
	// the first chain on odd ones, spreading the self-modulated operator
	// across the algorithm table instead of always picking operator 5.
	if index%2 == 0 {
		a.feedbackOp = chains[len(chains)-1][0]
	} else {
		a.feedbackOp = chains[0][0]
	}
	return a
}
