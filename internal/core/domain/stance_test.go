package domain

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(h Hypothesis, p float64) StanceEntry {
	return StanceEntry{Hypothesis: h, EntailProb: NewProbability(p), ContraProb: NewProbability(1 - p)}
}

func assertExactlyOne(t *testing.T, l StanceLabels) {
	t.Helper()
	set := 0
	for _, b := range []bool{l.ProRussia, l.ProUkraine, l.Unsure} {
		if b {
			set++
		}
	}
	assert.Equal(t, 1, set, "labels %+v", l)
}

func TestClassify_Rule(t *testing.T) {
	tests := []struct {
		name string
		seq  StanceSequence
		want StanceLabels
	}{
		{
			name: "nil sequence is unsure",
			seq:  nil,
			want: StanceLabels{Unsure: true},
		},
		{
			name: "empty sequence is unsure",
			seq:  StanceSequence{},
			want: StanceLabels{Unsure: true},
		},
		{
			name: "favour russia only",
			seq:  StanceSequence{entry(HypothesisFavourRussia, 0.95)},
			want: StanceLabels{ProRussia: true},
		},
		{
			name: "against ukraine only",
			seq:  StanceSequence{entry(HypothesisAgainstUkraine, 0.91)},
			want: StanceLabels{ProRussia: true},
		},
		{
			name: "favour ukraine only",
			seq:  StanceSequence{entry(HypothesisFavourUkraine, 0.99)},
			want: StanceLabels{ProUkraine: true},
		},
		{
			name: "against russia only",
			seq:  StanceSequence{entry(HypothesisAgainstRussia, 0.9)},
			want: StanceLabels{ProUkraine: true},
		},
		{
			name: "favour both is unsure",
			seq: StanceSequence{
				entry(HypothesisFavourRussia, 0.95),
				entry(HypothesisFavourUkraine, 0.95),
			},
			want: StanceLabels{Unsure: true},
		},
		{
			name: "against both is unsure",
			seq: StanceSequence{
				entry(HypothesisAgainstRussia, 0.95),
				entry(HypothesisAgainstUkraine, 0.95),
			},
			want: StanceLabels{Unsure: true},
		},
		{
			name: "favour russia and against russia is unsure",
			seq: StanceSequence{
				entry(HypothesisFavourRussia, 0.95),
				entry(HypothesisAgainstRussia, 0.95),
			},
			want: StanceLabels{Unsure: true},
		},
		{
			name: "below threshold is unsure",
			seq:  StanceSequence{entry(HypothesisFavourRussia, 0.89)},
			want: StanceLabels{Unsure: true},
		},
		{
			name: "war hypotheses are ignored",
			seq: StanceSequence{
				entry(HypothesisFavourWar, 0.99),
				entry(HypothesisAgainstConflict, 0.99),
			},
			want: StanceLabels{Unsure: true},
		},
		{
			name: "unparseable score never qualifies",
			seq: StanceSequence{
				{Hypothesis: HypothesisFavourRussia, EntailProb: ParseProbability("high")},
			},
			want: StanceLabels{Unsure: true},
		},
		{
			name: "second matching entry still counts",
			seq: StanceSequence{
				entry(HypothesisFavourUkraine, 0.1),
				entry(HypothesisFavourUkraine, 0.97),
			},
			want: StanceLabels{ProUkraine: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.seq, DefaultThreshold)
			assert.Equal(t, tt.want, got)
			assertExactlyOne(t, got)
		})
	}
}

func TestClassify_ThresholdIsInclusive(t *testing.T) {
	seq := StanceSequence{entry(HypothesisFavourRussia, 0.5)}

	assert.True(t, Classify(seq, 0.5).ProRussia)
	assert.False(t, Classify(seq, 0.5000001).ProRussia)
}

func TestClassify_ZeroThresholdIgnoresInvalidScores(t *testing.T) {
	seq := StanceSequence{
		{Hypothesis: HypothesisFavourUkraine, EntailProb: Probability{}},
	}
	assert.Equal(t, StanceLabels{Unsure: true}, Classify(seq, 0))
}

func randomSequence(r *rand.Rand) StanceSequence {
	hyps := AllHypotheses()
	n := r.Intn(len(hyps) + 1)
	seq := make(StanceSequence, 0, n)
	for _, i := range r.Perm(len(hyps))[:n] {
		e := entry(hyps[i], r.Float64())
		if r.Intn(10) == 0 {
			e.EntailProb = Probability{}
		}
		seq = append(seq, e)
	}
	return seq
}

func TestClassify_ExactlyOneLabelForAnyThreshold(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	thresholds := []float64{0, 0.1, 0.5, 0.75, 0.9, 0.99, 1}

	for i := 0; i < 500; i++ {
		seq := randomSequence(r)
		for _, th := range thresholds {
			assertExactlyOne(t, Classify(seq, th))
		}
	}
}

func TestClassify_RaisingThresholdOnlyMovesTowardUnsure(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		seq := randomSequence(r)
		low := Classify(seq, 0.5)
		high := Classify(seq, 0.99)

		// A record that is unsure at the low threshold may only become
		// pro_* at the high one if both opposing triggers dropped out.
		if low.Unsure && !high.Unsure {
			p := seq.predicates(0.5)
			assert.True(t, (p.favorsRussia || p.againstUkraine) && (p.favorsUkraine || p.againstRussia),
				"unsure record turned %s without conflicting triggers", high)
		}
		// A pro label never flips to the opposite side.
		if low.ProRussia {
			assert.False(t, high.ProUkraine)
		}
		if low.ProUkraine {
			assert.False(t, high.ProRussia)
		}
	}
}

func TestClassify_NonConflictingRecordsAreMonotonic(t *testing.T) {
	seqs := []StanceSequence{
		{entry(HypothesisFavourRussia, 0.95)},
		{entry(HypothesisAgainstRussia, 0.6)},
		{entry(HypothesisAgainstUkraine, 0.995), entry(HypothesisFavourWar, 0.2)},
		{},
	}
	for _, seq := range seqs {
		low := Classify(seq, 0.5)
		high := Classify(seq, 0.99)
		if high.ProRussia {
			assert.True(t, low.ProRussia)
		}
		if high.ProUkraine {
			assert.True(t, low.ProUkraine)
		}
	}
}

func TestClassify_Deterministic(t *testing.T) {
	seq := StanceSequence{
		entry(HypothesisFavourRussia, 0.93),
		entry(HypothesisAgainstUkraine, 0.2),
	}
	assert.Equal(t, Classify(seq, 0.9), Classify(seq, 0.9))
}

func TestClassifier_BindsThreshold(t *testing.T) {
	seq := StanceSequence{entry(HypothesisFavourUkraine, 0.7)}

	assert.True(t, Classifier(0.5)(seq).ProUkraine)
	assert.True(t, Classifier(0.9)(seq).Unsure)
}

func TestStanceSequence_UnmarshalJSON(t *testing.T) {
	data := `[
		{"hypothesis": "This statement is in favour of Russia", "contra_prob": "0.9606", "entail_prob": "0.0394"},
		{"hypothesis": "This statement is against Ukraine", "contra_prob": "0.02", "entail_prob": 0.98},
		"garbage",
		{"hypothesis": "This statement is against Russia", "entail_prob": "n/a"}
	]`

	var seq StanceSequence
	require.NoError(t, json.Unmarshal([]byte(data), &seq))
	require.Len(t, seq, 4)

	assert.Equal(t, HypothesisFavourRussia, seq[0].Hypothesis)
	assert.InDelta(t, 0.0394, seq[0].EntailProb.Value, 1e-9)
	assert.InDelta(t, 0.9606, seq[0].ContraProb.Value, 1e-9)
	assert.True(t, seq[1].EntailProb.AtLeast(0.9))
	assert.Equal(t, StanceEntry{}, seq[2])
	assert.False(t, seq[3].EntailProb.Valid)
	assert.False(t, seq[3].ContraProb.Valid)

	assert.Equal(t, StanceLabels{ProRussia: true}, Classify(seq, 0.9))
}

func TestStanceEntry_UnmarshalJSON_ExactKeys(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		hypothesis Hypothesis
		entail     Probability
		labels     StanceLabels
	}{
		{
			name:   "upper-case keys are ignored",
			data:   `[{"HYPOTHESIS":"This statement is in favour of Russia","Entail_Prob":"0.95"}]`,
			labels: StanceLabels{Unsure: true},
		},
		{
			name:       "mixed-case entail key is ignored",
			data:       `[{"hypothesis":"This statement is in favour of Russia","Entail_prob":"0.95"}]`,
			hypothesis: HypothesisFavourRussia,
			labels:     StanceLabels{Unsure: true},
		},
		{
			name:       "first duplicate score wins",
			data:       `[{"hypothesis":"This statement is in favour of Russia","entail_prob":"0.95","entail_prob":"0.1"}]`,
			hypothesis: HypothesisFavourRussia,
			entail:     NewProbability(0.95),
			labels:     StanceLabels{ProRussia: true},
		},
		{
			name:       "first duplicate hypothesis wins",
			data:       `[{"hypothesis":"This statement is in favour of Ukraine","hypothesis":"This statement is in favour of Russia","entail_prob":0.95}]`,
			hypothesis: HypothesisFavourUkraine,
			entail:     NewProbability(0.95),
			labels:     StanceLabels{ProUkraine: true},
		},
		{
			name:   "non-string hypothesis matches nothing",
			data:   `[{"hypothesis":7,"entail_prob":"0.95"}]`,
			entail: NewProbability(0.95),
			labels: StanceLabels{Unsure: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := ParseStanceSequence(tt.data)
			require.Len(t, seq, 1)
			assert.Equal(t, tt.hypothesis, seq[0].Hypothesis)
			assert.Equal(t, tt.entail, seq[0].EntailProb)
			assert.Equal(t, tt.labels, Classify(seq, DefaultThreshold))
		})
	}
}

func TestParseStanceSequence(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantNil bool
		wantLen int
	}{
		{"empty text", "", true, 0},
		{"null", "null", true, 0},
		{"object", `{"hypothesis": "x"}`, true, 0},
		{"truncated", `[{"hypothesis":`, true, 0},
		{"empty array", "[]", false, 0},
		{"one entry", `[{"hypothesis": "This statement is against war", "entail_prob": "0.1"}]`, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := ParseStanceSequence(tt.text)
			if tt.wantNil {
				assert.Nil(t, seq)
				return
			}
			assert.NotNil(t, seq)
			assert.Len(t, seq, tt.wantLen)
		})
	}
}

func TestStanceSequence_Entailment(t *testing.T) {
	seq := StanceSequence{entry(HypothesisAgainstWar, 0.3)}

	p, ok := seq.Entailment(HypothesisAgainstWar)
	assert.True(t, ok)
	assert.InDelta(t, 0.3, p.Value, 1e-9)

	_, ok = seq.Entailment(HypothesisFavourWar)
	assert.False(t, ok)
}

func TestStanceLabels_IntsAndString(t *testing.T) {
	l := StanceLabels{ProUkraine: true}
	r, u, n := l.Ints()
	assert.Equal(t, []int{0, 1, 0}, []int{r, u, n})
	assert.Equal(t, "pro_ukraine", l.String())
	assert.Equal(t, l, LabelsFromInts(0, 1, 0))

	assert.Equal(t, "pro_russia", StanceLabels{ProRussia: true}.String())
	assert.Equal(t, "unsure", StanceLabels{Unsure: true}.String())
}

func TestValidateThreshold(t *testing.T) {
	assert.NoError(t, ValidateThreshold(0))
	assert.NoError(t, ValidateThreshold(1))
	assert.ErrorIs(t, ValidateThreshold(-0.01), ErrInvalidThreshold)
	assert.ErrorIs(t, ValidateThreshold(1.01), ErrInvalidThreshold)
}

func TestLabelSummary_Add(t *testing.T) {
	var s LabelSummary
	s.Add(StanceLabels{ProRussia: true})
	s.Add(StanceLabels{ProUkraine: true})
	s.Add(StanceLabels{Unsure: true})
	s.Add(StanceLabels{Unsure: true})

	assert.Equal(t, LabelSummary{Records: 4, ProRussia: 1, ProUkraine: 1, Unsure: 2}, s)
}
