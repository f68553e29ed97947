package telemetry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/vroomon/genome"
)

func TestSummarize(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dnas := []*genome.DNA{
		genome.Random(rng, 2),
		genome.Random(rng, 4),
		genome.Random(rng, 6),
	}
	scores := []float64{1, 2, 9}

	s := Summarize(3, scores, 2, dnas)

	if s.Generation != 3 || s.PopSize != 3 || s.Retained != 2 {
		t.Errorf("header fields = %+v", s)
	}
	if s.Best != 9 || s.Worst != 1 {
		t.Errorf("best/worst = %v/%v, want 9/1", s.Best, s.Worst)
	}
	if s.Mean != 4 {
		t.Errorf("mean = %v, want 4", s.Mean)
	}
	// Sample standard deviation of {1, 2, 9}
	if want := math.Sqrt(19.0); math.Abs(s.Std-want) > 1e-9 {
		t.Errorf("std = %v, want %v", s.Std, want)
	}
	if s.MeanGenomeLen != 4 || s.MinGenomeLen != 2 || s.MaxGenomeLen != 6 {
		t.Errorf("genome lengths = %v/%d/%d, want 4/2/6", s.MeanGenomeLen, s.MinGenomeLen, s.MaxGenomeLen)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(1, nil, 0, nil)
	if s.Best != 0 || s.Mean != 0 || s.Std != 0 {
		t.Errorf("empty summary should be zero-valued: %+v", s)
	}
}

func TestSummarizeSingleScore(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := Summarize(1, []float64{5}, 1, []*genome.DNA{genome.Random(rng, 3)})
	if s.Best != 5 || s.Worst != 5 || s.Mean != 5 {
		t.Errorf("single-score summary = %+v", s)
	}
	if s.Std != 0 {
		t.Errorf("std of a single score = %v, want 0", s.Std)
	}
}
