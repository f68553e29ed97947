// Package telemetry aggregates per-generation statistics and writes
// structured experiment output.
package telemetry

import (
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/vroomon/genome"
)

// GenerationStats holds the aggregated fitness picture of one generation.
type GenerationStats struct {
	Generation int     `csv:"generation"`
	PopSize    int     `csv:"pop_size"`
	Retained   int     `csv:"retained"`
	Best       float64 `csv:"best"`
	Mean       float64 `csv:"mean"`
	Std        float64 `csv:"std"`
	Worst      float64 `csv:"worst"`

	// Structural drift of the genome pool
	MeanGenomeLen float64 `csv:"mean_genome_len"`
	MaxGenomeLen  int     `csv:"max_genome_len"`
	MinGenomeLen  int     `csv:"min_genome_len"`
}

// Summarize aggregates the scores and genome pool of one generation.
func Summarize(generation int, scores []float64, retained int, dnas []*genome.DNA) GenerationStats {
	s := GenerationStats{
		Generation: generation,
		PopSize:    len(scores),
		Retained:   retained,
	}
	if len(scores) == 0 {
		return s
	}

	s.Best, s.Worst = scores[0], scores[0]
	for _, v := range scores {
		if v > s.Best {
			s.Best = v
		}
		if v < s.Worst {
			s.Worst = v
		}
	}
	s.Mean = stat.Mean(scores, nil)
	if len(scores) > 1 {
		s.Std = stat.StdDev(scores, nil)
	}

	if len(dnas) > 0 {
		lengths := make([]float64, len(dnas))
		s.MaxGenomeLen, s.MinGenomeLen = dnas[0].Len(), dnas[0].Len()
		for i, d := range dnas {
			n := d.Len()
			lengths[i] = float64(n)
			if n > s.MaxGenomeLen {
				s.MaxGenomeLen = n
			}
			if n < s.MinGenomeLen {
				s.MinGenomeLen = n
			}
		}
		s.MeanGenomeLen = stat.Mean(lengths, nil)
	}
	return s
}
