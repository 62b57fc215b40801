/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package source

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	gonest "github.com/gonest-project/gonest/internal"
)

// Source is a single point-source hypothesis: a position (X, Y) on the
// image plane, an amplitude A and a spatial extent R, together with its
// cached log-likelihood. Sources are plain values; replacing a member of an
// ensemble means overwriting its slot with a new value, so two slots never
// share state.
type Source struct {
	X, Y, A, R float64

	// LogL is the natural-log likelihood of the hypothesis. It is set
	// when the point is created or evolved and never recomputed.
	LogL float64

	// LogWt is the log importance weight. It is assigned only when the
	// point enters a posterior trace or a folded final ensemble.
	LogWt float64
}

// Coords returns the parameter vector in (X, Y, A, R) order.
func (s Source) Coords() [4]float64 {
	return [4]float64{s.X, s.Y, s.A, s.R}
}

// FromCoords builds a Source from a parameter vector in (X, Y, A, R)
// order. The log-likelihood is left unset.
func FromCoords(c [4]float64) Source {
	return Source{X: c[0], Y: c[1], A: c[2], R: c[3]}
}

// Likelihood is the model contract. LogLikelihood must be deterministic in
// the four source parameters; any noise model is part of the
// implementation, not of the call.
type Likelihood interface {
	LogLikelihood(s Source) float64
}

// Interval is a closed prior range for one parameter.
type Interval struct {
	Lo, Hi float64
}

// Width returns Hi - Lo.
func (i Interval) Width() float64 {
	return i.Hi - i.Lo
}

// Contains reports whether v lies within the interval.
func (i Interval) Contains(v float64) bool {
	return v >= i.Lo && v <= i.Hi
}

// Bounds is the uniform prior box over the source parameter space. It is
// fixed for the duration of a run.
type Bounds struct {
	X, Y, A, R Interval
}

// Intervals returns the per-dimension ranges in (X, Y, A, R) order.
func (b Bounds) Intervals() [4]Interval {
	return [4]Interval{b.X, b.Y, b.A, b.R}
}

// Validate checks that every dimension has positive width.
func (b Bounds) Validate() error {
	for _, iv := range b.Intervals() {
		if !(iv.Hi > iv.Lo) {
			return errors.Wrapf(gonest.DegenerateBounds, "interval [%v, %v]", iv.Lo, iv.Hi)
		}
	}
	return nil
}

// Contains reports whether all four parameters of s lie inside the box.
func (b Bounds) Contains(s Source) bool {
	c := s.Coords()
	for d, iv := range b.Intervals() {
		if !iv.Contains(c[d]) {
			return false
		}
	}
	return true
}

// Sample draws a point uniformly from the box. The log-likelihood is left
// unset. A nil src draws from the globally seeded source.
func (b Bounds) Sample(src rand.Source) Source {
	var c [4]float64
	for d, iv := range b.Intervals() {
		c[d] = distuv.Uniform{Min: iv.Lo, Max: iv.Hi, Src: src}.Rand()
	}
	return FromCoords(c)
}

// NewUniformEnsemble draws n independent points from the uniform prior on b
// and evaluates their log-likelihoods. These evaluations are the first n
// likelihood calls of a run.
func NewUniformEnsemble(n int, lh Likelihood, b Bounds, src rand.Source) ([]Source, error) {
	if lh == nil {
		return nil, gonest.MissingModel
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(err, "ensemble")
	}
	if n < 1 {
		return nil, errors.New("ensemble size must be positive")
	}

	ens := make([]Source, n)
	for i := range ens {
		s := b.Sample(src)
		s.LogL = lh.LogLikelihood(s)
		ens[i] = s
	}
	return ens, nil
}
