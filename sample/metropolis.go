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

package sample

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	gonest "github.com/gonest-project/gonest/internal"
	"github.com/gonest-project/gonest/source"
)

const (
	// metroSteps is the fixed chain length of one evolution.
	metroSteps = 20
	// metroStep is the scalar step size every chain starts from.
	metroStep = 8.0
)

// Metropolis evolves a seed point with a short constrained random walk,
// following the exploration step of Sivia and Skilling, Data Analysis: A
// Bayesian Tutorial (2006), chapter 9.
//
// Proposals are uniform in a per-dimension box around the current state and
// a proposal is accepted when its log-likelihood exceeds the constraint;
// under the uniform prior this walks the constrained prior directly, with
// no acceptance draw. The scalar step size adapts to the running
// acceptance ratio of the chain.
type Metropolis struct {
	lh  source.Likelihood
	b   source.Bounds
	rnd *rand.Rand

	step float64
}

// NewMetropolis returns a Metropolis strategy over the given likelihood
// model and prior bounds. A nil src draws from the globally seeded source.
// The X upper bound normalizes the per-dimension step sizes and must not
// be zero.
func NewMetropolis(lh source.Likelihood, b source.Bounds, src rand.Source) (*Metropolis, error) {
	if lh == nil {
		return nil, gonest.MissingModel
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(err, "metropolis")
	}
	if b.X.Hi == 0 {
		return nil, errors.Wrap(gonest.DegenerateBounds, "metropolis: step normalization needs a nonzero X upper bound")
	}

	m := &Metropolis{lh: lh, b: b, step: metroStep}
	if src != nil {
		m.rnd = rand.New(src)
	}
	return m, nil
}

// Evolve runs a fresh chain of metroSteps proposals from seed, with the
// step size reset to its initial value. Exactly metroSteps likelihood
// evaluations are spent. The returned point never has a lower
// log-likelihood than a seed lying at or below the constraint, but it is
// not guaranteed to clear the constraint on every call: a chain that
// rejects every proposal returns the seed unchanged.
func (m *Metropolis) Evolve(seed source.Source, _ []source.Source, constraint float64, calls int) (source.Source, int, error) {
	m.step = metroStep
	cur := seed
	hits, misses := 0, 0

	for i := 0; i < metroSteps; i++ {
		steps := m.dimSteps()

		var cand source.Source
		for {
			c := cur.Coords()
			for d := range c {
				c[d] += steps[d] * (2*m.uniform() - 1)
			}
			cand = source.FromCoords(c)
			if m.b.Contains(cand) {
				break
			}
		}

		cand.LogL = m.lh.LogLikelihood(cand)
		calls++

		if cand.LogL > constraint {
			cur = cand
			hits++
		} else {
			misses++
		}

		if hits > misses {
			m.step *= math.Exp(1 / float64(hits))
		} else if misses > hits {
			m.step /= math.Exp(1 / float64(misses))
		}
	}
	return cur, calls, nil
}

// dimSteps derives the per-dimension step sizes from the current scalar
// step: X moves by the scalar itself, the remaining dimensions scale it by
// their prior width relative to the X upper bound.
func (m *Metropolis) dimSteps() [4]float64 {
	iv := m.b.Intervals()
	norm := m.step / m.b.X.Hi
	return [4]float64{
		m.step,
		norm * iv[1].Width(),
		norm * iv[2].Width(),
		norm * iv[3].Width(),
	}
}

// StepSize returns the adapted scalar step size after the most recent
// chain.
func (m *Metropolis) StepSize() float64 {
	return m.step
}

func (m *Metropolis) uniform() float64 {
	if m.rnd == nil {
		return rand.Float64()
	}
	return m.rnd.Float64()
}
