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

package sample_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/gonest-project/gonest/sample"
	"github.com/gonest-project/gonest/source"
)

func testBounds() source.Bounds {
	return source.Bounds{
		X: source.Interval{Lo: 0, Hi: 200},
		Y: source.Interval{Lo: 0, Hi: 200},
		A: source.Interval{Lo: 1, Hi: 14},
		R: source.Interval{Lo: 2, Hi: 9},
	}
}

// xRamp scores a source by its X coordinate, so likelihood orderings are
// easy to reason about.
type xRamp struct{}

func (xRamp) LogLikelihood(s source.Source) float64 { return s.X }

func TestMetropolis_StepGrowsWhenAccepting(t *testing.T) {
	b := testBounds()
	m, err := sample.NewMetropolis(xRamp{}, b, rand.NewSource(1))
	require.NoError(t, err)

	seed := source.Source{X: 100, Y: 100, A: 7, R: 5, LogL: 100}
	evolved, calls, err := m.Evolve(seed, nil, -1e12, 0)
	require.NoError(t, err)

	assert.Equal(t, 20, calls, "one evaluation per chain step")
	assert.True(t, m.StepSize() > 8.0, "an all-accepted chain must grow the step")
	assert.True(t, b.Contains(evolved))
}

func TestMetropolis_StepShrinksWhenRejecting(t *testing.T) {
	b := testBounds()
	m, err := sample.NewMetropolis(xRamp{}, b, rand.NewSource(2))
	require.NoError(t, err)

	seed := source.Source{X: 100, Y: 100, A: 7, R: 5, LogL: 100}
	evolved, calls, err := m.Evolve(seed, nil, 1e12, 100)
	require.NoError(t, err)

	assert.Equal(t, 120, calls, "counter must accumulate on top of the passed value")
	assert.True(t, m.StepSize() < 8.0, "an all-rejected chain must shrink the step")
	assert.Equal(t, seed, evolved, "a chain that never accepts returns the seed unchanged")
}

func TestMetropolis_NeverRegresses(t *testing.T) {
	b := testBounds()
	seed := source.Source{X: 50, Y: 120, A: 4, R: 3, LogL: 50}
	for _, s := range []uint64{1, 2, 3, 4, 5} {
		m, err := sample.NewMetropolis(xRamp{}, b, rand.NewSource(s))
		require.NoError(t, err)

		// the seed sits exactly on the constraint, so only strictly
		// better points can be accepted
		evolved, _, err := m.Evolve(seed, nil, seed.LogL, 0)
		require.NoError(t, err)
		assert.True(t, evolved.LogL >= seed.LogL, "chain must not end below its seed")
		assert.True(t, b.Contains(evolved))
	}
}

func TestMetropolis_StaysInBoundsNearCorner(t *testing.T) {
	b := testBounds()
	m, err := sample.NewMetropolis(xRamp{}, b, rand.NewSource(4))
	require.NoError(t, err)

	seed := source.Source{X: 0.5, Y: 0.5, A: 1.1, R: 2.1, LogL: 0.5}
	for i := 0; i < 25; i++ {
		evolved, calls, err := m.Evolve(seed, nil, -1e12, 0)
		require.NoError(t, err)
		assert.Equal(t, 20, calls, "out-of-bounds proposals must not cost evaluations")
		assert.True(t, b.Contains(evolved), "chain escaped the prior box")
	}
}

func TestNewMetropolis_Validation(t *testing.T) {
	b := testBounds()

	_, err := sample.NewMetropolis(nil, b, nil)
	assert.Error(t, err)

	bad := b
	bad.Y = source.Interval{Lo: 3, Hi: 3}
	_, err = sample.NewMetropolis(xRamp{}, bad, nil)
	assert.Error(t, err)

	zeroX := b
	zeroX.X = source.Interval{Lo: -5, Hi: 0}
	_, err = sample.NewMetropolis(xRamp{}, zeroX, nil)
	assert.Error(t, err, "zero X upper bound breaks the step normalization")
}
