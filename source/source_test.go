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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"

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

// flatModel assigns the same likelihood everywhere.
type flatModel struct{}

func (flatModel) LogLikelihood(source.Source) float64 { return -1 }

func TestBounds_Validate(t *testing.T) {
	assert.NoError(t, testBounds().Validate())

	tests := []struct {
		name string
		mod  func(*source.Bounds)
	}{
		{"zero width", func(b *source.Bounds) { b.R = source.Interval{Lo: 5, Hi: 5} }},
		{"inverted", func(b *source.Bounds) { b.A = source.Interval{Lo: 14, Hi: 1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBounds()
			tt.mod(&b)
			assert.Error(t, b.Validate(), "degenerate interval must be rejected")
		})
	}
}

func TestBounds_Contains(t *testing.T) {
	b := testBounds()
	assert.True(t, b.Contains(source.Source{X: 100, Y: 100, A: 7, R: 5}))
	assert.True(t, b.Contains(source.Source{X: 0, Y: 200, A: 1, R: 9}), "interval edges belong to the box")
	assert.False(t, b.Contains(source.Source{X: 100, Y: 100, A: 7, R: 1}))
	assert.False(t, b.Contains(source.Source{X: -0.1, Y: 100, A: 7, R: 5}))
}

func TestBounds_SampleStaysInBox(t *testing.T) {
	b := testBounds()
	src := rand.NewSource(1)
	for i := 0; i < 1000; i++ {
		assert.True(t, b.Contains(b.Sample(src)), "prior draw left the box")
	}
}

func TestBounds_SampleIsUniform(t *testing.T) {
	b := testBounds()
	src := rand.NewSource(3)
	xs := make([]float64, 10000)
	rs := make([]float64, 10000)
	for i := range xs {
		s := b.Sample(src)
		xs[i] = s.X
		rs[i] = s.R
	}
	mx := stat.Mean(xs, nil)
	mr := stat.Mean(rs, nil)
	// means should be around 100 and 5.5
	assert.True(t, mx > 95 && mx < 105, "mean of uniform draws on [0, 200] is off")
	assert.True(t, mr > 5.3 && mr < 5.7, "mean of uniform draws on [2, 9] is off")
}

func TestNewUniformEnsemble(t *testing.T) {
	b := testBounds()
	ens, err := source.NewUniformEnsemble(50, flatModel{}, b, rand.NewSource(7))
	require.NoError(t, err)
	require.Len(t, ens, 50)
	for _, s := range ens {
		assert.True(t, b.Contains(s))
		assert.Equal(t, -1.0, s.LogL, "log-likelihood must be evaluated eagerly")
	}
}

func TestNewUniformEnsemble_Validation(t *testing.T) {
	b := testBounds()

	_, err := source.NewUniformEnsemble(0, flatModel{}, b, nil)
	assert.Error(t, err)

	_, err = source.NewUniformEnsemble(10, nil, b, nil)
	assert.Error(t, err)

	bad := b
	bad.X = source.Interval{Lo: 10, Hi: 10}
	_, err = source.NewUniformEnsemble(10, flatModel{}, bad, nil)
	assert.Error(t, err)
}

func TestSource_Coords(t *testing.T) {
	s := source.Source{X: 1, Y: 2, A: 3, R: 4, LogL: -5}
	assert.Equal(t, [4]float64{1, 2, 3, 4}, s.Coords())

	back := source.FromCoords(s.Coords())
	assert.Equal(t, 0.0, back.LogL, "rebuilt source must not carry a likelihood")
	assert.Equal(t, s.X, back.X)
	assert.Equal(t, s.R, back.R)
}
