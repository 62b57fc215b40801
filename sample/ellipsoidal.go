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
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	gonest "github.com/gonest-project/gonest/internal"
	"github.com/gonest-project/gonest/source"
)

// ellipsoidDim is the dimension of the source parameter space.
const ellipsoidDim = 4

// maxBoxRejects caps the in-bounds rejection loop of a single draw, so an
// ellipsoid lying mostly outside the prior box cannot stall an attempt.
const maxBoxRejects = 1000

// Ellipsoidal evolves the ensemble by sampling uniformly inside a bounding
// ellipsoid of the live points, after "A Nested Sampling Algorithm for
// Cosmological Model Selection" by Mukherjee, Parkinson and Liddle (see
// https://arxiv.org/abs/astro-ph/0508461). The ellipsoid is the live-point
// covariance scaled until it covers the outermost point, optionally
// enlarged, and draws repeat until one clears the likelihood constraint or
// the retry budget runs out.
type Ellipsoidal struct {
	lh          source.Likelihood
	b           source.Bounds
	enlargement float64
	maxAttempts int
	rnd         *rand.Rand
}

// ellipsoid is a fitted sampling region: x = center + l*u maps the unit
// ball to it.
type ellipsoid struct {
	center *mat.VecDense
	l      *mat.TriDense
}

// NewEllipsoidal returns an Ellipsoidal strategy over the given likelihood
// model and prior bounds. enlargement scales the bounding ellipsoid, with 1
// meaning the tightest cover of the live points; maxAttempts is the retry
// budget of a single Evolve before it reports ResampleExhausted. A nil src
// draws from the globally seeded source.
func NewEllipsoidal(lh source.Likelihood, b source.Bounds, enlargement float64, maxAttempts int, src rand.Source) (*Ellipsoidal, error) {
	if lh == nil {
		return nil, gonest.MissingModel
	}
	if err := b.Validate(); err != nil {
		return nil, errors.Wrap(err, "ellipsoidal")
	}
	if enlargement <= 0 {
		return nil, errors.New("ellipsoidal: enlargement factor must be positive")
	}
	if maxAttempts < 1 {
		return nil, errors.New("ellipsoidal: retry budget must be at least 1")
	}

	e := &Ellipsoidal{lh: lh, b: b, enlargement: enlargement, maxAttempts: maxAttempts}
	if src != nil {
		e.rnd = rand.New(src)
	}
	return e, nil
}

// Evolve fits one bounding ellipsoid to the live ensemble and draws from it
// until a point's log-likelihood exceeds the constraint. Every evaluated
// draw counts one likelihood call; draws rejected for leaving the prior box
// cost nothing. The seed plays no role in the proposal. When the retry
// budget is spent the strategy returns ResampleExhausted, which callers may
// treat as recoverable.
func (e *Ellipsoidal) Evolve(_ source.Source, live []source.Source, constraint float64, calls int) (source.Source, int, error) {
	el, err := e.fit(live)
	if err != nil {
		return source.Source{}, calls, err
	}

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		cand, ok := e.draw(el)
		if !ok {
			continue
		}
		cand.LogL = e.lh.LogLikelihood(cand)
		calls++
		if cand.LogL > constraint {
			return cand, calls, nil
		}
	}
	return source.Source{}, calls, errors.Wrapf(gonest.ResampleExhausted, "ellipsoidal: %d attempts", e.maxAttempts)
}

// fit computes the bounding ellipsoid of the live points: their covariance
// scaled by the largest squared Mahalanobis distance, times the enlargement
// factor.
func (e *Ellipsoidal) fit(live []source.Source) (*ellipsoid, error) {
	n := len(live)
	if n <= ellipsoidDim {
		return nil, errors.Errorf("ellipsoidal: need more than %d live points, have %d", ellipsoidDim, n)
	}

	pts := mat.NewDense(n, ellipsoidDim, nil)
	for i, s := range live {
		c := s.Coords()
		pts.SetRow(i, c[:])
	}

	center := mat.NewVecDense(ellipsoidDim, nil)
	for d := 0; d < ellipsoidDim; d++ {
		center.SetVec(d, stat.Mean(mat.Col(nil, d, pts), nil))
	}

	cov := mat.NewSymDense(ellipsoidDim, nil)
	stat.CovarianceMatrix(cov, pts, nil)

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		// a nearly coincident ensemble leaves the covariance rank
		// deficient; a small ridge keeps the fit usable
		ridge := 1e-12 * (1 + mat.Trace(cov))
		for d := 0; d < ellipsoidDim; d++ {
			cov.SetSym(d, d, cov.At(d, d)+ridge)
		}
		if ok := chol.Factorize(cov); !ok {
			return nil, errors.New("ellipsoidal: live ensemble is degenerate")
		}
	}

	diff := mat.NewVecDense(ellipsoidDim, nil)
	sol := mat.NewVecDense(ellipsoidDim, nil)
	factor := 0.0
	for i := 0; i < n; i++ {
		for d := 0; d < ellipsoidDim; d++ {
			diff.SetVec(d, pts.At(i, d)-center.AtVec(d))
		}
		if err := chol.SolveVecTo(sol, diff); err != nil {
			return nil, errors.Wrap(err, "ellipsoidal: mahalanobis solve")
		}
		if d2 := mat.Dot(diff, sol); d2 > factor {
			factor = d2
		}
	}
	factor *= e.enlargement
	if factor <= 0 {
		return nil, errors.New("ellipsoidal: live ensemble is degenerate")
	}

	l := mat.NewTriDense(ellipsoidDim, mat.Lower, nil)
	chol.LTo(l)
	l.ScaleTri(math.Sqrt(factor), l)
	return &ellipsoid{center: center, l: l}, nil
}

// draw samples one point uniformly from the ellipsoid, rejecting draws that
// leave the prior box. ok is false when the rejection cap is hit.
func (e *Ellipsoidal) draw(el *ellipsoid) (source.Source, bool) {
	u := mat.NewVecDense(ellipsoidDim, nil)
	x := mat.NewVecDense(ellipsoidDim, nil)

	for reject := 0; reject < maxBoxRejects; reject++ {
		// uniform direction, radius distributed as r^3 on [0, 1]
		norm := 0.0
		for d := 0; d < ellipsoidDim; d++ {
			v := e.normal()
			u.SetVec(d, v)
			norm += v * v
		}
		if norm == 0 {
			continue
		}
		r := math.Pow(e.uniform(), 1.0/ellipsoidDim) / math.Sqrt(norm)
		u.ScaleVec(r, u)

		x.MulVec(el.l, u)
		x.AddVec(x, el.center)

		var c [4]float64
		for d := 0; d < ellipsoidDim; d++ {
			c[d] = x.AtVec(d)
		}
		cand := source.FromCoords(c)
		if e.b.Contains(cand) {
			return cand, true
		}
	}
	return source.Source{}, false
}

func (e *Ellipsoidal) uniform() float64 {
	if e.rnd == nil {
		return rand.Float64()
	}
	return e.rnd.Float64()
}

func (e *Ellipsoidal) normal() float64 {
	if e.rnd == nil {
		return rand.NormFloat64()
	}
	return e.rnd.NormFloat64()
}
