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

package nest

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	gonest "github.com/gonest-project/gonest/internal"
	"github.com/gonest-project/gonest/sample"
	"github.com/gonest-project/gonest/source"
)

// logZero starts the evidence accumulator. It stays finite so the first
// information update multiplies an exact zero by a finite value; negative
// infinity would turn that product into NaN.
const logZero = -1e300

// Params holds the configuration of a Sampler.
type Params struct {
	// Live is the initial active ensemble with log-likelihoods already
	// evaluated, normally built by source.NewUniformEnsemble. At least
	// two points are required.
	Live []source.Source

	// Model is the likelihood the run explores.
	Model source.Likelihood

	// Evolver replaces discarded points under the likelihood constraint.
	Evolver sample.Evolver

	// MaxIter is the number of main-loop iterations.
	MaxIter int

	// Src drives survivor selection. Nil draws from the globally seeded
	// source.
	Src rand.Source

	// Logger, when set, reports per-iteration progress at debug level
	// and a run summary at info level.
	Logger *zap.Logger

	// StopFrac, when positive, ends the run early once the largest
	// possible remaining evidence gain drops below this fraction of the
	// evidence accumulated so far. Zero keeps the fixed iteration count.
	StopFrac float64

	// FoldLive folds the final live points into the evidence after the
	// loop, each carrying an equal share of the remaining prior mass.
	FoldLive bool
}

// Sampler runs the nested-sampling main loop.
type Sampler struct {
	Params *Params

	logger *zap.Logger
	rnd    *rand.Rand
}

// Result is the output of one run.
type Result struct {
	// Ensemble is the final active set.
	Ensemble []source.Source

	// Posterior is the discarded-point trace, one entry per iteration,
	// each carrying its log importance weight.
	Posterior []source.Source

	// LogEvidence is the accumulated log of the marginal likelihood.
	LogEvidence float64

	// Information is Skilling's H, the expected log ratio of posterior
	// to prior density, in nats.
	Information float64

	// LikelihoodCalls counts every likelihood evaluation of the run,
	// including the ones spent building the initial ensemble.
	LikelihoodCalls int

	// Iterations is the number of main-loop iterations executed.
	Iterations int
}

// New returns a Sampler with default behavior: no logging, no early stop,
// no live-point folding, survivor selection from the globally seeded
// source.
func New(live []source.Source, lh source.Likelihood, ev sample.Evolver, maxIter int) (*Sampler, error) {
	return NewFromParams(&Params{Live: live, Model: lh, Evolver: ev, MaxIter: maxIter})
}

// NewFromParams returns a Sampler configured by p.
func NewFromParams(p *Params) (*Sampler, error) {
	if p.Model == nil {
		return nil, gonest.MissingModel
	}
	if p.Evolver == nil {
		return nil, gonest.MissingEvolver
	}
	if len(p.Live) < 2 {
		return nil, gonest.EnsembleTooSmall
	}
	if p.MaxIter < 1 {
		return nil, errors.New("nest: iteration count must be positive")
	}
	if p.StopFrac < 0 {
		return nil, errors.New("nest: stop fraction must not be negative")
	}

	s := &Sampler{Params: p, logger: p.Logger}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if p.Src != nil {
		s.rnd = rand.New(p.Src)
	}
	return s, nil
}

// Fit runs the main loop and returns the run's result. The caller's
// ensemble slice is left untouched.
//
// Evidence accumulates in log space. The prior-mass width of iteration k is
// the closed form log(1-exp(-1/N)) - k/N, so the width sequence carries no
// rounding drift. Each iteration discards the worst live point into the
// posterior trace, raises the likelihood constraint to that point's level,
// and evolves a surviving member into a replacement.
func (s *Sampler) Fit() (*Result, error) {
	p := s.Params
	n := len(p.Live)

	live := make([]source.Source, n)
	copy(live, p.Live)
	logL := make([]float64, n)
	for i, pt := range live {
		logL[i] = pt.LogL
	}

	logZ := logZero
	info := 0.0
	calls := n
	logW0 := math.Log(1 - math.Exp(-1/float64(n)))
	posterior := make([]source.Source, 0, p.MaxIter)

	iters := 0
	for k := 0; k < p.MaxIter; k++ {
		logWidth := logW0 - float64(k)/float64(n)

		worst := floats.MinIdx(logL)
		best := floats.MaxIdx(logL)

		w := live[worst]
		w.LogWt = logWidth + w.LogL
		live[worst] = w

		// largest conceivable gain of the remaining volume, against
		// the evidence before this iteration's update
		stop := live[best].LogL + logWidth - logZ

		newZ := floats.LogSumExp([]float64{logZ, w.LogWt})
		info = math.Exp(w.LogWt-newZ)*w.LogL + math.Exp(logZ-newZ)*(info+logZ) - newZ
		logZ = newZ

		posterior = append(posterior, w)
		constraint := w.LogL

		seed := s.intn(n)
		for seed == worst {
			seed = s.intn(n)
		}

		evolved, c, err := p.Evolver.Evolve(live[seed], live, constraint, calls)
		if err != nil {
			return nil, errors.Wrapf(err, "nest: iteration %d", k+1)
		}
		calls = c
		live[worst] = evolved
		logL[worst] = evolved.LogL

		iters = k + 1
		s.logger.Debug("nested sampling iteration",
			zap.Int("iteration", iters),
			zap.Float64("constraint", constraint),
			zap.Float64("log_width", logWidth),
			zap.Float64("log_evidence", logZ),
			zap.Float64("stop", stop),
			zap.Int("likelihood_calls", calls),
		)

		if p.StopFrac > 0 && math.Exp(stop) < p.StopFrac {
			break
		}
	}

	res := &Result{
		Ensemble:        live,
		Posterior:       posterior,
		LogEvidence:     logZ,
		Information:     info,
		LikelihoodCalls: calls,
		Iterations:      iters,
	}
	if p.FoldLive {
		foldLive(res, n, iters)
	}

	s.logger.Info("nested sampling run complete",
		zap.Int("iterations", res.Iterations),
		zap.Float64("log_evidence", res.LogEvidence),
		zap.Float64("information", res.Information),
		zap.Int("likelihood_calls", res.LikelihoodCalls),
		zap.Int("unique_posterior_samples", uniqueSamples(res.Posterior)),
	)
	return res, nil
}

// foldLive adds the remaining live points to the evidence and information,
// each carrying an equal share of the final prior mass. The posterior trace
// keeps its one entry per iteration; the folded weights are recorded on the
// ensemble copies instead.
func foldLive(r *Result, n, iters int) {
	logShare := -float64(iters)/float64(n) - math.Log(float64(n))
	for i, pt := range r.Ensemble {
		pt.LogWt = logShare + pt.LogL
		newZ := floats.LogSumExp([]float64{r.LogEvidence, pt.LogWt})
		r.Information = math.Exp(pt.LogWt-newZ)*pt.LogL +
			math.Exp(r.LogEvidence-newZ)*(r.Information+r.LogEvidence) - newZ
		r.LogEvidence = newZ
		r.Ensemble[i] = pt
	}
}

// uniqueSamples counts distinct likelihood values in the trace, a cheap
// proxy for how many genuinely new points the evolution produced.
func uniqueSamples(trace []source.Source) int {
	seen := make(map[float64]struct{}, len(trace))
	for _, pt := range trace {
		seen[pt.LogL] = struct{}{}
	}
	return len(seen)
}

func (s *Sampler) intn(n int) int {
	if s.rnd == nil {
		return rand.Intn(n)
	}
	return s.rnd.Intn(n)
}
