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

// Package model provides concrete likelihood models for the nested
// sampler: a synthetic unimodal peak with a closed-form evidence, and a
// chi-squared likelihood of a point source against an observed pixel grid.
package model

import (
	"math"

	"github.com/pkg/errors"

	"github.com/gonest-project/gonest/source"
)

// Peak is a synthetic likelihood with a single Gaussian mode in parameter
// space. Its evidence under a uniform prior has a closed form, which makes
// it the calibration target for whole runs.
type Peak struct {
	// Center is the location of the mode.
	Center source.Source
	// Sigma holds the per-dimension widths of the mode in (X, Y, A, R)
	// order.
	Sigma [4]float64
	// LogMax is the log-likelihood at the mode.
	LogMax float64
}

// NewPeak returns a Peak with the given mode location, per-dimension widths
// and peak log-likelihood.
func NewPeak(center source.Source, sigma [4]float64, logMax float64) (*Peak, error) {
	for _, sd := range sigma {
		if sd <= 0 {
			return nil, errors.New("model: peak widths must be positive")
		}
	}
	return &Peak{Center: center, Sigma: sigma, LogMax: logMax}, nil
}

// LogLikelihood returns LogMax minus the squared per-dimension distances to
// the mode, each over twice its width squared.
func (p *Peak) LogLikelihood(s source.Source) float64 {
	c := s.Coords()
	m := p.Center.Coords()
	ll := p.LogMax
	for d := range c {
		diff := c[d] - m[d]
		ll -= diff * diff / (2 * p.Sigma[d] * p.Sigma[d])
	}
	return ll
}

// LogEvidence returns the log marginal likelihood of the peak under the
// uniform prior on b. Each dimension contributes the mass of its truncated
// Gaussian inside the prior interval, so the value stays exact even when
// the box clips the mode's tails.
func (p *Peak) LogEvidence(b source.Bounds) float64 {
	m := p.Center.Coords()
	lz := p.LogMax
	for d, iv := range b.Intervals() {
		sd := p.Sigma[d]
		mass := 0.5 * (math.Erf((iv.Hi-m[d])/(sd*math.Sqrt2)) - math.Erf((iv.Lo-m[d])/(sd*math.Sqrt2)))
		lz += math.Log(sd*math.Sqrt(2*math.Pi)*mass) - math.Log(iv.Width())
	}
	return lz
}
