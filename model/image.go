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

package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/gonest-project/gonest/source"
)

// SourceImage evaluates the model image of a set of point sources on an
// h by w pixel grid. A source adds A*exp(-((x-X)^2+(y-Y)^2)/(2R^2)) to
// every pixel, with x running along columns and y along rows.
func SourceImage(srcs []source.Source, h, w int) *mat.Dense {
	img := mat.NewDense(h, w, nil)
	for _, s := range srcs {
		twoR2 := 2 * s.R * s.R
		for y := 0; y < h; y++ {
			dy := float64(y) - s.Y
			for x := 0; x < w; x++ {
				dx := float64(x) - s.X
				img.Set(y, x, img.At(y, x)+s.A*math.Exp(-(dx*dx+dy*dy)/twoR2))
			}
		}
	}
	return img
}

// Image is a chi-squared likelihood of a single source hypothesis against
// an observed pixel grid with a known uniform noise level. The noise is
// part of the data; the model never synthesizes any.
type Image struct {
	obs      *mat.Dense
	noiseRMS float64
	h, w     int
}

// NewImage returns an Image likelihood over the observation obs. noiseRMS
// is the per-pixel noise standard deviation of the data.
func NewImage(obs *mat.Dense, noiseRMS float64) (*Image, error) {
	if obs == nil {
		return nil, errors.New("model: observed image must not be nil")
	}
	if noiseRMS <= 0 {
		return nil, errors.New("model: noise level must be positive")
	}
	h, w := obs.Dims()
	return &Image{obs: obs, noiseRMS: noiseRMS, h: h, w: w}, nil
}

// LogLikelihood returns minus half the chi-squared of the single-source
// model image against the observation.
func (im *Image) LogLikelihood(s source.Source) float64 {
	twoR2 := 2 * s.R * s.R
	twoVar := 2 * im.noiseRMS * im.noiseRMS
	ll := 0.0
	for y := 0; y < im.h; y++ {
		dy := float64(y) - s.Y
		for x := 0; x < im.w; x++ {
			dx := float64(x) - s.X
			diff := im.obs.At(y, x) - s.A*math.Exp(-(dx*dx+dy*dy)/twoR2)
			ll -= diff * diff / twoVar
		}
	}
	return ll
}
