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

// Package nest implements nested sampling for Bayesian evidence and
// posterior estimation of point-like sources.
//
// Package nest provides the Sampler, which keeps a fixed-size ensemble of
// active source hypotheses and repeatedly replaces the lowest-likelihood
// member with a point evolved under a rising likelihood constraint. Each
// discarded point, weighted by a geometrically shrinking slice of prior
// mass, contributes to the accumulated log-evidence, to an information
// estimate, and to a weighted posterior trace.
//
// The algorithm follows "Nested Sampling for General Bayesian Computation"
// by Skilling (see https://doi.org/10.1214/06-BA127); the evolution
// strategies it drives live in the sample package.
package nest
