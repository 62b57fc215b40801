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
	"github.com/gonest-project/gonest/source"
)

// Evolver is the contract every evolution strategy satisfies. Evolve
// receives a surviving ensemble member as seed, the full live ensemble, the
// current likelihood constraint, and the number of likelihood evaluations
// spent so far. It returns a replacement point together with the updated
// evaluation count; every call of the likelihood model counts once.
//
// The strategy is chosen when the nested sampler is constructed and stays
// fixed for the run.
type Evolver interface {
	Evolve(seed source.Source, live []source.Source, constraint float64, calls int) (source.Source, int, error)
}
