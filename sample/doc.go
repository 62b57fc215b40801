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

// Package sample includes strategies for evolving ensemble members
// under a hard likelihood constraint.
//
// Package sample provides the Evolver interface
// along with different implementations of this interface.
// Its primary purpose is drawing replacement points for the
// nested sampler whose likelihood clears the current constraint.
//
// Implementations differ in what they read: Metropolis walks a
// single seed point, Ellipsoidal fits the whole live ensemble
// and ignores the seed.
package sample
