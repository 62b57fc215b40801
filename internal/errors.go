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

package internal

import (
	"errors"
	"fmt"
)

var missingStr = "must not be nil"

var MissingModel = errors.New(fmt.Sprintf("likelihood model %s", missingStr))
var MissingEvolver = errors.New(fmt.Sprintf("evolution strategy %s", missingStr))

var DegenerateBounds = errors.New("prior bounds must have positive width in every dimension")
var EnsembleTooSmall = errors.New("active ensemble needs at least two points")
var ResampleExhausted = errors.New("resampling budget exhausted without clearing the likelihood constraint")
