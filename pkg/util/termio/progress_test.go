// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package termio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Progress_01(t *testing.T) {
	var (
		out      strings.Builder
		progress = NewProgressWriter(&out, true)
	)
	//
	progress.Update(1)
	progress.Update(2)
	progress.Finish()
	//
	assert.Equal(t, "\rProgress: 1\rProgress: 2\n", out.String())
	assert.Equal(t, uint(2), progress.Count())
}

func Test_Progress_02(t *testing.T) {
	var (
		out      strings.Builder
		progress = NewProgressWriter(&out, false)
	)
	//
	progress.Update(1)
	progress.Finish()
	//
	assert.Empty(t, out.String())
	assert.Equal(t, uint(1), progress.Count())
}
