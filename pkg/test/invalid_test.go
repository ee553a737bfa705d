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
package test

import (
	"testing"

	"github.com/consensys/go-isacost/pkg/test/util"
)

// ===================================================================
// Invalid Tests
// ===================================================================

func Test_Invalid_UnknownValue(t *testing.T) {
	util.CheckInvalid(t, "invalid/unknown_value")
}

func Test_Invalid_UnknownBlock(t *testing.T) {
	util.CheckInvalid(t, "invalid/unknown_block")
}

func Test_Invalid_UnknownInstruction(t *testing.T) {
	util.CheckInvalid(t, "invalid/unknown_instruction")
}

func Test_Invalid_DuplicateDefinition(t *testing.T) {
	util.CheckInvalid(t, "invalid/duplicate_definition")
}

func Test_Invalid_UnknownDeclaration(t *testing.T) {
	util.CheckInvalid(t, "invalid/unknown_declaration")
}

func Test_Invalid_UnknownText(t *testing.T) {
	util.CheckInvalid(t, "invalid/unknown_text")
}

func Test_Invalid_UnknownPredicate(t *testing.T) {
	util.CheckInvalid(t, "invalid/unknown_predicate")
}
