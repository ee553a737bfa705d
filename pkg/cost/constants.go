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
package cost

// LOAD_STORE_COST is the cost of a memory access, and of materialising a
// constant which fits no cheaper tier.
const LOAD_STORE_COST uint64 = 4

// JUMP_COST is the cost of a control transfer.
const JUMP_COST uint64 = 1

// MUL_COST is the cost of a multiplication which cannot be strength reduced.
const MUL_COST uint64 = 3

// DIV_COST is the cost of an integer division or remainder.
const DIV_COST uint64 = 12

// FDIV_COST is the cost of a floating-point division or square root.
const FDIV_COST uint64 = 30

// FMUL_COST is the cost of a floating-point multiplication (fused or
// otherwise).
const FMUL_COST uint64 = 5

// FCHEAP_OP_COST is the cost of a simple floating-point operation, such as an
// addition or a comparison.
const FCHEAP_OP_COST uint64 = 3

// GLOBAL_COST is the cost of materialising the address of a global.
const GLOBAL_COST uint64 = 2

// BIT_COUNT_COST is the cost of a population or leading/trailing zero count.
const BIT_COUNT_COST uint64 = 3

// UNSUPPORTED_COST penalises operations which the instruction set does not
// model (e.g. vector shuffles).
const UNSUPPORTED_COST uint64 = 1000

// CALL_COST is the cost of a call, consisting of materialising the callee and
// jumping to it.
const CALL_COST = GLOBAL_COST + JUMP_COST
