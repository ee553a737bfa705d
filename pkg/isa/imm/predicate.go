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
package imm

import (
	"math"
	"math/bits"

	"github.com/x448/float16"
)

// IsInt checks whether a given value fits within a signed integer of n bits.
func IsInt(value int64, n uint) bool {
	if n == 0 {
		return false
	} else if n >= 64 {
		return true
	}
	//
	bound := int64(1) << (n - 1)
	//
	return -bound <= value && value < bound
}

// IsUint checks whether a given value fits within an unsigned integer of n
// bits.
func IsUint(value uint64, n uint) bool {
	if n >= 64 {
		return true
	}
	//
	return value < uint64(1)<<n
}

// IsPowerOf2 checks whether exactly one bit of a given value is set.
func IsPowerOf2(value uint64) bool {
	return value != 0 && value&(value-1) == 0
}

// IsBitPattern checks whether a given value (of a given bitwidth, at most 64)
// can be constructed by a bit-pattern immediate.  That is, it is either:
//
//   - a byte shifted left by some amount;
//   - a byte repeated across the whole width;
//   - a mask 2^k-1 of the k least significant bits; or
//   - the complement of such a mask.
func IsBitPattern(value uint64, width uint) bool {
	if width == 0 || width > 64 {
		return false
	}
	//
	var mask = widthMask(width)
	//
	value &= mask
	//
	switch {
	case isLowMask(value), isLowMask(^value & mask):
		return true
	case value>>bits.TrailingZeros64(value) <= math.MaxUint8:
		return true
	default:
		return isByteSplat(value, width)
	}
}

// Check whether a given value has the form 2^k-1 for some k (including zero).
func isLowMask(value uint64) bool {
	return value&(value+1) == 0
}

// Check whether every byte of a given value is identical.
func isByteSplat(value uint64, width uint) bool {
	if width%8 != 0 {
		return false
	}
	//
	for b := value & 0xff; width > 8; width -= 8 {
		value >>= 8
		//
		if value&0xff != b {
			return false
		}
	}
	//
	return true
}

func widthMask(width uint) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}
	//
	return (uint64(1) << width) - 1
}

// Largest finite value of the E4M3FN format, i.e. 1.75 * 2^8.
const maxSmallFloat = 448

// Smallest normal value of the E4M3FN format, i.e. 2^-6.
const minNormalSmallFloat = 1.0 / 64

// IsSmallFloat checks whether a given value can be converted without loss into
// the 8-bit E4M3FN format (4 exponent bits, 3 mantissa bits, exponent bias 7).
// This format has no infinities, but does have NaN.
func IsSmallFloat(value float64) bool {
	var abs = math.Abs(value)
	//
	switch {
	case math.IsNaN(value):
		return true
	case math.IsInf(value, 0) || abs > maxSmallFloat:
		return false
	case abs < minNormalSmallFloat:
		// Subnormals are multiples of 2^-9
		scaled := abs * 512
		return scaled == math.Trunc(scaled)
	default:
		// Normals have four significant bits
		frac, _ := math.Frexp(abs)
		scaled := frac * 16
		//
		return scaled == math.Trunc(scaled)
	}
}

// IsHalfFloat checks whether a given value can be converted without loss into
// IEEE half precision.
func IsHalfFloat(value float64) bool {
	if math.IsNaN(value) {
		return true
	}
	//
	single := float32(value)
	//
	if float64(single) != value {
		return false
	}
	//
	switch float16.PrecisionFromfloat32(single) {
	case float16.PrecisionExact:
		return true
	case float16.PrecisionUnknown:
		// Subnormal half values are resolved by a round trip.
		return float16.Fromfloat32(single).Float32() == single
	default:
		return false
	}
}
