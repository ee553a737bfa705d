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
package pipeline

import (
	"cmp"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// EXTENSION identifies the files holding (textual) intermediate
// representation.
const EXTENSION = ".ll"

// VARIANT is the name of the directory segment identifying the optimised
// variant of each unit.
const VARIANT = "optimized"

// Unit is a single input file, identified by a canonical name.
type Unit struct {
	// Name of this unit, i.e. its path relative to the input root without the
	// variant segment (using forward slashes).
	Name string
	// Path of the file.
	Path string
}

// Discover all units within a given input directory.  Only files with the
// expected extension which lie beneath a directory segment named for the
// optimised variant are considered.  Units are returned in order of name.
func Discover(filesystem afero.Fs, root string) ([]Unit, error) {
	var units []Unit
	//
	err := afero.Walk(filesystem, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		} else if !info.Mode().IsRegular() || filepath.Ext(path) != EXTENSION {
			return nil
		}
		//
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		//
		if name, ok := UnitName(filepath.ToSlash(rel)); ok {
			units = append(units, Unit{name, path})
		}
		//
		return nil
	})
	//
	if err != nil {
		return nil, errors.Wrapf(err, "failed scanning %s", root)
	}
	//
	slices.SortFunc(units, func(l, r Unit) int {
		return cmp.Compare(l.Name, r.Name)
	})
	//
	return units, nil
}

// UnitName determines the canonical name of a given (slash separated) relative
// path, by removing the first segment naming the optimised variant.  If there
// is no such segment (other than the filename itself), then the path does not
// identify a unit.
func UnitName(path string) (string, bool) {
	var segments = strings.Split(path, "/")
	//
	for i, segment := range segments[:len(segments)-1] {
		if segment == VARIANT {
			return strings.Join(slices.Delete(segments, i, i+1), "/"), true
		}
	}
	//
	return "", false
}
