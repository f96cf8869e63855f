// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package suppression_analysistest

func do() {}

func trailing() {
	do() /* fence:allow */ // want "suppressed"
}

func preceding() {
	// fence:allow migration tracked separately
	do() // want "suppressed"
}

func directiveForm() {
	//fence:allow
	do() // want "suppressed"
}

func blockForm() {
	/*
		fence:allow
	*/
	do() // want "suppressed"
}

func unsuppressed() {
	do()

	// fence: allow is not the marker
	do()
}
