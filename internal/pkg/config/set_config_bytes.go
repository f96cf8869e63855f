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

package config

// SetBytes decodes and validates the given rule file content and binds the
// result as the one ReadConfig returns. Like SetConfig, it has no effect
// once ReadConfig has produced a result.
func SetBytes(bytes []byte) error {
	readFileOnce.Do(func() {
		readConfigCached, readConfigCachedErr = unmarshal(bytes)
	})
	return readConfigCachedErr
}
