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

// SetConfig binds the given configuration as the one ReadConfig returns,
// preventing a rule file from being read. It has no effect once ReadConfig
// has produced a result. Intended for tests and embedders that build their
// configuration programmatically.
func SetConfig(c *Config) {
	readFileOnce.Do(func() {
		readConfigCached = c
	})
}
