/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"fmt"
)

// ErrConfigFileExists returned when persisting would overwrite an existing config file
type ErrConfigFileExists struct {
	Path string
}

func (e ErrConfigFileExists) Error() string {
	return fmt.Sprintf("Config file already exists: %s", e.Path)
}

// ErrConfigLoad returned when an existing config file can not be parsed
type ErrConfigLoad struct {
	Path string
	Err  error
}

func (e ErrConfigLoad) Error() string {
	return fmt.Sprintf("Error while loading config file %s: %s", e.Path, e.Err)
}

func (e ErrConfigLoad) Unwrap() error {
	return e.Err
}
