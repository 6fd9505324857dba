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

package recv

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
)

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("Wrong timeout: %q. Must be a positive duration, e.g. 3s", s)
	}
	return d, nil
}

// applyAcquireFlags overrides config values with the flags given on the command line
func applyAcquireFlags(cmd *cobra.Command, cfg *config.AcquireConfig, timeout, out, format string, storeRun bool) error {
	if timeout != "" {
		d, err := parseDuration(timeout)
		if err != nil {
			return err
		}
		cfg.ReceiveTimeout = d
	}
	if out != "" {
		cfg.OutputDir = out
	}
	if format != "" {
		switch format {
		case acquire.FormatCSV, acquire.FormatNpy, acquire.FormatNone:
		default:
			return acquire.ErrUnknownFormat{Format: format}
		}
		cfg.Format = format
	}
	if cmd.Flags().Changed(StoreOptionName) {
		cfg.Store = storeRun
	}
	return nil
}
