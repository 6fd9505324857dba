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

	"github.com/spf13/cobra"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/tcpstream"
)

func NewTCPCommand(cfg *config.Config) *cobra.Command {
	var rate, timeout string
	var out, format, prefix string
	var storeRun bool
	cmd := &cobra.Command{
		Use:   "recv-tcp <ip> <port>",
		Short: "Read a raw sample stream from a device over TCP",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rateCode, err := sample.ParseRateCode(rate)
			if err != nil {
				return err
			}
			addr, err := address(args[0], args[1])
			if err != nil {
				return err
			}
			if timeout != "" {
				d, err := parseDuration(timeout)
				if err != nil {
					return err
				}
				cfg.Stream.ReadTimeout = d
			}
			if err := applyAcquireFlags(cmd, cfg.Acquire, "", out, format, storeRun); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			ctx, stop := interruptible(cmd.Context())
			defer stop()
			result, err := tcpstream.Receive(ctx, cfg.Stream, rateCode, addr)
			if result == nil {
				return err
			}
			if completeErr := complete(cmd.OutOrStdout(), cfg, addr, prefix, result); completeErr != nil {
				return completeErr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&rate, RateOptionName, "0", fmt.Sprintf("Sample rate code used for the timebase. %s", sample.HelpRates))
	cmd.Flags().StringVar(&timeout, TimeoutOptionName, "", "Read timeout. E.g. 3s")
	cmd.Flags().StringVar(&out, OutOptionName, "", "Directory to write the samples file to")
	cmd.Flags().StringVar(&format, FormatOptionName, "", "Samples file format. Must be one of: csv, npy, none")
	cmd.Flags().StringVar(&prefix, PrefixOptionName, "", "Samples file name prefix")
	cmd.Flags().BoolVar(&storeRun, StoreOptionName, false, "Keep the run in the run store")
	return cmd
}
