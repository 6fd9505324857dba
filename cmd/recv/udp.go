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
	"github.com/spf13/cobra"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
)

const (
	udpExample = `
Acquire at 1 MHz from a device on the default address
# go-daq recv-udp 2 192.168.1.10 55555

Acquire until interrupted, write numpy output and keep the run
# go-daq recv-udp 0 192.168.1.10 55555 --timeout 1m --format npy --store
`
)

func NewUDPCommand(cfg *config.Config) *cobra.Command {
	var timeout string
	var out, format, prefix string
	var storeRun bool
	cmd := &cobra.Command{
		Use:     "recv-udp <sample_rate:0-3> <ip> <port>",
		Short:   "Acquire samples from a device over UDP",
		Long:    "Acquire samples from a device over UDP. " + sample.HelpRates,
		Example: udpExample,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rateCode, err := sample.ParseRateCode(args[0])
			if err != nil {
				return err
			}
			addr, err := address(args[1], args[2])
			if err != nil {
				return err
			}
			if err := applyAcquireFlags(cmd, cfg.Acquire, timeout, out, format, storeRun); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			ctx, stop := interruptible(cmd.Context())
			defer stop()
			result, err := acquire.Acquire(ctx, cfg.Acquire, rateCode, addr)
			if result == nil {
				return err
			}
			if completeErr := complete(cmd.OutOrStdout(), cfg, addr, prefix, result); completeErr != nil {
				return completeErr
			}
			return err
		},
	}
	cmd.Flags().StringVar(&timeout, TimeoutOptionName, "", "Receive timeout. Acquisition stops when no datagram arrives for this long. E.g. 3s")
	cmd.Flags().StringVar(&out, OutOptionName, "", "Directory to write the samples file to")
	cmd.Flags().StringVar(&format, FormatOptionName, "", "Samples file format. Must be one of: csv, npy, none")
	cmd.Flags().StringVar(&prefix, PrefixOptionName, "", "Samples file name prefix")
	cmd.Flags().BoolVar(&storeRun, StoreOptionName, false, "Keep the run in the run store")
	return cmd
}
