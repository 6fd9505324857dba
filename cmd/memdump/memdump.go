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

package memdump

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/mem"
)

const (
	OffsetOptionName = "offset"
	SizeOptionName   = "size"
	DeviceOptionName = "device"
	RawOptionName    = "raw"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var offset, device string
	var size int
	var raw bool
	cmd := &cobra.Command{
		Use:   "memdump <n>",
		Short: "Print the first n bytes of the device memory window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("Wrong number of bytes: %q", args[0])
			}
			if offset != "" {
				parsed, err := strconv.ParseInt(offset, 0, 64)
				if err != nil {
					return fmt.Errorf("Wrong offset: %q", offset)
				}
				cfg.Mem.Offset = parsed
			}
			if size > 0 {
				cfg.Mem.Size = size
			}
			if device != "" {
				cfg.Mem.Device = device
			}
			cmd.SilenceUsage = true

			data, err := mem.Dump(cfg.Mem, n)
			if err != nil {
				return err
			}
			if raw {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), hex.Dump(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&offset, OffsetOptionName, "", fmt.Sprintf("Physical address of the window. E.g. 0x%x", config.DefaultMemOffset))
	cmd.Flags().IntVar(&size, SizeOptionName, 0, fmt.Sprintf("Size of the window in bytes. E.g. %d", config.DefaultMemSize))
	cmd.Flags().StringVar(&device, DeviceOptionName, "", fmt.Sprintf("Memory device. E.g. %s", config.DefaultMemDevice))
	cmd.Flags().BoolVar(&raw, RawOptionName, false, "Write raw bytes instead of a hex dump")
	return cmd
}
