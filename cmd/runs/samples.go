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

package runs

import (
	"github.com/spf13/cobra"

	"uni-lj.si/cora-z7/go-daq/pkg/command"
	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
)

func NewSamplesCommand(cfg *config.Config) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "samples <id>",
		Short: "Print samples of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg.Api)
			data, err := apiClient.GetSamplesRaw(args[0], format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, FormatOptionName, acquire.FormatCSV, "Samples format. Must be one of: csv, npy, json")
	return cmd
}
