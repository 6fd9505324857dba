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
	"fmt"

	"github.com/spf13/cobra"

	"uni-lj.si/cora-z7/go-daq/pkg/command"
	"uni-lj.si/cora-z7/go-daq/pkg/config"
)

func NewListCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg.Api)
			runs, err := apiClient.ListRuns()
			if err != nil {
				return err
			}
			for _, run := range runs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s rate: %g Hz samples: %d lost: %d\n",
					run.ID, run.Started.Format("2006-01-02 15:04:05"), run.Device,
					run.SampleRate, run.Samples, run.Stats.Lost)
			}
			return nil
		},
	}
	return cmd
}
