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

package serve

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/log"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/api"
	"uni-lj.si/cora-z7/go-daq/pkg/store"
)

const (
	AddressOptionName = "address"
	PortOptionName    = "port"
)

func NewCommand(cfg *config.Config) *cobra.Command {
	var address string
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start API server over the run store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				cfg.Api.Address = address
			}
			if port != 0 {
				cfg.Api.Port = port
			}
			cmd.SilenceUsage = true

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			state, err := store.NewState(ctx, cfg.Store.Path)
			if err != nil {
				return err
			}
			defer func() {
				if err := state.Close(); err != nil {
					log.Warning("Error while closing run store: %s", err)
				}
			}()
			return api.NewApiServer(ctx, cfg.Api, state).Run()
		},
	}
	cmd.Flags().StringVar(&address, AddressOptionName, "", fmt.Sprintf("Address to bind. E.g. %s", config.DefaultApiAddress))
	cmd.Flags().IntVar(&port, PortOptionName, 0, fmt.Sprintf("Port number to bind. E.g. %d", config.DefaultApiPort))
	return cmd
}
