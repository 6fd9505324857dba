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

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"uni-lj.si/cora-z7/go-daq/cmd/completion"
	"uni-lj.si/cora-z7/go-daq/cmd/config"
	"uni-lj.si/cora-z7/go-daq/cmd/memdump"
	"uni-lj.si/cora-z7/go-daq/cmd/recv"
	"uni-lj.si/cora-z7/go-daq/cmd/runs"
	"uni-lj.si/cora-z7/go-daq/cmd/serve"
	pkgconfig "uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/log"
)

const (
	LogLevelOptionName = "log-level"
	ConfigOptionName   = "config"
)

func NewRootCommand(out io.Writer) *cobra.Command {
	var logLevel, configPath string
	cfg := pkgconfig.NewDefaultConfig()
	cmd := &cobra.Command{
		Use:   "go-daq",
		Short: "Tool to acquire samples from Cora-Z7 DAQ devices",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				*cfg = *pkgconfig.NewConfig(configPath)
			}
			if err := cfg.Load(); err != nil {
				return err
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			if err := log.SetLevel(cfg.LogLevel); err != nil {
				return err
			}
			log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
			if cfg.LogFile != nil {
				log.AddFile(*cfg.LogFile)
			}
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}
	cmd.SetOut(out)
	cmd.AddCommand(recv.NewUDPCommand(cfg))
	cmd.AddCommand(recv.NewTCPCommand(cfg))
	cmd.AddCommand(memdump.NewCommand(cfg))
	cmd.AddCommand(serve.NewCommand(cfg))
	cmd.AddCommand(runs.NewCommand(cfg))
	cmd.AddCommand(config.NewCommand(cfg))
	cmd.AddCommand(completion.NewCommand())
	cmd.PersistentFlags().StringVar(&logLevel, LogLevelOptionName, "", fmt.Sprintf("Log level. %s", log.HelpLevels))
	cmd.PersistentFlags().StringVar(&configPath, ConfigOptionName, "", fmt.Sprintf("Config file. Default %s", pkgconfig.DefaultConfigPath()))
	return cmd
}
