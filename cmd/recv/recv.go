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
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/log"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
	"uni-lj.si/cora-z7/go-daq/pkg/store"
)

const (
	TimeoutOptionName = "timeout"
	OutOptionName     = "out"
	FormatOptionName  = "format"
	PrefixOptionName  = "prefix"
	StoreOptionName   = "store"
	RateOptionName    = "rate"
)

// address validates the port and joins it with the host
func address(ip, port string) (string, error) {
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return "", fmt.Errorf("Wrong port number: %q", port)
	}
	return net.JoinHostPort(ip, port), nil
}

// interruptible returns a context cancelled on SIGINT or SIGTERM
func interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// complete writes the artifact, stores the run if asked to and prints a short report
func complete(out io.Writer, cfg *config.Config, device, prefix string, result *acquire.Result) error {
	filename, err := acquire.Persist(result, cfg.Acquire.OutputDir, prefix, cfg.Acquire.Format)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Stopped: %s\n", result.Reason)
	fmt.Fprintf(out, "Samples: %d\n", len(result.Samples))
	if result.Datagrams > 0 || result.Malformed > 0 {
		fmt.Fprintf(out, "Datagrams: %s\n", result.Stats)
	}
	for _, gap := range result.Gaps {
		fmt.Fprintf(out, "At %d lost %d\n", gap.Offset, gap.Missing)
	}
	if filename != "" {
		fmt.Fprintf(out, "Output: %s\n", filename)
	}

	if !cfg.Acquire.Store {
		return nil
	}
	state, err := store.NewState(context.Background(), cfg.Store.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := state.Close(); err != nil {
			log.Warning("Error while closing run store: %s", err)
		}
	}()
	run := store.NewRun(device, result)
	if err := state.PutRun(run, result.Buffer); err != nil {
		return err
	}
	fmt.Fprintf(out, "Run: %s\n", run.ID)
	return nil
}
