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

package command

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/imroc/req"

	"uni-lj.si/cora-z7/go-daq/pkg/config"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/store"
)

type ApiClient struct {
	ApiPrefix string
}

func NewApiClient(cfg *config.ApiConfig) *ApiClient {
	return &ApiClient{
		ApiPrefix: fmt.Sprintf("http://%s:%d/api", cfg.Address, cfg.Port),
	}
}

func (c *ApiClient) runUrl(id string) string {
	return fmt.Sprintf("%s/runs/%s", c.ApiPrefix, url.PathEscape(id))
}

func checkStatus(r *req.Resp, expected int) error {
	if r.Response().StatusCode != expected {
		return errors.New(r.Response().Status)
	}
	return nil
}

// ListRuns sends request to get all stored runs
func (c *ApiClient) ListRuns() ([]*store.Run, error) {
	r, err := req.Get(fmt.Sprintf("%s/runs", c.ApiPrefix))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r, http.StatusOK); err != nil {
		return nil, err
	}
	var runs []*store.Run
	if err := r.ToJSON(&runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetRun sends request to get the description of a run
func (c *ApiClient) GetRun(id string) (*store.Run, error) {
	r, err := req.Get(c.runUrl(id))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r, http.StatusOK); err != nil {
		return nil, err
	}
	run := &store.Run{}
	if err := r.ToJSON(run); err != nil {
		return nil, err
	}
	return run, nil
}

// GetSamples sends request to get the decoded samples of a run
func (c *ApiClient) GetSamples(id string) ([]sample.Sample, error) {
	r, err := req.Get(fmt.Sprintf("%s/samples", c.runUrl(id)))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r, http.StatusOK); err != nil {
		return nil, err
	}
	var samples []sample.Sample
	if err := r.ToJSON(&samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// GetSamplesRaw sends request to get the samples of a run encoded as csv or npy
func (c *ApiClient) GetSamplesRaw(id, format string) ([]byte, error) {
	r, err := req.Get(fmt.Sprintf("%s/samples?format=%s", c.runUrl(id), url.QueryEscape(format)))
	if err != nil {
		return nil, err
	}
	if err := checkStatus(r, http.StatusOK); err != nil {
		return nil, err
	}
	return r.ToBytes()
}

// DeleteRun sends request to remove a run from the store
func (c *ApiClient) DeleteRun(id string) error {
	r, err := req.Delete(c.runUrl(id))
	if err != nil {
		return err
	}
	return checkStatus(r, http.StatusNoContent)
}
