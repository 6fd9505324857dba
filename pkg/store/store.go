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

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.etcd.io/bbolt"
	"sigs.k8s.io/yaml"

	"uni-lj.si/cora-z7/go-daq/pkg/log"
	"uni-lj.si/cora-z7/go-daq/pkg/reassembly"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
	"uni-lj.si/cora-z7/go-daq/pkg/srv/acquire"
)

const (
	BucketPrefix = "run_"
	MetaKey      = "meta"
	BufferKey    = "buffer"
)

// Run describes one stored acquisition
type Run struct {
	ID         string               `json:"id"`
	Device     string               `json:"device"`
	RateCode   sample.RateCode      `json:"rateCode"`
	SampleRate float64              `json:"sampleRate"`
	Started    time.Time            `json:"started"`
	Duration   time.Duration        `json:"duration"`
	Reason     string               `json:"reason"`
	Stats      acquire.Stats        `json:"stats"`
	Summary    sample.Summary       `json:"summary"`
	Gaps       []reassembly.GapInfo `json:"gaps,omitempty"`
	Samples    int                  `json:"samples"`
	BufferSize int                  `json:"bufferSize"`
}

// NewRun describes a finished session
func NewRun(device string, result *acquire.Result) *Run {
	return &Run{
		ID:         ulid.Make().String(),
		Device:     device,
		RateCode:   result.RateCode,
		SampleRate: result.RateCode.SampleRate(),
		Started:    result.Started,
		Duration:   result.Duration(),
		Reason:     result.Reason.String(),
		Stats:      result.Stats,
		Summary:    result.Summary,
		Gaps:       result.Gaps,
		Samples:    len(result.Samples),
		BufferSize: len(result.Buffer),
	}
}

type State struct {
	context.Context
	DB *bbolt.DB
}

func NewState(ctx context.Context, path string) (*State, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return &State{
		Context: ctx,
		DB:      db,
	}, nil
}

// Close ...
func (s *State) Close() error {
	return s.DB.Close()
}

func BucketName(id string) string {
	return fmt.Sprintf("%s%s", BucketPrefix, id)
}

// PutRun stores the run description and its assembled buffer
func (s *State) PutRun(run *Run, buffer []byte) error {
	log.Debug("Storing run: %s", run.ID)
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(BucketName(run.ID)))
		if err != nil {
			return err
		}
		runBytes, err := yaml.Marshal(run)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(MetaKey), runBytes); err != nil {
			return err
		}
		return b.Put([]byte(BufferKey), buffer)
	})
}

// GetRun returns the run description
func (s *State) GetRun(id string) (*Run, error) {
	log.Debug("Getting run: %s", id)
	run := &Run{}
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(id)))
		if b == nil {
			return ErrRunNotFound{ID: id}
		}
		return yaml.Unmarshal(b.Get([]byte(MetaKey)), run)
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// GetBuffer returns a copy of the assembled buffer of a run
func (s *State) GetBuffer(id string) ([]byte, error) {
	var buffer []byte
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(BucketName(id)))
		if b == nil {
			return ErrRunNotFound{ID: id}
		}
		// bbolt values are only valid during the transaction
		buffer = append([]byte{}, b.Get([]byte(BufferKey))...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buffer, nil
}

// GetSamples decodes the stored buffer of a run with the run timebase
func (s *State) GetSamples(id string) ([]sample.Sample, error) {
	run, err := s.GetRun(id)
	if err != nil {
		return nil, err
	}
	buffer, err := s.GetBuffer(id)
	if err != nil {
		return nil, err
	}
	return sample.DecodeSamples(buffer, run.RateCode), nil
}

// GetAllRuns returns all run descriptions, oldest first
func (s *State) GetAllRuns() ([]*Run, error) {
	log.Debug("Getting all runs")
	var runs []*Run
	err := s.DB.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bbolt.Bucket) error {
			if !strings.HasPrefix(string(name), BucketPrefix) {
				return nil
			}
			run := &Run{}
			if err := yaml.Unmarshal(b.Get([]byte(MetaKey)), run); err != nil {
				log.Error("Error while unmarshalling run %s: %s", name, err)
				return err
			}
			runs = append(runs, run)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	// ULIDs sort by creation time
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })
	return runs, nil
}

// DeleteRun removes a run and its buffer
func (s *State) DeleteRun(id string) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(BucketName(id))) == nil {
			return ErrRunNotFound{ID: id}
		}
		return tx.DeleteBucket([]byte(BucketName(id)))
	})
}
