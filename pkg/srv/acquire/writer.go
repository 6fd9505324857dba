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

package acquire

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"uni-lj.si/cora-z7/go-daq/pkg/log"
	"uni-lj.si/cora-z7/go-daq/pkg/sample"
)

const (
	FormatCSV  = "csv"
	FormatNpy  = "npy"
	FormatNone = "none"
)

// SamplesWriter writes decoded samples as an artifact for downstream tools
type SamplesWriter interface {
	WriteSamples(samples []sample.Sample) error
}

// CSVWriter writes one "time,value" row per sample after a header row
type CSVWriter struct {
	w io.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

func (c *CSVWriter) WriteSamples(samples []sample.Sample) error {
	bw := bufio.NewWriter(c.w)
	w := csv.NewWriter(bw)
	if err := w.Write([]string{"time", "value"}); err != nil {
		return err
	}
	for _, s := range samples {
		record := []string{
			strconv.FormatFloat(s.Time, 'g', -1, 64),
			strconv.FormatUint(uint64(s.Value), 10),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// NpyWriter writes an N x 2 float64 array, column 0 is time, column 1 is value
type NpyWriter struct {
	w io.Writer
}

func NewNpyWriter(w io.Writer) *NpyWriter {
	return &NpyWriter{w: w}
}

func (n *NpyWriter) WriteSamples(samples []sample.Sample) error {
	if len(samples) == 0 {
		return npyio.Write(n.w, []float64{})
	}
	data := make([]float64, 0, 2*len(samples))
	for _, s := range samples {
		data = append(data, s.Time, float64(s.Value))
	}
	return npyio.Write(n.w, mat.NewDense(len(samples), 2, data))
}

// Writer is an artifact file
type Writer struct {
	SamplesWriter
	file *os.File
}

// NewWriter creates filename and picks the encoding by format
func NewWriter(filename, format string) (*Writer, error) {
	if format != FormatCSV && format != FormatNpy {
		return nil, ErrUnknownFormat{Format: format}
	}
	file, err := os.Create(filename)
	if err != nil {
		log.Error("Error while creating file: %s", filename)
		return nil, err
	}
	w := &Writer{file: file}
	if format == FormatNpy {
		w.SamplesWriter = NewNpyWriter(file)
	} else {
		w.SamplesWriter = NewCSVWriter(file)
	}
	return w, nil
}

func (w *Writer) Name() string {
	return w.file.Name()
}

func (w *Writer) Flush() error {
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// PersistFilename builds the artifact file name: [prefix_]samples_<timestamp>.<format>
func PersistFilename(dir, prefix, format string, started time.Time) string {
	filename := fmt.Sprintf("samples_%s.%s", started.UTC().Format("20060102_150405"), format)
	if prefix != "" {
		filename = fmt.Sprintf("%s_%s", prefix, filename)
	}
	return path.Join(dir, filename)
}

// Persist writes the samples of a finished session into dir
func Persist(result *Result, dir, prefix, format string) (string, error) {
	if format == FormatNone {
		return "", nil
	}
	filename := PersistFilename(dir, prefix, format, result.Started)
	w, err := NewWriter(filename, format)
	if err != nil {
		return "", err
	}
	if err := w.WriteSamples(result.Samples); err != nil {
		w.Flush()
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	log.Info("Persisted %d samples: %s", len(result.Samples), filename)
	return filename, nil
}
