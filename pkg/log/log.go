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

package log

import (
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogPrefix  = "go-daq"
	HelpLevels = "Must be one of: error, warning, info, debug."
)

// FileConfig describes a rotating log file
type FileConfig struct {
	Filename   string `json:"filename,omitempty" mapstructure:"filename"`
	MaxSize    int    `json:"maxSize,omitempty" mapstructure:"maxSize"`       // megabytes
	MaxBackups int    `json:"maxBackups,omitempty" mapstructure:"maxBackups"` // number of backups
	MaxAge     int    `json:"maxAge,omitempty" mapstructure:"maxAge"`         // days
	Compress   bool   `json:"compress,omitempty" mapstructure:"compress"`
}

var levelMapping = map[string]logrus.Level{
	"error":   logrus.ErrorLevel,
	"warning": logrus.WarnLevel,
	"info":    logrus.InfoLevel,
	"debug":   logrus.DebugLevel,
}

var logger = newLogger()

var entry = logger.WithField("app", LogPrefix)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})
	return l
}

func SetLevel(strLevel string) error {
	level, ok := levelMapping[strLevel]
	if !ok {
		return ErrWrongLevel{Level: strLevel}
	}
	logger.SetLevel(level)
	return nil
}

func Init(out io.Writer, strLevel string) {
	logger.SetOutput(out)
	if err := SetLevel(strLevel); err != nil {
		panic(err)
	}
}

// AddFile tees log output into a rotating file in addition to the current output.
func AddFile(cfg FileConfig) {
	if cfg.Filename == "" {
		return
	}
	logger.SetOutput(io.MultiWriter(logger.Out, &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}))
}

// Writer returns a writer that logs every line at info level.
// It is used to plug the logger into http middleware.
func Writer() *io.PipeWriter {
	return entry.WriterLevel(logrus.InfoLevel)
}

func Error(format string, v ...interface{}) {
	entry.Errorf(format, v...)
}

func Warning(format string, v ...interface{}) {
	entry.Warningf(format, v...)
}

func Info(format string, v ...interface{}) {
	entry.Infof(format, v...)
}

func Debug(format string, v ...interface{}) {
	entry.Debugf(format, v...)
}

// Printer logs every Println call at error level.
// It satisfies the logger interface of the http recovery middleware.
type Printer struct{}

func (Printer) Println(v ...interface{}) {
	entry.Errorln(v...)
}
