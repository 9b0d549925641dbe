package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

// IOLogger wraps a reader/writer pair and logs everything that passes
// through it. It is used for the --enable-command-logging flag of the stdio
// transport.
type IOLogger struct {
	reader io.Reader
	writer io.Writer
	logger *logrus.Logger
}

// NewIOLogger creates an IOLogger around in and out.
func NewIOLogger(in io.Reader, out io.Writer, logger *logrus.Logger) *IOLogger {
	return &IOLogger{reader: in, writer: out, logger: logger}
}

// Read logs the data read from the underlying reader.
func (l *IOLogger) Read(p []byte) (n int, err error) {
	n, err = l.reader.Read(p)
	if n > 0 {
		l.logger.WithField("direction", "in").Debug(TruncateBodyDefault(string(p[:n])))
	}
	return n, err
}

// Write logs the data before writing it to the underlying writer.
func (l *IOLogger) Write(p []byte) (n int, err error) {
	l.logger.WithField("direction", "out").Debug(TruncateBodyDefault(string(p)))
	return l.writer.Write(p)
}
