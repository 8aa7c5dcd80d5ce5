// Package logsvc provides the loggers used by the turnin commands.
package logsvc

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/labstack/gommon/color"
	"github.com/sirupsen/logrus"
)

// ConsoleFormatter writes operator-facing lines such as `Warning: make failed for bob`.
// Only the error field is shown unless Verbose is set.
type ConsoleFormatter struct {
	Color   *color.Color
	Verbose bool
}

var _ logrus.Formatter = (*ConsoleFormatter)(nil)

// NewConsoleFormatter returns a formatter, coloured when colored is true.
func NewConsoleFormatter(colored, verbose bool) *ConsoleFormatter {
	c := color.New()
	if !colored {
		c.Disable()
	}
	return &ConsoleFormatter{Color: c, Verbose: verbose}
}

func (f *ConsoleFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	switch e.Level {
	case logrus.WarnLevel:
		b.WriteString(f.Color.Yellow("Warning: "))
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		b.WriteString(f.Color.Red("Error: "))
	case logrus.DebugLevel, logrus.TraceLevel:
		b.WriteString(f.Color.Grey("Debug: "))
	}
	b.WriteString(e.Message)

	if f.Verbose {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
		}
	} else if err, ok := e.Data[logrus.ErrorKey]; ok {
		fmt.Fprintf(&b, ": %v", err)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}
