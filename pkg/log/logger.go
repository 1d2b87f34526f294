package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/op/go-logging"
)

// Level is a logging verbosity threshold
type Level int

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = map[Level]string{
	Debug:   "debug",
	Info:    "info",
	Notice:  "notice",
	Warning: "warning",
	Error:   "error",
}

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var (
	mu             sync.Mutex
	leveledBackend logging.LeveledBackend
	currentLevel   = Notice
)

// Logger is the leveled logger used by every package
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger for a named module
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink redirects all loggers to w, keeping the current level
func SetSink(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), format)
	leveledBackend = logging.AddModuleLevel(backend)
	leveledBackend.SetLevel(toLogging(currentLevel), "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the verbosity of all loggers
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	currentLevel = level
	leveledBackend.SetLevel(toLogging(level), "")
}

// CurrentLevel returns the active verbosity
func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return currentLevel
}

// ForVerbosity maps a count of -v flags to a level: none logs notices,
// one adds info, two or more add debug output.
func ForVerbosity(n int) Level {
	switch {
	case n >= 2:
		return Debug
	case n == 1:
		return Info
	default:
		return Notice
	}
}

// ParseLevel parses a level name such as "info" or "WARNING"
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warn" {
		name = "warning"
	}
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return Notice, fmt.Errorf("log: unknown level %q", s)
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

func toLogging(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
}
