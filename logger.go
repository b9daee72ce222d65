package bytelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/internal/logging/console"
	"github.com/byteland/bytelog/internal/logging/gologger"
	"github.com/byteland/bytelog/pkg/interfaces"
)

// NewLoggerProvider builds the provider named by cfg.Provider. The console
// provider writes to w, or stderr when w is nil; go-logger manages its own
// output.
func NewLoggerProvider(cfg LoggingConfig, w io.Writer) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level, err := logging.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		return console.NewProvider(console.Options{Writer: w, MinLevel: &level}), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}
