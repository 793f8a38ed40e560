// Package dialer implements domain.Dialer by handing a tel: URL to the
// platform URL handler. The mode decides whether the platform shows a
// confirmation prompt (telprompt:) or dials immediately (tel:).
package dialer

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	"github.com/onetapcall/emergency-resolver/internal/config"
	"github.com/onetapcall/emergency-resolver/internal/domain"
)

// TelDialer launches the platform URL handler for tel: URLs.
type TelDialer struct {
	mode    string
	handler string
	logger  *slog.Logger

	// run executes the handler command; swapped in tests.
	run func(ctx context.Context, name string, args ...string) error
}

// New creates a dialer. mode is config.DialModePrompt or
// config.DialModeDirect; handler is the opener command, e.g. "xdg-open".
func New(mode, handler string, logger *slog.Logger) *TelDialer {
	return &TelDialer{
		mode:    mode,
		handler: handler,
		logger:  logger,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// CanDial reports whether number is a dialable emergency string: non-empty,
// digits only. Short codes like "15" are valid.
func (d *TelDialer) CanDial(number string) bool {
	if number == "" {
		return false
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Dial opens the call screen for number. Any failure is ErrCannotDial.
func (d *TelDialer) Dial(ctx context.Context, number string) error {
	if !d.CanDial(number) {
		return fmt.Errorf("%w: invalid number %q", domain.ErrCannotDial, number)
	}

	u := d.telURL(number)
	d.logger.Info("dialing", "url", u, "mode", d.mode)
	if err := d.run(ctx, d.handler, u); err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrCannotDial, d.handler, u, err)
	}
	return nil
}

func (d *TelDialer) telURL(number string) string {
	if d.mode == config.DialModeDirect {
		return "tel:" + number
	}
	return "telprompt:" + number
}
