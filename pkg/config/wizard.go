package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard asks for the common settings, starting from base, and returns
// the edited config. It does not save anything.
func RunWizard(base Config) (Config, error) {
	cfg := base
	timeout := cfg.Data.Timeout.String()
	sophistication := strconv.Itoa(cfg.Dashboard.CustomerSophistication)
	topN := strconv.Itoa(cfg.Dashboard.TopCompetitors)

	fmt.Println("plateview configuration")
	fmt.Println("───────────────────────")

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Data location").
				Description("Base URL (http/https) or directory holding data_index.json").
				Value(&cfg.Data.Location).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("location is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Request timeout").
				Value(&timeout).
				Validate(func(s string) error {
					d, err := time.ParseDuration(strings.TrimSpace(s))
					if err != nil || d <= 0 {
						return fmt.Errorf("enter a positive duration such as 15s")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Customer sophistication (0-100)").
				Value(&sophistication).
				Validate(intRange(0, 100)),
			huh.NewInput().
				Title("Competitors to list").
				Value(&topN).
				Validate(intRange(1, 50)),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Follow terminal", "auto"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&cfg.UI.Theme),
		),
	)

	if err := form.Run(); err != nil {
		return base, err
	}

	// Validators above guarantee these parse.
	cfg.Data.Timeout, _ = time.ParseDuration(strings.TrimSpace(timeout))
	cfg.Dashboard.CustomerSophistication, _ = strconv.Atoi(strings.TrimSpace(sophistication))
	cfg.Dashboard.TopCompetitors, _ = strconv.Atoi(strings.TrimSpace(topN))
	cfg.Data.Location = strings.TrimSpace(cfg.Data.Location)

	fmt.Println("")
	return cfg, cfg.Validate()
}

func intRange(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < lo || n > hi {
			return fmt.Errorf("enter a whole number from %d to %d", lo, hi)
		}
		return nil
	}
}
