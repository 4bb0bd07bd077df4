package registry

import (
	"context"
	"fmt"
	"sort"

	cfg "github.com/Tomas-vilte/sonar-report/internal/config"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
	"github.com/urfave/cli/v3"
)

// ConfigLoader resolves the configuration for the invoked command. It runs at
// action time so that root flags such as --config are already parsed.
type ConfigLoader func(ctx context.Context, cmd *cli.Command) (*cfg.Config, error)

// Mode is an alternative root action selected by a boolean flag. Modes never
// take positional arguments, so those always belong to the report.
type Mode struct {
	// Selector is the name of the boolean flag that enables the mode.
	Selector string
	// Flags are added to the root command; they must include Selector.
	Flags  []cli.Flag
	Action cli.ActionFunc
}

type ModeFactory interface {
	CreateMode(t *i18n.Translations, load ConfigLoader) Mode
}

type Registry struct {
	factories map[string]ModeFactory
	load      ConfigLoader
	t         *i18n.Translations
}

func NewRegistry(load ConfigLoader, t *i18n.Translations) *Registry {
	return &Registry{
		factories: make(map[string]ModeFactory),
		load:      load,
		t:         t,
	}
}

func (r *Registry) Register(name string, factory ModeFactory) error {
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%s", r.t.GetMessage("factory_already_registered", 0, map[string]interface{}{
			"FactoryName": name,
		}))
	}
	r.factories[name] = factory
	return nil
}

// CreateModes builds the registered modes sorted by registration name.
func (r *Registry) CreateModes() []Mode {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	modes := make([]Mode, 0, len(names))
	for _, name := range names {
		modes = append(modes, r.factories[name].CreateMode(r.t, r.load))
	}
	return modes
}

// Flags collects the flags of every mode.
func Flags(modes []Mode) []cli.Flag {
	var flags []cli.Flag
	for _, m := range modes {
		flags = append(flags, m.Flags...)
	}
	return flags
}

// Dispatch runs the first mode whose selector is set, or fallback when none
// is. A selected mode rejects positional arguments.
func Dispatch(modes []Mode, fallback cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		for _, m := range modes {
			if !cmd.Bool(m.Selector) {
				continue
			}
			if n := cmd.Args().Len(); n > 0 {
				return domainErrors.ErrInvalidArgs.WithContext("detail",
					fmt.Sprintf("--%s takes no arguments, got %d", m.Selector, n))
			}
			return m.Action(ctx, cmd)
		}
		return fallback(ctx, cmd)
	}
}
