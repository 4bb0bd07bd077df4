package registry

import (
	"context"
	"testing"

	"github.com/Tomas-vilte/sonar-report/internal/config"
	domainErrors "github.com/Tomas-vilte/sonar-report/internal/errors"
	"github.com/Tomas-vilte/sonar-report/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

type mockModeFactory struct {
	selector string
	ran      *[]string
}

func (m *mockModeFactory) CreateMode(t *i18n.Translations, load ConfigLoader) Mode {
	return Mode{
		Selector: m.selector,
		Flags:    []cli.Flag{&cli.BoolFlag{Name: m.selector}},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			*m.ran = append(*m.ran, m.selector)
			return nil
		},
	}
}

func staticLoader(c *config.Config) ConfigLoader {
	return func(ctx context.Context, cmd *cli.Command) (*config.Config, error) {
		return c, nil
	}
}

func newTranslations(t *testing.T) *i18n.Translations {
	t.Helper()
	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	return translations
}

func TestRegistry_Register(t *testing.T) {
	t.Run("should register new factory successfully", func(t *testing.T) {
		registry := NewRegistry(staticLoader(config.Default()), newTranslations(t))

		// act
		err := registry.Register("show-config", &mockModeFactory{selector: "show-config"})

		// assert
		assert.NoError(t, err)
		assert.Len(t, registry.factories, 1)
		assert.Contains(t, registry.factories, "show-config")
	})

	t.Run("should return error when registering duplicate factory", func(t *testing.T) {
		// arrange
		registry := NewRegistry(staticLoader(config.Default()), newTranslations(t))
		factory := &mockModeFactory{selector: "show-config"}

		// act
		_ = registry.Register("show-config", factory)
		err := registry.Register("show-config", factory)

		// assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "show-config")
		assert.Len(t, registry.factories, 1)
	})
}

func TestRegistry_CreateModes(t *testing.T) {
	t.Run("should create modes sorted by name", func(t *testing.T) {
		// Arrange
		var ran []string
		registry := NewRegistry(staticLoader(config.Default()), newTranslations(t))
		_ = registry.Register("show-config", &mockModeFactory{selector: "show-config", ran: &ran})
		_ = registry.Register("init-config", &mockModeFactory{selector: "init-config", ran: &ran})

		// Act
		modes := registry.CreateModes()

		// Assert
		require.Len(t, modes, 2)
		assert.Equal(t, "init-config", modes[0].Selector)
		assert.Equal(t, "show-config", modes[1].Selector)
		assert.Len(t, Flags(modes), 2)
	})

	t.Run("should return empty slice when no factories registered", func(t *testing.T) {
		registry := NewRegistry(staticLoader(config.Default()), newTranslations(t))

		assert.Empty(t, registry.CreateModes())
	})
}

func TestDispatch(t *testing.T) {
	setup := func(t *testing.T) (*cli.Command, *[]string) {
		t.Helper()
		ran := new([]string)
		registry := NewRegistry(staticLoader(config.Default()), newTranslations(t))
		require.NoError(t, registry.Register("show-config", &mockModeFactory{selector: "show-config", ran: ran}))
		modes := registry.CreateModes()

		fallback := func(ctx context.Context, cmd *cli.Command) error {
			*ran = append(*ran, "report:"+cmd.Args().Get(0))
			return nil
		}
		return &cli.Command{
			Name:   "sonar-report",
			Flags:  Flags(modes),
			Action: Dispatch(modes, fallback),
		}, ran
	}

	t.Run("should run the report for positional arguments named like a mode", func(t *testing.T) {
		app, ran := setup(t)

		err := app.Run(context.Background(), []string{"sonar-report", "show-config", "main", "dev@example.com"})

		require.NoError(t, err)
		assert.Equal(t, []string{"report:show-config"}, *ran)
	})

	t.Run("should run the selected mode", func(t *testing.T) {
		app, ran := setup(t)

		err := app.Run(context.Background(), []string{"sonar-report", "--show-config"})

		require.NoError(t, err)
		assert.Equal(t, []string{"show-config"}, *ran)
	})

	t.Run("should reject positional arguments in a mode", func(t *testing.T) {
		app, ran := setup(t)

		err := app.Run(context.Background(), []string{"sonar-report", "--show-config", "my-app", "main", "dev@example.com"})

		assert.ErrorIs(t, err, domainErrors.ErrInvalidArgs)
		assert.Empty(t, *ran)
	})
}

func TestNewRegistry(t *testing.T) {
	translations := newTranslations(t)

	registry := NewRegistry(staticLoader(config.Default()), translations)

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.load)
	assert.Empty(t, registry.factories)
	assert.Equal(t, translations, registry.t)
}
