// Package initcmder provides the init command for initializing a local
// .pairwise directory in the current working directory.
package initcmder

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/pairwise/pkg/cliui"
	"github.com/papercomputeco/pairwise/pkg/config"
	"github.com/papercomputeco/pairwise/pkg/dotdir"
)

const initLongDesc string = `Initialize a new .pairwise/ directory in the current working directory.

Creates a local .pairwise/ directory with a config.toml that takes
precedence over ~/.pairwise/. An existing config.toml is kept unless
--preset is given.

The preset is either a built-in name (openai, ollama) or an http(s) URL
serving a config.toml.

Examples:
  pairwise init
  pairwise init --preset ollama
  pairwise init --preset https://example.com/pairwise/config.toml`

const initShortDesc string = "Initialize a local .pairwise/ directory"

const remoteFetchTimeout = 10 * time.Second

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Preset name ("+strings.Join(config.ValidPresetNames(), ", ")+") or URL of a config.toml")

	return cmd
}

func (c *initCommander) run(configDir string) error {
	dir, err := dotdir.NewManager().Init(configDir)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, "config.toml")
	if c.preset == "" {
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("\n  %s Already initialized: %s\n\n", cliui.SuccessMark, cliui.DimStyle.Render(dir))
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	cfg, err := c.resolve()
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Printf("\n  %s Initialized %s\n\n", cliui.SuccessMark, cliui.ValueStyle.Render(path))
	return nil
}

func (c *initCommander) resolve() (*config.Config, error) {
	switch {
	case c.preset == "":
		return config.NewDefaultConfig(), nil
	case strings.HasPrefix(c.preset, "http://"), strings.HasPrefix(c.preset, "https://"):
		return fetchRemoteConfig(c.preset)
	default:
		return config.PresetConfig(c.preset)
	}
}

func fetchRemoteConfig(url string) (*config.Config, error) {
	client := &http.Client{Timeout: remoteFetchTimeout}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	return config.ParseConfigTOML(data)
}
