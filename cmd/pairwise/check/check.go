// Package checkcmder provides the check command, which sends one short prompt
// to each configured model so a bad key, URL or model name shows up before a
// comparison session starts.
package checkcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/pairwise/pkg/cliui"
	"github.com/papercomputeco/pairwise/pkg/config"
	"github.com/papercomputeco/pairwise/pkg/llm"
	"github.com/papercomputeco/pairwise/pkg/llm/provider/openai"
	"github.com/papercomputeco/pairwise/pkg/logger"
	"github.com/papercomputeco/pairwise/pkg/relay"
)

const checkPrompt = "Reply with the single word: ok"

type checkCommander struct {
	flags config.FlagSet
	out   io.Writer

	upstream    string
	timeout     time.Duration
	weakModel   string
	strongModel string
}

var checkFlagKeys = []string{
	config.FlagUpstream,
	config.FlagTimeout,
	config.FlagWeakModel,
	config.FlagStrongModel,
}

const checkLongDesc string = `Check that both model tiers answer.

Sends one short prompt to the weak and the strong model using the same
settings as "pairwise serve" and reports each result.

Examples:
  pairwise check
  pairwise check --weak-model gpt-4o-mini --strong-model gpt-4o`

const checkShortDesc string = "Check that both model tiers answer"

func NewCheckCmd() *cobra.Command {
	cmder := &checkCommander{
		flags: config.ServeFlags,
		out:   os.Stdout,
	}
	var v *viper.Viper

	cmd := &cobra.Command{
		Use:   "check",
		Short: checkShortDesc,
		Long:  checkLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			var err error
			v, err = config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, cmder.flags, checkFlagKeys)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.upstream = v.GetString("upstream.base_url")
			cmder.timeout = v.GetDuration("upstream.timeout")
			cmder.weakModel = v.GetString("models.weak")
			cmder.strongModel = v.GetString("models.strong")
			cmder.out = cmd.OutOrStdout()

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagUpstream, &cmder.upstream)
	config.AddDurationFlag(cmd, cmder.flags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, cmder.flags, config.FlagWeakModel, &cmder.weakModel)
	config.AddStringFlag(cmd, cmder.flags, config.FlagStrongModel, &cmder.strongModel)

	return cmd
}

func (c *checkCommander) run(ctx context.Context) error {
	client, err := openai.New(openai.Config{
		APIKey:  openai.APIKeyFromEnv(),
		BaseURL: c.upstream,
		Timeout: c.timeout,
	})
	if err != nil {
		return err
	}

	models := relay.Models{Weak: c.weakModel, Strong: c.strongModel}
	r := relay.New(client, models, logger.Nop())
	req := llm.ConversationRequest{UserPrompt: checkPrompt}

	fmt.Fprintln(c.out)
	cliui.Field(c.out, "Upstream:", c.upstream)
	fmt.Fprintln(c.out)

	tiers := []struct{ name, model string }{
		{relay.TierWeak, models.Weak},
		{relay.TierStrong, models.Strong},
	}

	var failed []error
	for _, tier := range tiers {
		msg := fmt.Sprintf("%s tier %s", tier.name, cliui.ValueStyle.Render(tier.model))
		err := cliui.Step(c.out, msg, func() error {
			_, err := r.Ask(ctx, tier.name, req)
			return err
		})
		if err != nil {
			failed = append(failed, err)
		}
	}

	cliui.Tally(c.out, len(tiers)-len(failed), len(tiers), "tiers answered")
	return errors.Join(failed...)
}
