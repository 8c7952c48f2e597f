package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/matheuskafuri/kanjo/internal/config"
	"github.com/matheuskafuri/kanjo/internal/feed"
	"github.com/spf13/cobra"
)

var (
	flagFeedSource string
	flagFeedSave   bool
	flagFeedLimit  int
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Analyze the latest headlines from the configured feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		sources, err := pickSources(s.cfg, flagFeedSource)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), "Fetching feeds...")
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		result := feed.FetchAll(ctx, feed.NewRSSFetcher(), sources)
		cancel()

		for _, e := range result.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "  [warn] %v\n", e)
			s.log.WithError(e).Warn("feed fetch failed")
		}

		texts := limitTexts(result.Texts(), flagFeedLimit)
		return runBatch(cmd.Context(), s.svc, texts, flagFeedSave, "", cmd.OutOrStdout())
	},
}

func init() {
	feedCmd.Flags().StringVar(&flagFeedSource, "source", "", "fetch only the named source, even if disabled")
	feedCmd.Flags().BoolVar(&flagFeedSave, "save", false, "store results in the cache")
	feedCmd.Flags().IntVar(&flagFeedLimit, "limit", 20, "analyze at most n items (0 for all)")
}

func pickSources(cfg *config.Config, name string) ([]config.Source, error) {
	if name == "" {
		sources := cfg.EnabledSources()
		if len(sources) == 0 {
			return nil, fmt.Errorf("no enabled sources in config")
		}
		return sources, nil
	}
	for _, src := range cfg.Sources {
		if src.Name == name {
			return []config.Source{src}, nil
		}
	}
	return nil, fmt.Errorf("unknown source %q (configured: %v)", name, cfg.SourceNames())
}

func limitTexts(texts []string, n int) []string {
	if n > 0 && len(texts) > n {
		return texts[:n]
	}
	return texts
}
