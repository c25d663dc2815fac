package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/crewmatch/internal/adapters/remote"
	"github.com/okian/crewmatch/internal/domain/matching"
	"github.com/okian/crewmatch/internal/domain/model"
	"github.com/okian/crewmatch/internal/domain/types"
	"github.com/okian/crewmatch/pkg/logger"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank candidates for a profile without running the server",
	Long: "Scores a profile JSON file against a remote CrewMatch instance, falling back to the sample pool " +
		"(or fallback_pool_file) when the remote is not configured or unavailable. Prints the ranked page as JSON.",
	RunE: runMatch,
}

var (
	matchProfile string
	matchRemote  string
	matchAll     bool
)

func init() {
	matchCmd.Flags().StringVarP(&matchProfile, "profile", "p", "", "Path to a profile JSON file, or - for stdin (required)")
	matchCmd.Flags().StringVarP(&matchRemote, "remote", "r", "", "Base URL of a CrewMatch instance to pull candidates from (defaults to remote_matches_url)")
	matchCmd.Flags().BoolVar(&matchAll, "all", false, "Print every ranked candidate in one list instead of a page")

	if err := matchCmd.MarkFlagRequired("profile"); err != nil {
		panic(fmt.Sprintf("failed to mark profile flag as required: %v", err))
	}

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	subject, err := readProfile(matchProfile, cmd.InOrStdin())
	if err != nil {
		return err
	}

	opts := []matching.Option{matching.WithLogger(logger.Get().Named("match"))}
	if cfg.FallbackPoolFile != "" {
		pool, err := matching.LoadPool(cfg.FallbackPoolFile)
		if err != nil {
			return err
		}
		opts = append(opts, matching.WithFallbackPool(pool))
	}

	base := matchRemote
	if base == "" {
		base = cfg.RemoteMatchesURL
	}
	if base != "" {
		src, err := remote.NewHTTPSource(base, remote.WithTimeout(time.Duration(cfg.RemoteTimeoutMS)*time.Millisecond))
		if err != nil {
			return err
		}
		opts = append(opts, matching.WithRemote(src))
	}

	pool, source := matching.NewSelector(opts...).Select(ctx, subject)
	ranked := matching.Rank(subject, pool)

	var out any
	if matchAll {
		out = struct {
			Source  types.Source        `json:"source"`
			Matches []types.MatchResult `json:"matches"`
		}{source, ranked}
	} else {
		page := matching.Paginate(ranked, cfg.PageSize)
		page.Source = source
		out = page
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readProfile decodes and normalizes a profile from path, or from stdin
// when path is "-".
func readProfile(path string, stdin io.Reader) (model.Profile, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return model.Profile{}, fmt.Errorf("failed to open profile file %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var p model.Profile
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return model.Profile{}, fmt.Errorf("failed to decode profile JSON: %w", err)
	}
	return p.Normalize(), nil
}
