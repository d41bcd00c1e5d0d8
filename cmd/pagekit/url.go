package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/pkg/urlparam"
)

func urlCmd(opts *globalOptions) *cobra.Command {
	var (
		each    bool
		history bool
		params  bool
	)

	cmd := &cobra.Command{
		Use:   "url <address> [name=value...]",
		Short: "Apply query updates to an address",
		Long: `Apply query updates to an address and print the committed href.

Updates are written as name=value. An empty value removes the
parameter. Existing parameters keep their position; new ones are
appended in the order given. All updates are committed at once
unless --each is set.

Examples:
  pagekit url '/list?page=2' sort=name
  pagekit url '/list?page=2&q=x' q=
  pagekit url '/search' q='a b' --params`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			pairs, err := parseUpdates(args[1:])
			if err != nil {
				return err
			}

			loc := urlparam.NewMemoryLocation(args[0])
			syncer := urlparam.NewSynchronizer(loc,
				urlparam.WithLogger(e.logger),
				urlparam.WithMetrics(e.metrics),
			)

			if each {
				for _, p := range pairs {
					if err := syncer.Set(p.Name, p.Value, nil); err != nil {
						return err
					}
				}
			} else if len(pairs) > 0 {
				if err := syncer.SetMany(pairs, nil); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if history {
				for i, entry := range loc.Entries() {
					fmt.Fprintf(out, "%d %s\n", i+1, entry.URL)
				}
			}
			if params {
				for _, p := range syncer.Current().Pairs() {
					fmt.Fprintf(out, "%s=%s\n", p.Name, p.Value)
				}
				return nil
			}
			fmt.Fprintln(out, syncer.Href())
			return nil
		},
	}

	cmd.Flags().BoolVar(&each, "each", false, "Commit every update separately")
	cmd.Flags().BoolVar(&history, "history", false, "Print every committed address")
	cmd.Flags().BoolVar(&params, "params", false, "Print the decoded parameters instead of the href")

	return cmd
}

// parseUpdates splits name=value arguments. The name must not be empty.
func parseUpdates(args []string) ([]urlparam.Pair, error) {
	pairs := make([]urlparam.Pair, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, errors.New("E012").
				WithDetail(fmt.Sprintf("Got %q", arg)).
				WithSuggestion("Write updates as name=value, or name= to remove")
		}
		pairs = append(pairs, urlparam.Pair{Name: name, Value: value})
	}
	return pairs, nil
}
