package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/config"
	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/pkg/dom"
	"github.com/vango-dev/pagekit/pkg/favorite"
	"github.com/vango-dev/pagekit/pkg/fetch"
)

func favoriteCmd(opts *globalOptions) *cobra.Command {
	var (
		off      bool
		out      string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "favorite <page.html> <id>",
		Short: "Render a favorite button state into an HTML file",
		Long: `Render the favorite state of an entity into an HTML page.

The button gets the favorited class and the x icon is shown when the
entity is favorited; otherwise the star icon is shown. Elements that
are missing from the page are skipped.

With --endpoint the new state is asked from a JSON endpoint that
answers {"favorited": bool}, the way a page toggles it on click.

Examples:
  pagekit favorite index.html 123
  pagekit favorite index.html 123 --off -o -
  pagekit favorite index.html 123 --endpoint http://localhost:7070/api/favorites/123`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			path, entityID := args[0], args[1]
			f, err := os.Open(path)
			if err != nil {
				return errors.Newf(errors.CategoryCLI, "cannot open %s", path).Wrap(err)
			}
			doc, err := dom.ParseHTML(f)
			f.Close()
			if err != nil {
				return errors.Newf(errors.CategoryMalformed, "cannot parse %s", path).Wrap(err)
			}

			acc := dom.NewAccessor(doc, dom.WithLogger(e.logger), dom.WithMetrics(e.metrics))
			presenter := newPresenter(e.cfg, acc)

			favorited := !off
			if endpoint != "" {
				client := fetch.New(
					fetch.WithBaseURL(e.cfg.HTTP.BaseURL),
					fetch.WithTimeout(e.cfg.Timeout()),
					fetch.WithLogger(e.logger),
					fetch.WithMetrics(e.metrics),
				)
				favorited, err = presenter.Apply(commandContext(cmd), client, endpoint, entityID)
				if err != nil {
					return transportError(err)
				}
			} else {
				presenter.SetState(entityID, favorited)
			}

			html, err := doc.Render()
			if err != nil {
				return err
			}

			if out == "" {
				out = path
			}
			if out == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), html)
				return nil
			}
			if err := os.WriteFile(out, []byte(html), 0644); err != nil {
				return errors.Newf(errors.CategoryCLI, "cannot write %s", out).Wrap(err)
			}
			state := "not favorited"
			if favorited {
				state = "favorited"
			}
			success(cmd.OutOrStdout(), "%s is %s in %s", entityID, state, out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&off, "off", false, "Render the entity as not favorited")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, '-' for stdout (default: overwrite the page)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Ask this JSON endpoint for the new state")

	return cmd
}

// newPresenter builds a favorite presenter from the classes and id templates
// in cfg.
func newPresenter(cfg *config.Config, acc *dom.Accessor) *favorite.Presenter {
	return favorite.NewPresenter(acc, dom.NewToggler(cfg.Classes.Hidden), favorite.Config{
		ButtonID:       cfg.Favorite.Button,
		StarIconID:     cfg.Favorite.StarIcon,
		XIconID:        cfg.Favorite.XIcon,
		FavoritedClass: cfg.Classes.Favorited,
	})
}
