package main

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagekit/internal/errors"
	"github.com/vango-dev/pagekit/pkg/fetch"
)

func fetchCmd(opts *globalOptions) *cobra.Command {
	var headers []string

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Call JSON endpoints",
		Long: `Call a JSON endpoint and print the decoded response.

Relative URLs are resolved against http.baseURL in pagekit.json.
GET fails on a non-2xx status; POST returns whatever JSON the
server sent.

Examples:
  pagekit fetch get https://api.example.com/items/1
  pagekit fetch get /items -H 'Authorization: Bearer t'
  pagekit fetch post /favorites '{"id":"1","favorited":true}'`,
	}

	newClient := func(cmd *cobra.Command) (*fetch.Client, error) {
		e, err := loadEnv(opts, cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		return fetch.New(
			fetch.WithBaseURL(e.cfg.HTTP.BaseURL),
			fetch.WithTimeout(e.cfg.Timeout()),
			fetch.WithLogger(e.logger),
			fetch.WithMetrics(e.metrics),
		), nil
	}

	getCmd := &cobra.Command{
		Use:   "get <url>",
		Short: "GET a JSON resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			header, err := parseHeaders(headers)
			if err != nil {
				return err
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			msg, err := client.GetJSON(commandContext(cmd), args[0], &fetch.Options{Header: header})
			if err != nil {
				return transportError(err)
			}
			return printJSON(cmd.OutOrStdout(), msg)
		},
	}
	getCmd.Flags().StringArrayVarP(&headers, "header", "H", nil, "Request header as 'Name: value' (repeatable)")

	postCmd := &cobra.Command{
		Use:   "post <url> [json]",
		Short: "POST a JSON body",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var body any = map[string]any{}
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return errors.New("E041").WithDetail(fmt.Sprintf("Got %s", args[1]))
				}
				body = json.RawMessage(args[1])
			}
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			msg, err := client.PostJSON(commandContext(cmd), args[0], body)
			if err != nil {
				return transportError(err)
			}
			return printJSON(cmd.OutOrStdout(), msg)
		},
	}

	cmd.AddCommand(getCmd, postCmd)
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func parseHeaders(lines []string) (http.Header, error) {
	header := http.Header{}
	for _, line := range lines {
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, errors.New("E040").
				WithDetail(fmt.Sprintf("Header %q is not 'Name: value'", line))
		}
		header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	return header, nil
}

// transportError maps a fetch error onto the CLI error codes.
func transportError(err error) error {
	var statusErr *fetch.StatusError
	if stderrors.As(err, &statusErr) {
		return errors.New("E021").Wrap(err)
	}
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.New("E011").Wrap(err)
	}
	return errors.New("E020").Wrap(err)
}

func printJSON(w io.Writer, msg json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, msg, "", "  "); err != nil {
		return errors.New("E011").Wrap(err)
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
