package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"photogrid/internal/debounce"
	"photogrid/internal/domain"
	"photogrid/internal/logging"
	"photogrid/internal/search"
)

type searchOptions struct {
	once  string
	json  bool
	limit int
}

func newSearchCommand(opts *Options) *cobra.Command {
	so := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search without the terminal UI",
		Long: `
Read search field edits from stdin, one per line, and print each result set.

Edits are debounced exactly like keystrokes in the UI: a term is searched once
no new line has arrived for the quiet period, and a result that arrives after
a newer term was sent is dropped. Use --once to search a single term and exit.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, so)
		},
	}

	cmd.Flags().StringVar(&so.once, "once", "", "search a single term without debouncing and exit")
	cmd.Flags().BoolVar(&so.json, "json", false, "print result sets as JSON lines")
	cmd.Flags().IntVarP(&so.limit, "limit", "n", 10, "photos printed per result set (0 prints all)")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *Options, so *searchOptions) error {
	cfg, svc, err := loadConfig(opts, nil)
	if err != nil {
		return err
	}
	lvl, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logging.Console(cmd.ErrOrStderr(), lvl)

	searcher, closeCache, err := newSearcher(cfg, svc.Path(), log)
	if err != nil {
		return err
	}
	defer closeCache()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var terms <-chan string
	if cmd.Flags().Changed("once") {
		ch := make(chan string, 1)
		ch <- so.once
		close(ch)
		terms = ch
	} else {
		terms = debounce.Stream(ctx, cfg.Debounce(), readLines(ctx, cmd.InOrStdin()))
	}

	pr := &printer{out: cmd.OutOrStdout(), json: so.json, limit: so.limit}
	var lastErr error
	fail := func(o search.Outcome) {
		lastErr = o.Err
		log.Error().Err(o.Err).Uint64("seq", o.Seq).Str("term", o.Term).Msg("search failed")
	}

	pipeline := search.New(searcher, search.WithLogger(log))
	if err := pipeline.Serve(ctx, terms, pr.print, fail); err != nil {
		return err
	}
	if pr.err != nil {
		return fmt.Errorf("failed to write results: %w", pr.err)
	}
	if so.once != "" && lastErr != nil {
		return fmt.Errorf("search %q failed: %w", so.once, lastErr)
	}
	return nil
}

// readLines sends every line of r until r is exhausted or ctx is done
func readLines(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

type jsonResult struct {
	Seq   uint64         `json:"seq"`
	Term  string         `json:"term"`
	Count int            `json:"count"`
	Hits  []domain.Photo `json:"hits"`
}

type printer struct {
	out   io.Writer
	json  bool
	limit int
	err   error
}

func (p *printer) print(rs domain.ResultSet) {
	if p.err != nil {
		return
	}
	if p.json {
		p.err = json.NewEncoder(p.out).Encode(jsonResult{Seq: rs.Seq, Term: rs.Term, Count: rs.Len(), Hits: rs.Items})
		return
	}

	if _, p.err = fmt.Fprintf(p.out, "%q: %d photos\n", rs.Term, rs.Len()); p.err != nil {
		return
	}
	for i, photo := range rs.Items {
		if p.limit > 0 && i >= p.limit {
			_, p.err = fmt.Fprintf(p.out, "  ... %d more\n", rs.Len()-i)
			return
		}
		if _, p.err = fmt.Fprintf(p.out, "  %-10d %s  %s\n", photo.ID, photo.URL, photo.Tags); p.err != nil {
			return
		}
	}
}
