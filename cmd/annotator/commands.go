package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/nekogravitycat/annotation-client/internal/app"
	"github.com/nekogravitycat/annotation-client/internal/config"
	"github.com/nekogravitycat/annotation-client/internal/discrepancy"
	"github.com/nekogravitycat/annotation-client/internal/history"
	"github.com/nekogravitycat/annotation-client/internal/label"
	"github.com/nekogravitycat/annotation-client/internal/pkg/logctx"
	"github.com/nekogravitycat/annotation-client/internal/pkg/request"
	"github.com/nekogravitycat/annotation-client/internal/pkg/storage"
	"github.com/nekogravitycat/annotation-client/internal/stats"
)

// session is a logged-in container plus the directory exports are written to.
type session struct {
	*app.Container
	exports storage.Storage
}

// connect logs in with the configured credentials and returns the wired services.
func connect(ctx context.Context) (*session, context.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, ctx, err
	}
	if err := cfg.ValidateCLI(); err != nil {
		return nil, ctx, err
	}

	exports, err := storage.NewLocalStorage(cfg.CLI.ExportDir)
	if err != nil {
		return nil, ctx, err
	}

	level := slog.LevelWarn
	if !cfg.IsProduction() {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx = logctx.Into(ctx, logger)

	c, err := app.NewContainer(app.Config{
		Client: cfg.Client,
		Logger: logger,
		OnUnauthorized: func(loginURL string) {
			logger.Warn("session rejected, log in again", "login_url", loginURL)
		},
	})
	if err != nil {
		return nil, ctx, err
	}

	if err := c.Auth.Authenticate(ctx, cfg.CLI.Username, cfg.CLI.Password); err != nil {
		return nil, ctx, fmt.Errorf("failed to log in as %q: %w", cfg.CLI.Username, err)
	}
	return &session{Container: c, exports: exports}, ctx, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// positionalInts parses the first n args as integers and returns the rest for flag parsing.
func positionalInts(args []string, names ...string) ([]int, []string, error) {
	if len(args) < len(names) {
		return nil, nil, fmt.Errorf("missing argument <%s>", names[len(args)])
	}

	values := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(args[i])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid <%s> %q: %w", name, args[i], err)
		}
		values[i] = v
	}
	return values, args[len(names):], nil
}

// output opens path in the export directory, or returns stdout for an empty path.
func output(ctx context.Context, store storage.Storage, path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return store.Create(ctx, path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func meCommand(args []string) error {
	ctx, stop := signalContext()
	defer stop()

	c, ctx, err := connect(ctx)
	if err != nil {
		return err
	}

	return printJSON(os.Stdout, c.Auth.InitAuth(ctx))
}

func usersCommand(args []string) error {
	ctx, stop := signalContext()
	defer stop()

	c, ctx, err := connect(ctx)
	if err != nil {
		return err
	}

	users, err := c.Users.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, users.Items)
}

func commentsCommand(args []string) error {
	ids, rest, err := positionalInts(args, "project")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("comments", flag.ContinueOnError)
	limit := fs.String("limit", "", "page size")
	offset := fs.String("offset", "", "number of comments to skip")
	q := fs.String("q", "", "search text")
	sortBy := fs.String("sort", "", "field to sort by")
	desc := fs.Bool("desc", false, "sort descending")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	query := request.ParseSearchQuery(request.RawSearch{
		Limit:    *limit,
		Offset:   *offset,
		Q:        *q,
		SortBy:   *sortBy,
		SortDesc: strconv.FormatBool(*desc),
	}, nil, "created_at")

	ctx, stop := signalContext()
	defer stop()

	c, ctx, err := connect(ctx)
	if err != nil {
		return err
	}

	page, err := c.Comments.ListProjectComments(ctx, ids[0], query)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, page)
}

func compareCommand(args []string) error {
	ids, _, err := positionalInts(args, "project", "document", "user1", "user2")
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	c, ctx, err := connect(ctx)
	if err != nil {
		return err
	}

	cmp, err := c.Annotations.Comparison(ctx, ids[0], ids[1], ids[2], ids[3])
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, cmp)
}

func labelsCommand(args []string) error {
	ids, rest, err := positionalInts(args, "project")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("labels", flag.ContinueOnError)
	kind := fs.String("kind", string(label.CategoryType), "category-types, span-types or relation-types")
	out := fs.String("out", "", "output file (default stdout)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	c, ctx, err := connect(ctx)
	if err != nil {
		return err
	}

	var svc label.Service
	switch label.Kind(*kind) {
	case label.CategoryType:
		svc = c.CategoryTypes
	case label.SpanType:
		svc = c.SpanTypes
	case label.RelationType:
		svc = c.RelationTypes
	default:
		return fmt.Errorf("unknown label kind %q", *kind)
	}

	w, err := output(ctx, c.exports, *out)
	if err != nil {
		return err
	}
	defer w.Close()

	return svc.Export(ctx, ids[0], w)
}

func historyCommand(args []string) error {
	ids, rest, err := positionalInts(args, "project")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	dataset := fs.String("dataset", "", "restrict to one dataset")
	status := fs.String("status", history.StatusAll, "annotation status filter")
	out := fs.String("out", "", "output file (default annotation_history_<project>_<task>.zip)")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	c, ctx, err := connect(ctx)
	if err != nil {
		return err
	}

	var datasetName *string
	if *dataset != "" {
		datasetName = dataset
	}

	task, err := c.History.Prepare(ctx, ids[0], datasetName, *status)
	if err != nil {
		return err
	}
	// Download only succeeds once the export is ready.
	if _, err := c.History.Wait(ctx, ids[0], task); err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = history.FileName(ids[0], task)
	}
	w, err := c.exports.Create(ctx, path)
	if err != nil {
		return err
	}

	n, err := c.History.Download(ctx, ids[0], task, w)
	w.Close()
	if err != nil {
		// Don't leave a truncated archive behind.
		if rmErr := c.exports.Delete(context.Background(), path); rmErr != nil {
			logctx.From(ctx).Warn("failed to remove partial download", "path", path, "error", rmErr)
		}
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", n, c.exports.Path(path))
	return nil
}

func votesCommand(args []string) error {
	ids, rest, err := positionalInts(args, "project")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("votes", flag.ContinueOnError)
	version := fs.Int("version", 0, "only the snapshot after N annotations")
	progress := fs.Int("progress", -1, "only the snapshot at P percent")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	var params stats.LabelVoteParams
	if *version != 0 {
		params.Version = version
	}
	if *progress >= 0 {
		params.Progress = progress
	}

	ctx, stop := signalContext()
	defer stop()

	c, ctx, err := connect(ctx)
	if err != nil {
		return err
	}

	votes, err := c.Stats.LabelVotes(ctx, ids[0], params)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, votes)
}

func discrepanciesCommand(args []string) error {
	ids, rest, err := positionalInts(args, "project")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("discrepancies", flag.ContinueOnError)
	threshold := fs.Int("threshold", -1, "agreement percentage below which an example is discrepant")
	all := fs.Bool("all", false, "include examples without discrepancy")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	var opts discrepancy.Options
	if *threshold >= 0 {
		opts.Threshold = threshold
	}

	ctx, stop := signalContext()
	defer stop()

	c, ctx, err := connect(ctx)
	if err != nil {
		return err
	}

	list := c.Discrepancies.ListDiscrepant
	if *all {
		list = c.Discrepancies.List
	}
	items, err := list(ctx, ids[0], opts)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, items)
}
