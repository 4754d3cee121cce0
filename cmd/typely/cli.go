package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/typely/typely/internal/app"
	"github.com/typely/typely/internal/config"
	"github.com/typely/typely/internal/logging"
	"github.com/typely/typely/internal/snippet"
	"github.com/typely/typely/internal/snippet/script"
	"github.com/typely/typely/internal/store"
	"github.com/typely/typely/internal/trigger"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	return &cli.App{
		Name:    "typely",
		Usage:   "Text expansion daemon and snippet manager",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "Config file path"},
			&cli.StringFlag{Name: "db", Usage: "Database file path"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug|info|warn|error"},
		},
		Commands: []*cli.Command{
			runCmd(),
			addCmd(),
			listCmd(),
			rmCmd(),
			setCmd(),
			enableCmd(true),
			enableCmd(false),
			importCmd(),
			exportCmd(),
			expandCmd(),
			triggersCmd(),
			statsCmd(),
		},
	}
}

// loadConfig reads the config honoring the global flag.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")
	if path == "" {
		path = config.DefaultPath()
	}
	return config.Load(path)
}

// openStore opens the snippet database honoring the global flags.
func openStore(c *cli.Context) (*store.Store, error) {
	path := c.String("db")
	if path == "" {
		cfg, err := loadConfig(c)
		if err != nil {
			return nil, err
		}
		path = cfg.Daemon.DatabasePath
	}
	if path == "" {
		path = config.DefaultDBPath()
	}
	return store.Open(path)
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the expansion daemon",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "terminal", Usage: "Capture keys from this terminal instead of the OS hook"},
		},
		Action: func(c *cli.Context) error {
			a, err := app.New(app.Options{
				ConfigPath: c.String("config"),
				DBPath:     c.String("db"),
				LogLevel:   c.String("log-level"),
				Terminal:   c.Bool("terminal"),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.Run(ctx)
		},
	}
}

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a snippet",
		ArgsUsage: "<trigger> <replacement>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.BoolFlag{Name: "script", Usage: "Treat the replacement as a Lua chunk"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: typely add <trigger> <replacement>")
			}

			kind := snippet.KindText
			if c.Bool("script") {
				kind = snippet.KindScript
			}
			sn, err := snippet.NewKind(c.Args().Get(0), c.Args().Get(1), kind)
			if err != nil {
				return err
			}
			for _, tag := range parseTags(c.String("tags")) {
				sn.AddTag(tag)
			}

			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Create(sn); err != nil {
				return err
			}
			fmt.Printf("added %s (%s)\n", sn.Trigger, sn.ID)
			return nil
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List snippets",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "Filter by trigger/replacement substring"},
			&cli.StringFlag{Name: "tags", Usage: "Require all of these comma-separated tags"},
			&cli.BoolFlag{Name: "active", Usage: "Only active snippets"},
			&cli.BoolFlag{Name: "inactive", Usage: "Only inactive snippets"},
			&cli.StringFlag{Name: "sort", Value: "updated_at", Usage: "Sort by: trigger|created_at|updated_at|usage_count"},
			&cli.StringFlag{Name: "order", Value: "desc", Usage: "Sort order: asc|desc"},
			&cli.IntFlag{Name: "limit", Usage: "Max results (0 = all)"},
			&cli.IntFlag{Name: "offset", Usage: "Skip this many results"},
		},
		Action: func(c *cli.Context) error {
			q := snippet.NewQuery().
				WithSort(snippet.SortBy(c.String("sort")), snippet.SortOrder(c.String("order"))).
				WithPage(c.Int("limit"), c.Int("offset"))
			if s := c.String("search"); s != "" {
				q = q.WithSearch(s)
			}
			if tags := parseTags(c.String("tags")); len(tags) > 0 {
				q = q.WithTags(tags...)
			}
			if c.Bool("active") {
				q = q.WithActive(true)
			} else if c.Bool("inactive") {
				q = q.WithActive(false)
			}

			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			snips, err := s.List(q)
			if err != nil {
				return err
			}
			if len(snips) == 0 {
				fmt.Println("no snippets")
				return nil
			}

			for _, sn := range snips {
				printSnippetLine(os.Stdout, sn)
			}
			return nil
		},
	}
}

func printSnippetLine(w io.Writer, sn *snippet.Snippet) {
	state := "on"
	if !sn.Active {
		state = "off"
	}
	line := fmt.Sprintf("%-20s [%s] uses=%d", sn.Trigger, state, sn.UsageCount)
	if sn.Kind == snippet.KindScript {
		line += " (script)"
	}
	if len(sn.Tags) > 0 {
		line += " tags=" + strings.Join(sn.Tags, ",")
	}
	fmt.Fprintf(w, "%s\n    %s\n", line, preview(sn.Replacement))
}

// preview truncates a replacement to a single display line.
func preview(s string) string {
	s = strings.ReplaceAll(s, "\n", "\\n")
	const max = 70
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

func rmCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove a snippet",
		ArgsUsage: "<trigger>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: typely rm <trigger>")
			}

			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			sn, err := s.GetByTrigger(c.Args().Get(0))
			if err != nil {
				return err
			}
			if err := s.Delete(sn.ID); err != nil {
				return err
			}
			fmt.Printf("removed %s\n", sn.Trigger)
			return nil
		},
	}
}

func setCmd() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Update a snippet",
		ArgsUsage: "<trigger>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "replacement", Usage: "New replacement text"},
			&cli.StringFlag{Name: "rename", Usage: "New trigger"},
			&cli.StringFlag{Name: "add-tag", Usage: "Tag to add"},
			&cli.StringFlag{Name: "remove-tag", Usage: "Tag to remove"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: typely set <trigger> [flags]")
			}

			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			sn, err := s.GetByTrigger(c.Args().Get(0))
			if err != nil {
				return err
			}

			if r := c.String("replacement"); r != "" {
				if err := sn.UpdateReplacement(r); err != nil {
					return err
				}
			}
			if tr := c.String("rename"); tr != "" {
				if err := sn.UpdateTrigger(tr); err != nil {
					return err
				}
			}
			if tag := c.String("add-tag"); tag != "" {
				sn.AddTag(tag)
			}
			if tag := c.String("remove-tag"); tag != "" {
				sn.RemoveTag(tag)
			}

			if err := s.Update(sn); err != nil {
				return err
			}
			fmt.Printf("updated %s\n", sn.Trigger)
			return nil
		},
	}
}

func enableCmd(enable bool) *cli.Command {
	name, verb, usage := "enable", "enabled", "Enable a snippet"
	if !enable {
		name, verb, usage = "disable", "disabled", "Disable a snippet"
	}
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<trigger>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: typely %s <trigger>", name)
			}

			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			sn, err := s.GetByTrigger(c.Args().Get(0))
			if err != nil {
				return err
			}
			if enable {
				sn.Activate()
			} else {
				sn.Deactivate()
			}
			if err := s.Update(sn); err != nil {
				return err
			}
			fmt.Printf("%s %s\n", verb, sn.Trigger)
			return nil
		},
	}
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import snippets from a JSON file (- for stdin)",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "overwrite", Usage: "Replace existing snippets with the same trigger"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: typely import <file>")
			}

			var r io.Reader = os.Stdin
			if name := c.Args().Get(0); name != "-" {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.ImportJSON(r, c.Bool("overwrite"))
			if err != nil {
				return err
			}
			fmt.Printf("imported %d, updated %d, skipped %d\n", res.Imported, res.Updated, res.Skipped)
			for _, e := range res.Errors {
				fmt.Fprintf(os.Stderr, "skipping %s\n", e)
			}
			return nil
		},
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export snippets as JSON (stdout by default)",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "active-only", Usage: "Exclude inactive snippets"},
			&cli.StringFlag{Name: "tags", Usage: "Only snippets with all of these comma-separated tags"},
		},
		Action: func(c *cli.Context) error {
			q := snippet.NewQuery().WithSort(snippet.SortByTrigger, snippet.SortAsc)
			if c.Bool("active-only") {
				q = q.WithActive(true)
			}
			if tags := parseTags(c.String("tags")); len(tags) > 0 {
				q = q.WithTags(tags...)
			}

			var w io.Writer = os.Stdout
			if c.NArg() > 0 {
				f, err := os.Create(c.Args().Get(0))
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.ExportJSON(w, q)
			if err != nil {
				return err
			}
			if c.NArg() > 0 {
				fmt.Printf("exported %d snippets\n", n)
			}
			return nil
		},
	}
}

func expandCmd() *cli.Command {
	return &cli.Command{
		Name:      "expand",
		Usage:     "Resolve a trigger and print its expansion",
		ArgsUsage: "<trigger>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: typely expand <trigger>")
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			var scripts snippet.ScriptEvaluator
			if cfg.Script.Enabled {
				scripts = script.NewEvaluator(cfg.ScriptTimeout(), logging.Null)
			}
			resolver := snippet.NewResolver(s, scripts, cfg.Expansion.CaseSensitive, logging.Null)

			res, err := resolver.ResolveAndExpand(c.Args().Get(0), "")
			if err != nil {
				return err
			}
			if !res.Matched {
				return errors.New("no active snippet for that trigger")
			}
			fmt.Println(res.Text)
			return nil
		},
	}
}

func triggersCmd() *cli.Command {
	return &cli.Command{
		Name:      "triggers",
		Usage:     "Scan text and print the triggers it contains",
		ArgsUsage: "<text>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: typely triggers <text>")
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			matcher := trigger.NewMatcher(cfg.Patterns()...)

			matches := matcher.FindTriggers(c.Args().Get(0))
			if len(matches) == 0 {
				fmt.Println("no triggers")
				return nil
			}
			for _, m := range matches {
				fmt.Printf("%s [%d:%d)\n", m.Trigger, m.Start, m.End)
			}
			return nil
		},
	}
}

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show snippet collection statistics",
		Action: func(c *cli.Context) error {
			s, err := openStore(c)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := s.Stats()
			if err != nil {
				return err
			}
			fmt.Printf("snippets: %d (%d active, %d inactive)\n", st.Total, st.Active, st.Inactive)
			fmt.Printf("total expansions: %d\n", st.TotalUsage)
			return nil
		},
	}
}

func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
