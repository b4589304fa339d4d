package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/zot/prefs/internal/codec"
	"github.com/zot/prefs/internal/prefs"
	"github.com/zot/prefs/internal/store"
	"github.com/zot/prefs/internal/value"
	"github.com/zot/prefs/internal/watch"
)

// splitKey separates a dotted key into its group path and value name.
func splitKey(key string) (group, name string) {
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return "", key
}

// parseFlags parses fs allowing flags between positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (e *env) usage(text string) int {
	fmt.Fprintf(e.stderr, "Usage: prefs %s\n", text)
	return 2
}

func (e *env) fail(format string, args ...any) int {
	fmt.Fprintf(e.stderr, "Error: "+format+"\n", args...)
	return 1
}

// save writes changed files and reports whether they were stored.
func (e *env) save(f *prefs.File) int {
	e.prefs.Save(false)
	if f.IsChanged() {
		return e.fail("could not save preferences")
	}
	return 0
}

func (e *env) runGet(args []string) int {
	if len(args) != 2 {
		return e.usage("get <file> <key>")
	}
	f, ok := e.prefs.Get(args[0])
	if !ok {
		return e.fail("no preferences file %q", args[0])
	}
	group, name := splitKey(args[1])
	g, ok := f.Lookup(group)
	if !ok {
		return e.fail("%s is not set", args[1])
	}
	v, ok := g.Get(name)
	if !ok {
		return e.fail("%s is not set", args[1])
	}

	if t, ok := v.(value.Table); ok {
		data, err := codec.TOML{}.Marshal(t)
		if err != nil {
			return e.fail("%v", err)
		}
		e.stdout.Write(data)
		return 0
	}
	fmt.Fprintln(e.stdout, value.Format(v))
	return 0
}

func (e *env) runSet(args []string) int {
	if len(args) != 3 {
		return e.usage("set <file> <key> <value>")
	}
	f, ok := e.prefs.GetMut(args[0])
	if !ok {
		return e.fail("%v", store.ErrUnavailable)
	}
	group, name := splitKey(args[1])
	if name == "" {
		return e.usage("set <file> <key> <value>")
	}
	g, ok := f.LookupMut(group)
	if !ok {
		return e.fail("%s is not a group", group)
	}
	g.SetIfChanged(name, value.Parse(args[2]))
	return e.save(f)
}

func (e *env) runRm(args []string) int {
	if len(args) != 2 {
		return e.usage("rm <file> <key>")
	}
	f, ok := e.prefs.Get(args[0])
	if !ok {
		return e.fail("no preferences file %q", args[0])
	}
	group, name := splitKey(args[1])
	if r, ok := f.Lookup(group); !ok || !r.Has(name) {
		return e.fail("%s is not set", args[1])
	}
	g, _ := f.LookupMut(group)
	g.Remove(name)
	return e.save(f)
}

func (e *env) runDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	format := fs.String("format", e.cfg.Store.Format, "Output format: toml, json, yaml")
	args, err := parseFlags(fs, args)
	if err != nil {
		return 2
	}
	if len(args) != 1 {
		return e.usage("dump <file> [--format toml|json|yaml]")
	}

	c, err := codec.ByName(*format)
	if err != nil {
		return e.fail("%v", err)
	}
	f, ok := e.prefs.Get(args[0])
	if !ok {
		return e.fail("no preferences file %q", args[0])
	}
	data, err := c.Marshal(f.Table())
	if err != nil {
		return e.fail("%v", err)
	}
	e.stdout.Write(data)
	return 0
}

func (e *env) runPath(args []string) int {
	if len(args) > 1 {
		return e.usage("path [file]")
	}
	s := e.prefs.Store()
	if !s.IsValid() {
		return e.fail("%v", store.ErrUnavailable)
	}
	switch s := s.(type) {
	case *store.FSStore:
		if len(args) == 1 {
			fmt.Fprintln(e.stdout, s.Path(args[0]))
			return 0
		}
	case *store.KVStore:
		if len(args) == 1 {
			fmt.Fprintln(e.stdout, s.StorageKey(args[0]))
			return 0
		}
	}
	fmt.Fprintln(e.stdout, s.Location())
	return 0
}

func (e *env) runWatch(args []string) int {
	s, ok := e.prefs.Store().(*store.FSStore)
	if !ok {
		return e.fail("watch needs the fs backend")
	}
	out := codec.TOML{}
	w, err := watch.New(s, args, func(name string, f *prefs.File) {
		data, err := out.Marshal(f.Table())
		if err != nil {
			fmt.Fprintf(e.stderr, "Error: %s: %v\n", name, err)
			return
		}
		fmt.Fprintf(e.stdout, "# %s\n%s\n", name, data)
	}, watch.WithLogger(e.prefs.Logger()))
	if err != nil {
		return e.fail("%v", err)
	}
	if err := w.Start(); err != nil {
		return e.fail("%v", err)
	}
	defer w.Stop()

	<-e.ctx.Done()
	return 0
}
