// Command muprofile loads a startup configuration and evaluates a
// source file form by form, printing each top-level result. It is a
// harness for exercising the evaluator end to end — not a REPL or line
// editor front end.
package main

import (
	"fmt"
	"os"

	mu "github.com/putnamjm/mu-go"
	"github.com/putnamjm/mu-go/internal/config"
)

func main() {
	var configPath, sourcePath string
	var verbose bool
	i := 1
	for i < len(os.Args) {
		switch os.Args[i] {
		case "-config":
			if i+1 >= len(os.Args) {
				fmt.Fprintln(os.Stderr, "muprofile: -config requires a path")
				os.Exit(1)
			}
			configPath = os.Args[i+1]
			i += 2
		case "-v":
			verbose = true
			i++
		default:
			sourcePath = os.Args[i]
			i++
		}
	}
	if sourcePath == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [-config file.json] [-v] <source.mu>\n", os.Args[0])
		os.Exit(1)
	}

	cfg := config.Default()
	if configPath != "" {
		f, err := os.Open(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "muprofile: %v\n", err)
			os.Exit(1)
		}
		cfg, err = config.Load(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "muprofile: %v\n", err)
			os.Exit(1)
		}
	}

	env, err := mu.New(cfg.Pages, string(cfg.GCMode))
	if err != nil {
		fmt.Fprintf(os.Stderr, "muprofile: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()
	if verbose {
		env.EnableLogging()
	}

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "muprofile: %v\n", err)
		os.Exit(1)
	}

	stream := env.OpenStringStream("input", string(src))
	for {
		form, exc := env.ReadStream(stream, false, mu.UnboundTag, false)
		if exc != nil {
			fmt.Fprintf(os.Stderr, "muprofile: read: %v\n", exc)
			os.Exit(1)
		}
		if mu.IsUnbound(form) {
			break
		}
		compiled, exc := env.Compile(form)
		if exc != nil {
			fmt.Fprintf(os.Stderr, "muprofile: compile: %v\n", exc)
			os.Exit(1)
		}
		v, exc := env.Eval(compiled)
		if exc != nil {
			fmt.Fprintf(os.Stderr, "muprofile: eval: %v\n", exc)
			os.Exit(1)
		}
		fmt.Println(env.Repr(v, true))
	}

	if verbose {
		for name, stat := range env.Heap.HeapStat() {
			fmt.Fprintf(os.Stderr, "heap: %-8s size=%d total=%d free=%d\n", name, stat.Size, stat.Total, stat.Free)
		}
	}
}
