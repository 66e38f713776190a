// Command h5schema describes container layouts as portable types.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/robert-malhotra/go-hdf5-schema/internal/fixture"
	"github.com/robert-malhotra/go-hdf5-schema/internal/memfile"
	"github.com/robert-malhotra/go-hdf5-schema/native"
	"github.com/robert-malhotra/go-hdf5-schema/portable"
	"github.com/robert-malhotra/go-hdf5-schema/schema"
)

type kingpinHandler func(input string) error
type kingpinCommand func(*cli, *kingpin.Application) (*kingpin.CmdClause, kingpinHandler)

var commands = []kingpinCommand{
	describeCommand,
	objectsCommand,
	attrsCommand,
	lookupCommand,
	dumpCommand,
}

// cli holds the global flags and output streams shared by all commands.
type cli struct {
	stdout io.Writer
	stderr io.Writer
	log    *logrus.Logger

	verbose     *bool
	logLevel    *string
	colorMode   *string
	maxDims     *int
	blockSize   *int
	memoryLimit *string

	typeColor *color.Color
	pathColor *color.Color
	dimColor  *color.Color
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	c := &cli{stdout: stdout, stderr: stderr, log: logrus.New()}

	app := kingpin.New("h5schema", "Describes container layouts as portable types.")
	app.HelpFlag.Short('h')
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)

	c.verbose = app.Flag("verbose", "log every skipped object").Short('v').Bool()
	c.logLevel = app.Flag("log-level", "log level").Default("warning").Enum("debug", "info", "warning", "error")
	c.colorMode = app.Flag("color", "colorize output").Default("auto").Enum("auto", "always", "never")
	c.maxDims = app.Flag("max-dims", "highest rank of a dataset or attribute that is kept").
		Default(strconv.Itoa(portable.MaxNumDims)).Int()
	c.blockSize = app.Flag("block-size", "registry growth in objects").
		Default(strconv.Itoa(schema.DefaultBlockSize)).Int()
	c.memoryLimit = app.Flag("memory-limit", "memory budget per layout, e.g. 64KiB (0 for none)").
		Default("0").String()

	handlers := map[string]kingpinHandler{}
	for _, cmd := range commands {
		clause, handler := cmd(c, app)
		handlers[clause.FullCommand()] = handler
	}

	input, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "h5schema: %v\n", err)
		return 2
	}
	if err := c.setup(); err != nil {
		fmt.Fprintf(stderr, "h5schema: %v\n", err)
		return 2
	}
	if err := handlers[input](input); err != nil {
		fmt.Fprintf(stderr, "h5schema: %v\n", err)
		return 1
	}
	return 0
}

func (c *cli) setup() error {
	c.log.SetOutput(c.stderr)
	c.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(*c.logLevel)
	if err != nil {
		return err
	}
	if *c.verbose {
		level = logrus.DebugLevel
	}
	c.log.SetLevel(level)

	switch *c.colorMode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(c.stdout)
	}
	c.typeColor = color.New(color.FgCyan)
	c.pathColor = color.New(color.Bold)
	c.dimColor = color.New(color.FgHiBlack)
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (c *cli) options() ([]schema.Option, error) {
	opts := []schema.Option{
		schema.WithLogger(c.log),
		schema.WithMaxDims(*c.maxDims),
		schema.WithBlockSize(*c.blockSize),
	}
	limit, err := humanize.ParseBytes(*c.memoryLimit)
	if err != nil {
		return nil, errors.Wrap(err, "--memory-limit")
	}
	if limit > 0 {
		opts = append(opts, schema.WithMemoryLimit(limit))
	}
	return opts, nil
}

// layout is a layout file loaded into memory together with its schema.
type layout struct {
	path    string
	file    *memfile.File
	loc     native.Handle
	session *schema.Session
}

func (c *cli) open(path string) (*layout, error) {
	opts, err := c.options()
	if err != nil {
		return nil, err
	}
	f, err := fixture.LoadFile(path)
	if err != nil {
		return nil, err
	}
	loc := f.Open()
	s, err := schema.Open(f, loc, "/", opts...)
	if err != nil {
		return nil, multierr.Append(errors.Wrap(err, path), f.Close(loc))
	}
	c.log.WithFields(logrus.Fields{
		"layout":  path,
		"session": s.ID().String(),
		"objects": s.Registry().Len(),
	}).Info("layout loaded")
	return &layout{path: path, file: f, loc: loc, session: s}, nil
}

func (l *layout) Close() error {
	err := l.session.Close()
	return multierr.Append(err, l.file.Close(l.loc))
}
