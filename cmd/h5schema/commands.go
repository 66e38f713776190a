package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/robert-malhotra/go-hdf5-schema/portable"
	"github.com/robert-malhotra/go-hdf5-schema/schema"
)

func describeCommand(c *cli, app *kingpin.Application) (*kingpin.CmdClause, kingpinHandler) {
	cmd := app.Command("describe", "prints the portable type of each layout")
	files := cmd.Arg("layouts", "layout files").Required().ExistingFiles()
	parallel := cmd.Flag("parallel", "layouts described at once").Default(fmt.Sprint(runtime.NumCPU())).Int()

	return cmd, func(string) error {
		results := make([]string, len(*files))

		var g errgroup.Group
		g.SetLimit(max(*parallel, 1))
		for i, path := range *files {
			i, path := i, path
			g.Go(func() error {
				l, err := c.open(path)
				if err != nil {
					return err
				}
				s := l.session
				results[i] = fmt.Sprintf("%s: %s\n  %s\n",
					c.pathColor.Sprint(path),
					c.typeColor.Sprint(s.Definition()),
					c.dimColor.Sprintf("%s objects, %s charged, session %s",
						humanize.Comma(int64(s.Registry().Len())),
						humanize.Bytes(s.Allocator().InUse()),
						s.ID()))
				return l.Close()
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprint(c.stdout, r)
		}
		return nil
	}
}

func objectsCommand(c *cli, app *kingpin.Application) (*kingpin.CmdClause, kingpinHandler) {
	cmd := app.Command("objects", "lists the materialized objects of a layout in registry order")
	file := cmd.Arg("layout", "layout file").Required().ExistingFile()
	showKeys := cmd.Flag("keys", "print identity keys").Bool()

	return cmd, func(string) error {
		l, err := c.open(*file)
		if err != nil {
			return err
		}
		for _, obj := range l.session.Registry().Objects() {
			line := fmt.Sprintf("%-8s %s", obj.Kind(), c.pathColor.Sprint(obj.Path()))
			if d, ok := obj.(*schema.Dataset); ok {
				def := d.Definition()
				line += c.dimColor.Sprintf(" %v %s elements of %s",
					d.Dims(), humanize.Comma(def.NumElements()), def.BaseType())
			}
			if *showKeys {
				line += c.dimColor.Sprintf(" [%s]", obj.Key())
			}
			fmt.Fprintln(c.stdout, line)
		}
		return l.Close()
	}
}

func attrsCommand(c *cli, app *kingpin.Application) (*kingpin.CmdClause, kingpinHandler) {
	cmd := app.Command("attrs", "lists the attributes of a layout")
	file := cmd.Arg("layout", "layout file").Required().ExistingFile()

	return cmd, func(string) error {
		l, err := c.open(*file)
		if err != nil {
			return err
		}
		err = l.session.WalkAttrs(func(info schema.AttrInfo) error {
			_, err := fmt.Fprintf(c.stdout, "%s: %s\n", c.pathColor.Sprint(info.Path), c.typeColor.Sprint(info.Type))
			return err
		})
		return multierr.Append(err, l.Close())
	}
}

func lookupCommand(c *cli, app *kingpin.Application) (*kingpin.CmdClause, kingpinHandler) {
	cmd := app.Command("lookup", "prints the portable type and Go type of an object or attribute")
	file := cmd.Arg("layout", "layout file").Required().ExistingFile()
	path := cmd.Arg("path", "object path, or object@attribute").Required().String()

	return cmd, func(string) error {
		l, err := c.open(*file)
		if err != nil {
			return err
		}
		def, err := lookupDefinition(l.session, *path)
		if err != nil {
			return errors.Wrap(multierr.Append(err, l.Close()), *path)
		}
		goType, err := def.GoType()
		if err != nil {
			return errors.Wrap(multierr.Append(err, l.Close()), *path)
		}
		fmt.Fprintf(c.stdout, "%s: %s\n  go: %s\n", c.pathColor.Sprint(*path), c.typeColor.Sprint(def), goType)
		return l.Close()
	}
}

func lookupDefinition(s *schema.Session, path string) (*portable.Type, error) {
	if strings.Contains(path, "@") {
		a, err := s.Attr(path)
		if err != nil {
			return nil, err
		}
		return a.Definition(), nil
	}
	obj, err := s.Lookup(path)
	if err != nil {
		return nil, err
	}
	return obj.Definition(), nil
}

func dumpCommand(c *cli, app *kingpin.Application) (*kingpin.CmdClause, kingpinHandler) {
	cmd := app.Command("dump", "dumps the runtime node of an object")
	file := cmd.Arg("layout", "layout file").Required().ExistingFile()
	path := cmd.Arg("path", "object path").Default("/").String()
	depth := cmd.Flag("depth", "maximum nesting depth").Default("4").Int()

	return cmd, func(string) error {
		l, err := c.open(*file)
		if err != nil {
			return err
		}
		obj, err := l.session.Lookup(*path)
		if err != nil {
			return errors.Wrap(multierr.Append(err, l.Close()), *path)
		}
		cfg := spew.ConfigState{
			Indent:                  "  ",
			MaxDepth:                *depth,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			DisableMethods:          true,
		}
		cfg.Fdump(c.stdout, obj)
		return l.Close()
	}
}
