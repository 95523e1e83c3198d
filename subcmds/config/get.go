// Copyright (c) 2024 BVK Chaitanya

package config

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/pdfscrape/linelog"
	"github.com/bvk/pdfscrape/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Get struct {
	cmdutil.ConfigFlags

	Registry *linelog.Registry
}

func (c *Get) run(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("needs two (section, option) arguments")
	}
	config, _, err := c.GetConfig(registry(c.Registry))
	if err != nil {
		return err
	}
	v, err := config.Get(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Println(v)
	return nil
}

func (c *Get) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get", flag.ContinueOnError)
	c.ConfigFlags.SetFlags(fset, false /* mirror */)
	return "get", fset, cli.CmdFunc(c.run)
}

func (c *Get) Purpose() string {
	return "Prints the value of an option in the config file"
}

// registry returns r or the process-wide registry when r is nil.
func registry(r *linelog.Registry) *linelog.Registry {
	if r == nil {
		return linelog.Default()
	}
	return r
}
