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

type Set struct {
	cmdutil.ConfigFlags

	Registry *linelog.Registry

	update bool
}

func (c *Set) run(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("needs three (section, option, value) arguments")
	}
	config, _, err := c.GetConfig(registry(c.Registry))
	if err != nil {
		return err
	}
	if c.update {
		return config.Update(args[0], args[1], args[2])
	}
	return config.Set(args[0], args[1], args[2])
}

func (c *Set) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("set", flag.ContinueOnError)
	c.ConfigFlags.SetFlags(fset, false /* mirror */)
	fset.BoolVar(&c.update, "update", false, "When true, the change is logged as an update")
	return "set", fset, cli.CmdFunc(c.run)
}

func (c *Set) Purpose() string {
	return "Sets an option in the config file, creating the section if needed"
}
