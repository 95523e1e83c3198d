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

type Drop struct {
	cmdutil.ConfigFlags

	Registry *linelog.Registry
}

func (c *Drop) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("needs one (section) argument")
	}
	config, _, err := c.GetConfig(registry(c.Registry))
	if err != nil {
		return err
	}
	return config.DeleteSection(args[0])
}

func (c *Drop) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("drop", flag.ContinueOnError)
	c.ConfigFlags.SetFlags(fset, false /* mirror */)
	return "drop", fset, cli.CmdFunc(c.run)
}

func (c *Drop) Purpose() string {
	return "Removes a section and all its options from the config file"
}
