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

type Unset struct {
	cmdutil.ConfigFlags

	Registry *linelog.Registry
}

func (c *Unset) run(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("needs two (section, option) arguments")
	}
	config, _, err := c.GetConfig(registry(c.Registry))
	if err != nil {
		return err
	}
	return config.DeleteOption(args[0], args[1])
}

func (c *Unset) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("unset", flag.ContinueOnError)
	c.ConfigFlags.SetFlags(fset, false /* mirror */)
	return "unset", fset, cli.CmdFunc(c.run)
}

func (c *Unset) Purpose() string {
	return "Removes an option from the config file"
}
