// Copyright (c) 2024 BVK Chaitanya

package config

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bvk/pdfscrape/linelog"
	"github.com/bvk/pdfscrape/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Show struct {
	cmdutil.ConfigFlags

	Registry *linelog.Registry
}

func (c *Show) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	config, _, err := c.GetConfig(registry(c.Registry))
	if err != nil {
		return err
	}
	_, err = config.WriteTo(os.Stdout)
	return err
}

func (c *Show) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("show", flag.ContinueOnError)
	c.ConfigFlags.SetFlags(fset, false /* mirror */)
	return "show", fset, cli.CmdFunc(c.run)
}

func (c *Show) Purpose() string {
	return "Prints all sections and options of the config file"
}
