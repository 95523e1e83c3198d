// Copyright (c) 2023 BVK Chaitanya

package main

import (
	"context"
	"log"
	"os"

	"github.com/bvk/pdfscrape/linelog"
	"github.com/bvk/pdfscrape/subcmds"
	"github.com/bvk/pdfscrape/subcmds/config"
	"github.com/visvasity/cli"
)

func commands(reg *linelog.Registry) []cli.Command {
	configCmds := []cli.Command{
		&config.Get{Registry: reg},
		&config.Set{Registry: reg},
		&config.Unset{Registry: reg},
		&config.Drop{Registry: reg},
		&config.Show{Registry: reg},
	}

	return []cli.Command{
		&subcmds.Scrape{Registry: reg},
		cli.NewGroup("config", "View/update the config file", configCmds...),
	}
}

func main() {
	reg := linelog.Default()
	err := cli.Run(context.Background(), commands(reg), os.Args[1:])
	reg.Close()
	if err != nil {
		log.Fatal(err)
	}
}
