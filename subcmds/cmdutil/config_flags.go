// Copyright (c) 2024 BVK Chaitanya

package cmdutil

import (
	"flag"

	"github.com/bvk/pdfscrape/inifile"
	"github.com/bvk/pdfscrape/linelog"
)

// DefaultConfigFile is the config file used when -config is not given.
const DefaultConfigFile = "config.ini"

type ConfigFlags struct {
	LogFlags

	configPath string
}

func (f *ConfigFlags) SetFlags(fset *flag.FlagSet, mirror bool) {
	f.LogFlags.SetFlags(fset, mirror)
	fset.StringVar(&f.configPath, "config", DefaultConfigFile, "Path to the INI config file")
}

// GetConfig opens the config file with operations traced to the logger.
func (f *ConfigFlags) GetConfig(r *linelog.Registry) (*inifile.File, *linelog.Logger, error) {
	log, err := f.GetLogger(r)
	if err != nil {
		return nil, nil, err
	}
	config, err := inifile.Open(f.configPath, inifile.WithLogger(log))
	if err != nil {
		log.Errorf("Could not load configuration: %v", err)
		return nil, nil, err
	}
	return config, log, nil
}
