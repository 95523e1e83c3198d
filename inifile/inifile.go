// Copyright (c) 2025 BVK Chaitanya

/*
Package inifile reads and updates INI style configuration files.

The accepted syntax is the common subset understood by most INI readers:

	# comment
	; comment
	[Section]
	option = value
	other: value
	  continuation of the other value

Section names are case sensitive; option names are not and are stored in
lower case. Options outside a section, duplicate sections and duplicate
options in one section are errors.

Every update rewrites the whole file through a temporary file and a rename, so
readers never see a half written config. Comments are not preserved across
updates.
*/
package inifile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

type section struct {
	name string

	// keys keeps the option order of the file.
	keys   []string
	values map[string]string
}

// File is an INI config file loaded in memory. Methods are safe for
// concurrent use.
type File struct {
	mu sync.Mutex

	path string

	opts options

	sections []*section
}

// Open loads the config file at path. A missing file is created empty.
func Open(path string, opts ...Option) (*File, error) {
	fopts := options{
		logger:   nopLogger{},
		fileMode: 0644,
	}
	for _, v := range opts {
		if err := v.apply(&fopts); err != nil {
			return nil, err
		}
	}
	f := &File{
		path: path,
		opts: fopts,
	}

	fp, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("could not open config file %q: %w", path, err)
		}
		if err := f.save(); err != nil {
			return nil, err
		}
		f.debugf("config: created new configuration file at %s", path)
		return f, nil
	}
	defer fp.Close()

	sections, err := parse(fp)
	if err != nil {
		return nil, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	f.sections = sections
	f.debugf("config: loaded configuration from %s", path)
	return f, nil
}

// Path returns the config file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) debugf(format string, args ...any) {
	// Logging failures are not config failures.
	_ = f.opts.logger.Debug(fmt.Sprintf(format, args...))
}

func optionKey(option string) string {
	return strings.ToLower(strings.TrimSpace(option))
}

func (f *File) lookup(name string) *section {
	for _, s := range f.sections {
		if s.name == name {
			return s
		}
	}
	return nil
}

// Sections returns the section names in file order.
func (f *File) Sections() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var names []string
	for _, s := range f.sections {
		names = append(names, s.name)
	}
	return names
}

// Options returns the option names of a section in file order.
func (f *File) Options(sectionName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.lookup(sectionName)
	if s == nil {
		return nil, fmt.Errorf("no section [%s]: %w", sectionName, os.ErrNotExist)
	}
	return slices.Clone(s.keys), nil
}

// Get returns the value of an option. Missing sections and options return an
// error wrapping os.ErrNotExist.
func (f *File) Get(sectionName, option string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.lookup(sectionName)
	if s == nil {
		err := fmt.Errorf("no section [%s]: %w", sectionName, os.ErrNotExist)
		f.debugf("config: failed to read [%s] %s: %v", sectionName, option, err)
		return "", err
	}
	v, ok := s.values[optionKey(option)]
	if !ok {
		err := fmt.Errorf("no option %q in section [%s]: %w", option, sectionName, os.ErrNotExist)
		f.debugf("config: failed to read [%s] %s: %v", sectionName, option, err)
		return "", err
	}
	f.debugf("config: read [%s] %s = %s", sectionName, option, v)
	return v, nil
}

// Set sets the value of an option, adding the section if necessary, and
// rewrites the config file.
func (f *File) Set(sectionName, option, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.set(sectionName, option, value)
}

// Update is Set for an option that is expected to exist already; it is only
// logged differently.
func (f *File) Update(sectionName, option, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.set(sectionName, option, value); err != nil {
		return err
	}
	f.debugf("config: updated config [%s] %s = %s", sectionName, option, value)
	return nil
}

func (f *File) set(sectionName, option, value string) error {
	if len(sectionName) == 0 || strings.ContainsAny(sectionName, "[]\n") {
		return fmt.Errorf("invalid section name %q: %w", sectionName, os.ErrInvalid)
	}
	key := optionKey(option)
	if len(key) == 0 || strings.ContainsAny(key, "=:\n") || strings.HasPrefix(key, "[") {
		return fmt.Errorf("invalid option name %q: %w", option, os.ErrInvalid)
	}

	s := f.lookup(sectionName)
	if s == nil {
		s = &section{name: sectionName, values: make(map[string]string)}
		f.sections = append(f.sections, s)
		f.debugf("config: added new section [%s]", sectionName)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value

	if err := f.save(); err != nil {
		return err
	}
	f.debugf("config: wrote [%s] %s = %s", sectionName, key, value)
	return nil
}

// DeleteOption removes an option from a section. Missing options are
// ignored.
func (f *File) DeleteOption(sectionName, option string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.lookup(sectionName)
	if s == nil {
		return nil
	}
	key := optionKey(option)
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })

	if err := f.save(); err != nil {
		return err
	}
	f.debugf("config: deleted option [%s] %s", sectionName, key)
	return nil
}

// DeleteSection removes a section with all its options. Missing sections are
// ignored.
func (f *File) DeleteSection(sectionName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.lookup(sectionName) == nil {
		return nil
	}
	f.sections = slices.DeleteFunc(f.sections, func(s *section) bool { return s.name == sectionName })

	if err := f.save(); err != nil {
		return err
	}
	f.debugf("config: deleted section [%s]", sectionName)
	return nil
}

// WriteTo writes the config in INI syntax to w.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var buf bytes.Buffer
	f.format(&buf)
	return buf.WriteTo(w)
}

func (f *File) format(buf *bytes.Buffer) {
	for _, s := range f.sections {
		fmt.Fprintf(buf, "[%s]\n", s.name)
		for _, k := range s.keys {
			v := strings.ReplaceAll(s.values[k], "\n", "\n\t")
			if len(v) == 0 {
				fmt.Fprintf(buf, "%s =\n", k)
				continue
			}
			fmt.Fprintf(buf, "%s = %s\n", k, v)
		}
		buf.WriteByte('\n')
	}
}

// save rewrites the config file. Caller must hold the lock.
func (f *File) save() (status error) {
	var buf bytes.Buffer
	f.format(&buf)

	abspath, err := filepath.Abs(f.path)
	if err != nil {
		return fmt.Errorf("could not determine absolute path: %w", err)
	}
	fp, err := os.CreateTemp(filepath.Dir(abspath), ".config*")
	if err != nil {
		return fmt.Errorf("could not create temp file: %w", err)
	}
	defer func() {
		if status != nil {
			os.Remove(fp.Name())
		}
		fp.Close()
	}()

	if _, err := fp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("could not write config data: %w", err)
	}
	if err := fp.Chmod(f.opts.fileMode); err != nil {
		return fmt.Errorf("could not set config file mode: %w", err)
	}
	if err := fp.Sync(); err != nil {
		return fmt.Errorf("could not sync the config file: %w", err)
	}
	if err := os.Rename(fp.Name(), abspath); err != nil {
		return fmt.Errorf("could not rename temp file to %q: %w", abspath, err)
	}
	return nil
}

func parse(r io.Reader) ([]*section, error) {
	var sections []*section
	var cur *section
	var lastKey string

	scanner := bufio.NewScanner(r)
	for i := 1; scanner.Scan(); i++ {
		raw := scanner.Text()
		line := strings.TrimSpace(raw)
		if len(line) == 0 {
			lastKey = ""
			continue
		}
		if line[0] == '#' || line[0] == ';' {
			continue
		}

		// Indented lines continue the previous value.
		if raw[0] == ' ' || raw[0] == '\t' {
			if cur != nil && len(lastKey) != 0 {
				if v := cur.values[lastKey]; len(v) == 0 {
					cur.values[lastKey] = line
				} else {
					cur.values[lastKey] = v + "\n" + line
				}
				continue
			}
		}

		if line[0] == '[' {
			if line[len(line)-1] != ']' || len(line) < 3 {
				return nil, fmt.Errorf("invalid section header on line %d: %w", i, os.ErrInvalid)
			}
			name := line[1 : len(line)-1]
			if slices.ContainsFunc(sections, func(s *section) bool { return s.name == name }) {
				return nil, fmt.Errorf("duplicate section [%s] on line %d: %w", name, i, os.ErrInvalid)
			}
			cur = &section{name: name, values: make(map[string]string)}
			sections = append(sections, cur)
			lastKey = ""
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("option outside of a section on line %d: %w", i, os.ErrInvalid)
		}
		p := strings.IndexAny(line, "=:")
		if p <= 0 {
			return nil, fmt.Errorf("invalid/unrecognized option assignment on line %d: %w", i, os.ErrInvalid)
		}
		key, value := optionKey(line[:p]), strings.TrimSpace(line[p+1:])
		if _, ok := cur.values[key]; ok {
			return nil, fmt.Errorf("duplicate option %q in section [%s] on line %d: %w", key, cur.name, i, os.ErrInvalid)
		}
		cur.keys = append(cur.keys, key)
		cur.values[key] = value
		lastKey = key
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}
