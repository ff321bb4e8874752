package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/cwbudde/wavmeta"
	"github.com/cwbudde/wavmeta/internal/config"
)

var errNoInput = errors.New("you need to pass --file or --dir to indicate what file or folder content to tag")

type tagOptions struct {
	file   string
	dir    string
	record string
	set    []string
	out    string
	jobs   int
}

func newTagCmd(a *app) *cobra.Command {
	opts := &tagOptions{}

	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Write a metadata record into wav files",
		Long: `Write a metadata record into one wav file or into every .wav file of a
directory.

Examples:
  # Tag a single file in place
  wavtagger tag --file door.wav --set CatID=DOORWood --set Designer=Jane

  # Tag a folder from a record file, writing copies to ./tagged
  wavtagger tag --dir takes --record record.json --out tagged --jobs 4

Record files ending in .json hold a flat object of strings, any other file
is read as Key=Value lines. --set values override the record file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTag(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Path to the wave file to tag")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Directory containing all the wav files to tag")
	cmd.Flags().StringVar(&opts.record, "record", "", "Record file (.json or Key=Value lines)")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "Field assignment Key=Value, repeatable")
	cmd.Flags().StringVar(&opts.out, "out", "", "Write tagged copies to this directory instead of in place")
	cmd.Flags().IntVar(&opts.jobs, "jobs", 0, "Files tagged concurrently (default WAVTAGGER_JOBS)")

	return cmd
}

func runTag(cmd *cobra.Command, a *app, opts *tagOptions) error {
	if opts.file == "" && opts.dir == "" {
		return errNoInput
	}

	rec, err := buildRecord(opts.record, opts.set)
	if err != nil {
		return err
	}

	files, err := collectFiles(opts.file, opts.dir)
	if err != nil {
		return err
	}

	if opts.out != "" {
		if err := os.MkdirAll(opts.out, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", opts.out, err)
		}
	}

	jobs := opts.jobs
	if jobs < 1 {
		jobs = a.cfg.Jobs
	}

	w := &wavmeta.Writer{Software: a.cfg.Software, Logger: a.logger}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	sem := make(chan struct{}, jobs)

	for _, src := range files {
		dst := src
		if opts.out != "" {
			dst = filepath.Join(opts.out, filepath.Base(src))
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(src, dst string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := w.Rewrite(src, dst, rec); err != nil {
				a.logger.Error("Failed to tag file", "path", src, "error", err)

				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()

				return
			}

			a.logger.Info("Tagged file", "src", src, "dst", dst)

			mu.Lock()
			fmt.Fprintln(cmd.OutOrStdout(), "Tagged file available at", dst)
			mu.Unlock()
		}(src, dst)
	}

	wg.Wait()

	return errors.Join(errs...)
}

func buildRecord(recordFile string, assignments []string) (wavmeta.Record, error) {
	rec := wavmeta.Record{}

	if recordFile != "" {
		loaded, err := config.LoadRecord(recordFile)
		if err != nil {
			return nil, err
		}

		for k, v := range loaded {
			rec[k] = v
		}
	}

	for _, s := range assignments {
		key, value, err := config.ParseAssignment(s)
		if err != nil {
			return nil, err
		}

		rec[key] = value
	}

	return rec, nil
}

func collectFiles(file, dir string) ([]string, error) {
	var files []string

	if file != "" {
		files = append(files, file)
	}

	if dir == "" {
		return files, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	var found []string

	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			continue
		}

		found = append(found, filepath.Join(dir, e.Name()))
	}

	sort.Strings(found)

	return append(files, found...), nil
}
