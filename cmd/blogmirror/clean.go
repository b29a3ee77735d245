package main

import (
	"fmt"

	"github.com/chuchengzhi/blogmirror/fs"
)

// Run executes the clean command.
func (c *CleanCmd) Run(deps *Dependencies) error {
	cleaner := &fs.Cleaner{
		Matches: c.Match,
		Logger:  deps.Logger,
	}

	result, err := cleaner.Run(c.Root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleaned %d of %d files, %d lines removed\n",
		result.Modified, result.Files, result.LinesRemoved)
	return nil
}
