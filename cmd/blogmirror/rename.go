package main

import (
	"fmt"

	"github.com/chuchengzhi/blogmirror/fs"
)

// Run executes the rename command.
func (c *RenameCmd) Run(deps *Dependencies) error {
	renamer := &fs.Renamer{
		Execute:    c.Execute,
		Extensions: c.Ext,
		Logger:     deps.Logger,
	}

	result, err := renamer.Run(c.Root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	action := "Would rename"
	if c.Execute {
		action = "Renamed"
	}
	fmt.Fprintf(deps.Stdout, "%s %d of %d files (%d skipped)\n",
		action, result.Renamed, result.Considered, result.Skipped)
	return nil
}
