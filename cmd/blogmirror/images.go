package main

import (
	"fmt"

	"github.com/chuchengzhi/blogmirror/fs"
)

// Run executes the images command.
func (c *ImagesCmd) Run(deps *Dependencies) error {
	localizer := &fs.Localizer{
		Downloader: deps.Images,
		Logger:     deps.Logger,
	}

	result, err := localizer.Run(deps.Ctx, c.Root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Localized images in %d of %d files: %d downloaded, %d failed\n",
		result.Modified, result.Files, result.Downloaded, result.Failed)
	return nil
}
