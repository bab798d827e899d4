/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/16 - 09:30:14
 ProgramFile: list.go
 Description:
			  列出ico文件中的图标
*/

package main

import (
	"context"
	_ "crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/opencontainers/go-digest"

	"icollator/ico"
)

type ListCmd struct {
	Files []string `arg:"" type:"existingfile" help:"Icon files to list"`
}

func (c *ListCmd) Run(logger *slog.Logger) error {
	var errs []error
	for _, path := range c.Files {
		if err := listIcon(os.Stdout, path, logger); err != nil {
			logger.Error("could not list icon file", "file", path, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// listIcon 每个图标输出一行：描述符、数据类型、数据摘要，PNG图标附带IHDR信息
func listIcon(w io.Writer, path string, logger *slog.Logger) error {
	c, err := ico.Open(path, ico.WithLogger(logger))
	if err != nil {
		return err
	}
	defer c.Close()

	entries, err := c.Entries(context.Background())
	descs := c.Descriptors()
	for i, e := range entries {
		if e == nil {
			fmt.Fprintf(w, "%s\tunreadable\n", descs[i].Key())
			continue
		}
		line := fmt.Sprintf("%s\t%s\t%s", e.Descriptor().Key(), ico.GetIconType(e), digest.FromBytes(e.Bytes()))
		if pe, ok := e.(*ico.PNGEntry); ok {
			if h, herr := pe.Header(); herr == nil {
				line += fmt.Sprintf("\tcolorType=%d,bitDepth=%d", h.ColorType, h.BitDepth)
			}
		}
		if n := e.Synthetic(); n > 0 {
			line += fmt.Sprintf("\ttruncated=%d", n)
		}
		fmt.Fprintln(w, line)
	}
	return err
}
