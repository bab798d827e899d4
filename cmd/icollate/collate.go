/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/16 - 10:20:37
 ProgramFile: collate.go
 Description:
			  合并多个ico文件的图标
*/

package main

import (
	"context"
	_ "crypto/sha256"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"

	"icollator/ico"
)

type CollateCmd struct {
	Out   string   `arg:"" help:"Icon file to write"`
	Files []string `arg:"" type:"existingfile" help:"Icon files to take entries from; .bmp and .png files are added as single entries"`
	Sizes []int    `help:"Keep only entries of these widths"`
	Bits  []int    `help:"Keep only entries of these bit depths"`
	Keep  bool     `help:"Keep entries with the same size and bit depth from later files; identical payloads are always dropped" default:"false"`
}

type entryShape struct {
	width, height, bits int
}

func (c *CollateCmd) Run(logger *slog.Logger) error {
	var (
		selected []ico.Entry
		seen     = map[entryShape]string{}
		payloads = map[digest.Digest]bool{}
		failed   int
	)
	for _, path := range c.Files {
		entries, err := loadEntries(path, logger)
		if entries == nil {
			return err
		}
		if err != nil {
			logger.Warn("skipping unreadable entries", "file", path, "error", err)
		}

		for _, e := range entries {
			if e == nil {
				failed++
				continue
			}
			d := e.Descriptor()
			if len(c.Sizes) > 0 && !slices.Contains(c.Sizes, d.Width) {
				continue
			}
			if len(c.Bits) > 0 && !slices.Contains(c.Bits, d.BitCount) {
				continue
			}
			dgst := digest.FromBytes(e.Bytes())
			if payloads[dgst] {
				logger.Debug("identical payload", "entry", d.Key(), "digest", dgst)
				continue
			}
			shape := entryShape{d.Width, d.Height, d.BitCount}
			if from, dup := seen[shape]; dup && !c.Keep {
				logger.Debug("duplicate entry", "entry", d.Key(), "kept", from)
				continue
			}
			seen[shape] = d.Key()
			payloads[dgst] = true
			selected = append(selected, e)
		}
	}
	if len(selected) == 0 {
		return fmt.Errorf("no entries selected from %d files", len(c.Files))
	}

	sort.Stable(ico.Entries(selected))
	if err := ico.WriteIcoFile(c.Out, selected...); err != nil {
		return fmt.Errorf("could not write %q: %w", c.Out, err)
	}
	logger.Info("stats", "written", len(selected), "unreadable", failed, "file", c.Out)
	return nil
}

// loadEntries 读取ico文件的所有图标，bmp/png文件作为一个图标
func loadEntries(path string, logger *slog.Logger) ([]ico.Entry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp", ".png":
		e, err := ico.LoadImageFile(path)
		if err != nil {
			return nil, err
		}
		return []ico.Entry{e}, nil
	}
	ic, err := ico.Open(path, ico.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer ic.Close()
	return ic.Entries(context.Background())
}
