/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/16 - 09:48:02
 ProgramFile: extract.go
 Description:
			  提取ico文件中的图标到 bmp/png 文件
*/

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"icollator/ico"
)

type ExtractCmd struct {
	File   string `arg:"" type:"existingfile" help:"Icon file to extract"`
	Dest   string `help:"Destination folder" default:"."`
	Prefix string `help:"File name prefix, defaults to the icon file name without extension"`
	Zip    string `help:"Write the files into this zip archive instead of the destination folder"`
	Zstd   bool   `help:"Compress zip members with zstd (method 93) instead of deflate" default:"false"`
}

func (c *ExtractCmd) Run(logger *slog.Logger) error {
	prefix := c.Prefix
	if prefix == "" {
		base := filepath.Base(c.File)
		prefix = strings.TrimSuffix(base, filepath.Ext(base))
	}

	ic, err := ico.Open(c.File, ico.WithLogger(logger))
	if err != nil {
		return err
	}
	defer ic.Close()

	if c.Zip != "" {
		n, err := extractZip(ic, c.Zip, prefix, c.Zstd)
		logger.Info("stats", "extracted", n, "entries", ic.Len(), "archive", c.Zip)
		return err
	}

	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}
	paths, err := ico.ExtractIconToFile(ic, c.Dest, prefix)
	for _, p := range paths {
		logger.Info("extracted", "file", p)
	}
	logger.Info("stats", "extracted", len(paths), "entries", ic.Len())
	return err
}

// extractZip 将所有图标写入zip文件，返回写入的图标数量
func extractZip(ic *ico.Container, path, prefix string, useZstd bool) (n int, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("could not create archive %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	zw := zip.NewWriter(f)
	method := zip.Deflate
	if useZstd {
		zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor(zstd.WithEncoderLevel(zstd.SpeedBestCompression)))
		method = zstd.ZipMethodWinZip
	}

	var errs []error
	names := ico.FileNamer{Prefix: prefix}
	for i := 0; i < ic.Len(); i++ {
		e, err := ic.Entry(i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: names.Name(i, e), Method: method})
		if err != nil {
			return n, fmt.Errorf("could not add entry %d to %q: %w", i, path, err)
		}
		if err := ico.Export(w, e); err != nil {
			return n, fmt.Errorf("could not write entry %d to %q: %w", i, path, err)
		}
		n++
	}
	if err := zw.Close(); err != nil {
		return n, fmt.Errorf("could not finish archive %q: %w", path, err)
	}
	return n, errors.Join(errs...)
}
