/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/16 - 09:12:50
 ProgramFile: main.go
 Description:
			  ico文件命令行工具：查看、提取、合并、打包
*/

package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type cli struct {
	Verbose bool `short:"v" help:"Log debug messages"`

	List    ListCmd    `cmd:"" help:"List the entries of icon files"`
	Extract ExtractCmd `cmd:"" help:"Write every entry of an icon file to BMP or PNG files"`
	Collate CollateCmd `cmd:"" help:"Merge the entries of several icon files into one"`
	Pack    PackCmd    `cmd:"" help:"Build an icon file from images"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("icollate"),
		kong.Description("Read, extract, merge and build Windows icon files."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	kctx.FatalIfErrorf(kctx.Run(logger))
}
