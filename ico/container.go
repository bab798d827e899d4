/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2019/05/25 - 07:51:34
 ProgramFile: container.go
 Description:
			  Windows系统的ico文件读取
*/

package ico

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// 单个图标数据允许的最大字节数
const maxEntrySize = 64 << 20

// Container 一个ico文件：索引表 + 按需读取的图标数据
// Container is a parsed icon file. It holds the index table and loads each
// entry the first time it is asked for. The container owns its byte source;
// Close releases it.
//
// Sources implementing io.ReaderAt are read at each entry's file offset and
// may be loaded in any order, concurrently. Other readers are consumed
// forward only: asking for entry i loads every pending entry before it, and
// an entry whose payload lies behind the stream position fails with
// ErrOutOfOrder.
type Container struct {
	source      string
	logger      *slog.Logger
	concurrency int
	forwardOnly bool

	ra     io.ReaderAt
	r      io.Reader
	closer io.Closer

	streamMu sync.Mutex // guards r and cursor
	cursor   int64

	mu     sync.Mutex // guards descs and closed
	descs  []Descriptor
	closed bool

	slots     []slot
	closeOnce sync.Once
}

// slot 每个图标只加载一次
type slot struct {
	mu    sync.Mutex
	done  bool
	entry Entry
	err   error
}

// Option 容器选项
// Option configures a Container.
type Option func(*Container)

// WithLogger 设置日志，默认不输出
// WithLogger sets the logger used for decode warnings. If nil, a discard
// logger is used (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConcurrency 设置 Entries 并行解码的数量
// WithConcurrency limits how many entries Entries decodes at once. Values
// below 1 mean GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(c *Container) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		c.concurrency = n
	}
}

// WithForwardOnly 即使数据源支持 io.ReaderAt 也按顺序读取
// WithForwardOnly reads the source as a plain stream even if it implements
// io.ReaderAt.
func WithForwardOnly() Option {
	return func(c *Container) {
		c.forwardOnly = true
	}
}

// Open 打开ico文件，文件名作为来源标记
// Open reads the index of the icon file at path. The base name of path tags
// every descriptor.
func Open(path string, opts ...Option) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err == nil && fi.IsDir() {
		err = ErrIcoFileType
	}
	var c *Container
	if err == nil {
		c, err = Read(filepath.Base(path), f, opts...)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("ico: open %s: %w", path, err)
	}
	return c, nil
}

// Read 读取文件头和索引表，不读取图标数据
// Read parses the 6-byte header and the index table from r. Entry payloads are
// not read until Entry asks for them. The reserved and type fields are
// ignored. If r is an io.Closer it is closed by Close.
func Read(source string, r io.Reader, opts ...Option) (*Container, error) {
	c := &Container{
		source:      source,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if ra, ok := r.(io.ReaderAt); ok && !c.forwardOnly {
		c.ra = ra
	} else {
		c.r = r
	}
	if cl, ok := r.(io.Closer); ok {
		c.closer = cl
	}

	head := make([]byte, fileHeaderSize)
	if err := c.readIndex(head, 0); err != nil {
		return nil, err
	}
	count := int(binary.LittleEndian.Uint16(head[4:6]))
	table := make([]byte, count*headerSize)
	if err := c.readIndex(table, fileHeaderSize); err != nil {
		return nil, fmt.Errorf("%w: %d entries need %d bytes", err, count, fileHeaderSize+len(table))
	}

	c.descs = make([]Descriptor, count)
	c.slots = make([]slot, count)
	for i := range c.descs {
		c.descs[i] = parseIndexRow(table[i*headerSize:(i+1)*headerSize], source, i)
	}
	c.logger.Debug("read icon index", "source", source, "entries", count)
	return c, nil
}

// readIndex 读取索引数据，不足时返回 ErrTruncatedHeader
func (c *Container) readIndex(p []byte, off int64) error {
	var n int
	var err error
	if c.ra != nil {
		n, err = c.ra.ReadAt(p, off)
	} else {
		n, err = io.ReadFull(c.r, p)
		c.cursor += int64(n)
	}
	if n < len(p) {
		return ErrTruncatedHeader
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Source 返回来源标记
func (c *Container) Source() string { return c.source }

// Len 返回图标的数量
func (c *Container) Len() int { return len(c.slots) }

// Descriptors 返回索引表的描述符，已加载的图标返回修正后的描述符
// Descriptors returns a copy of the index, with reconciled descriptors for
// entries that have been loaded.
func (c *Container) Descriptors() []Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Descriptor(nil), c.descs...)
}

// Entry 返回第 index 个图标，第一次调用时读取并解析
// Entry returns entry index, loading it on first use. Loading reads the
// payload and reconciles a bitmap entry's descriptor with its header; pixel
// data is decoded later by the entry itself. A failure is remembered and
// returned again on later calls.
func (c *Container) Entry(index int) (Entry, error) {
	if index < 0 || index >= len(c.slots) {
		return nil, ErrIconsIndex
	}
	if c.isClosed() {
		return nil, ErrClosed
	}
	if c.ra == nil {
		c.streamMu.Lock()
		defer c.streamMu.Unlock()
		for i := 0; i < index; i++ {
			c.materialize(i)
		}
	}
	return c.materialize(index)
}

func (c *Container) materialize(index int) (Entry, error) {
	s := &c.slots[index]
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		s.entry, s.err = c.load(index)
		s.done = true
	}
	return s.entry, s.err
}

func (c *Container) load(index int) (Entry, error) {
	c.mu.Lock()
	d := c.descs[index]
	c.mu.Unlock()

	raw, synthetic, err := c.readPayload(d)
	if err != nil {
		return nil, &EntryError{Index: index, Err: err}
	}
	if synthetic > 0 {
		c.logger.Warn("zero filled truncated entry", "entry", d.Key(),
			"missing", synthetic, "error", ErrTruncatedEntry)
	}
	e, err := newEntry(d, raw, synthetic, c.logger)
	if err != nil {
		c.logger.Warn("could not load entry", "entry", d.Key(), "error", err)
		return nil, &EntryError{Index: index, Err: err}
	}

	c.mu.Lock()
	c.descs[index] = e.Descriptor()
	c.mu.Unlock()
	return e, nil
}

// readPayload 读取图标数据，数据不足时补零并返回补零的字节数
// Read d's payload. Missing trailing bytes are zero filled and counted.
func (c *Container) readPayload(d Descriptor) ([]byte, int, error) {
	if d.SizeInBytes > maxEntrySize {
		return nil, 0, fmt.Errorf("%w: declared size %d", ErrMalformedEntry, d.SizeInBytes)
	}
	raw := make([]byte, d.SizeInBytes)
	off := int64(d.FileOffset)

	if c.ra != nil {
		n, err := c.ra.ReadAt(raw, off)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, 0, err
		}
		return raw, len(raw) - n, nil
	}

	if off < c.cursor {
		return nil, 0, fmt.Errorf("%w: payload at %d, stream at %d", ErrOutOfOrder, off, c.cursor)
	}
	if off > c.cursor {
		n, err := io.CopyN(io.Discard, c.r, off-c.cursor)
		c.cursor += n
		if errors.Is(err, io.EOF) {
			return raw, len(raw), nil
		}
		if err != nil {
			return nil, 0, err
		}
	}
	n, err := io.ReadFull(c.r, raw)
	c.cursor += int64(n)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, 0, err
	}
	return raw, len(raw) - n, nil
}

// Entries 加载所有图标并解码图像，单个图标的错误不会影响其他图标
// Entries loads every entry and decodes its images. Seekable sources are
// decoded in parallel, forward-only sources in index order. Failed entries
// are nil or partially decoded in the result and their errors are joined.
func (c *Container) Entries(ctx context.Context) ([]Entry, error) {
	entries := make([]Entry, len(c.slots))
	errs := make([]error, len(c.slots))
	load := func(i int) {
		e, err := c.Entry(i)
		if err == nil {
			if _, err = e.Image(); err != nil {
				err = &EntryError{Index: i, Err: err}
			}
		}
		entries[i], errs[i] = e, err
	}

	if c.ra == nil {
		for i := range entries {
			if err := ctx.Err(); err != nil {
				return entries, err
			}
			load(i)
		}
		return entries, errors.Join(errs...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			load(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entries, err
	}
	return entries, errors.Join(errs...)
}

func (c *Container) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Close 释放数据源，只会释放一次，之后的调用返回 ErrClosed
// Close releases the byte source. Later calls return ErrClosed.
func (c *Container) Close() error {
	err := ErrClosed
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		err = nil
		if c.closer != nil {
			err = c.closer.Close()
		}
	})
	return err
}
