/*
   _____       __   __             _  __
  ╱ ____|     |  ╲/   |           | |/ /
 | |  __  ___ |  ╲ /  | __  _ _ __| ' /
 | | |_ |/ _ ╲| |╲ /| |/ _`  | '__|  <
 | |__| |  __/| |   | (  _|  | |  | . ╲
  ╲_____|╲___ |_|   |_|╲__,_ |_|  |_|╲_╲
 可爱飞行猪❤: golang83@outlook.com  💯💯💯
 Author Name: GeMarK.VK.Chow奥迪哥  🚗🔞🈲
 Creaet Time: 2026/10/12 - 21:04:17
 ProgramFile: errors.go
 Description:
			  ico包的错误定义
*/

package ico

import (
	"errors"
	"fmt"
)

// 错误信息
// Error values returned by the ico package. Callers should test them with errors.Is.
var (
	// ErrTruncatedHeader 文件头或索引表不完整
	// ErrTruncatedHeader is returned when the stream ends before the index table does.
	ErrTruncatedHeader = errors.New("ico: truncated icon header")

	// ErrTruncatedEntry 图标数据比索引表声明的要短，缺少的部分用0补齐
	// ErrTruncatedEntry reports an entry whose payload was shorter than declared.
	// The missing bytes are zero filled, so it is only ever logged, never returned.
	ErrTruncatedEntry = errors.New("ico: truncated icon entry")

	// ErrUnsupportedBitDepth 不支持的颜色位数
	// ErrUnsupportedBitDepth is returned for a bit count outside {1, 4, 8, 24, 32}.
	ErrUnsupportedBitDepth = errors.New("ico: unsupported bit depth")

	// ErrDimensionMismatch 图像尺寸与描述不一致
	// ErrDimensionMismatch is returned when an image does not match the target descriptor.
	ErrDimensionMismatch = errors.New("ico: image dimensions do not match descriptor")

	// ErrMalformedEntry 位图头结构无效
	// ErrMalformedEntry is returned when an entry's bitmap header cannot be used.
	ErrMalformedEntry = errors.New("ico: malformed icon entry")

	// ErrPixelData 像素数据解码失败，返回的图像只有部分内容
	// ErrPixelData accompanies a partially decoded image.
	ErrPixelData = errors.New("ico: invalid pixel data")

	// ErrOutOfOrder 只能前进的数据源不能回头读取
	// ErrOutOfOrder is returned when a forward-only source is asked for data behind its cursor.
	ErrOutOfOrder = errors.New("ico: entry requested out of order on a forward-only source")

	// ErrClosed 容器已经关闭
	// ErrClosed is returned by a Container after Close.
	ErrClosed = errors.New("ico: container is closed")

	// ErrIcoFileType 路径是目录，不是文件
	// ErrIcoFileType is returned by Open for a directory.
	ErrIcoFileType = errors.New("ico: path is a directory, not a file")

	// ErrIconsIndex 读取ico文件时，可能出现的切片越界错误
	// ErrIconsIndex is returned for an entry index out of bounds.
	ErrIconsIndex = errors.New("ico: slice out of bounds")
)

// EntryError 标记出错的图标索引
// EntryError ties a failure to the index of the entry it happened on.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("ico: entry %d: %v", e.Index, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}
