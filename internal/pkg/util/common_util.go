package util

import (
	"bufio"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 将标题规整为 URL slug
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalidChars.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 200 {
		s = s[:200]
		s = strings.Trim(s, "-")
	}
	return s
}

// MakeExcerpt 从正文截取摘要，按 rune 截断避免拆字
func MakeExcerpt(content string, maxLen int) string {
	s := strings.TrimSpace(content)
	if idx := strings.IndexAny(s, "\r\n"); idx > 0 {
		s = s[:idx]
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "…"
}

// GetMidnight 返回所在日期的零点 (UTC)
func GetMidnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetSafeContentType 读取文件头嗅探真实 MIME 类型
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := bufio.NewReader(reader).Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// PtrStr 用于将 string 转换为 *string
func PtrStr(s string) *string {
	return &s
}

// StrSliceToUInt64Slice 将字符串切片转换为 uint64 切片
func StrSliceToUInt64Slice(strs []string) ([]uint64, error) {
	result := make([]uint64, 0, len(strs))
	for _, s := range strs {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

// PtrFloat32 用于将 float32 转换为 *float32
func PtrFloat32(f float32) *float32 {
	return &f
}
