package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Go & Redis: a Primer!  ", "go-redis-a-primer"},
		{"UPPER-case_mixed 123", "upper-case-mixed-123"},
		{"---", ""},
		{"多字节标题", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Slugify(c.in), "input: %q", c.in)
	}
}

func TestMakeExcerpt(t *testing.T) {
	assert.Equal(t, "short", MakeExcerpt("short", 10))
	assert.Equal(t, "first line", MakeExcerpt("first line\nsecond line", 50))
	assert.Equal(t, "abcde…", MakeExcerpt("abcdefgh", 5))
	// 按 rune 截断，多字节字符不被拆开
	assert.Equal(t, "你好世…", MakeExcerpt("你好世界啊", 3))
}

func TestGetMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 东八区凌晨 2 点对应 UTC 前一天 18 点
	in := time.Date(2026, 3, 15, 2, 30, 0, 0, loc)
	got := GetMidnight(in)
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), got)

	in = time.Date(2026, 3, 15, 13, 0, 0, 0, loc)
	got = GetMidnight(in)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestStrSliceToUInt64Slice(t *testing.T) {
	got, err := StrSliceToUInt64Slice([]string{"1", "42", "9000"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 42, 9000}, got)

	_, err = StrSliceToUInt64Slice([]string{"1", "abc"})
	assert.Error(t, err)

	got, err = StrSliceToUInt64Slice(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
