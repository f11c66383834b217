package geoedit

import (
	"strconv"
	"strings"
)

// BaseTitle убирает числовой суффикс ":N" из заголовка
func BaseTitle(title string) string {
	base, _, ok := splitSuffix(title)
	if !ok {
		return title
	}
	return base
}

func splitSuffix(title string) (base string, n int, ok bool) {
	i := strings.LastIndex(title, ":")
	if i < 0 || i == len(title)-1 {
		return title, 0, false
	}
	n, err := strconv.Atoi(title[i+1:])
	if err != nil || n < 0 {
		return title, 0, false
	}
	return title[:i], n, true
}

// NextSuffixes выдает count наименьших свободных суффиксов (от 1) для base.
// Занятыми считаются суффиксы всех заголовков вида base:N в titles.
func NextSuffixes(base string, titles []string, count int) []int {
	if count <= 0 {
		return nil
	}
	used := make(map[int]bool)
	for _, t := range titles {
		if b, n, ok := splitSuffix(t); ok && b == base {
			used[n] = true
		}
	}

	out := make([]int, 0, count)
	for n := 1; len(out) < count; n++ {
		if !used[n] {
			used[n] = true
			out = append(out, n)
		}
	}
	return out
}

// WithSuffix добавляет суффикс к базовому заголовку
func WithSuffix(base string, n int) string {
	return base + ":" + strconv.Itoa(n)
}
