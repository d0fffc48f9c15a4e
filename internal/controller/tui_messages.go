package controller

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// Message types.
type coverageMsg struct {
	items     []list.Item
	summary   m.Summary
	threshold float64
}

type codeMapsMsg struct {
	items    []list.Item
	files    int
	excluded int
	lines    int
	funcs    int
}

type mergeMsg struct {
	info MergeInfo
}

// level picks the color of a file's value column.
type level int

const (
	levelMuted level = iota
	levelGood
	levelWarn
	levelBad
)

// List item types.
type fileItem struct {
	path   string
	value  string
	level  level
	detail []string
}

func (f fileItem) FilterValue() string {
	return f.path
}

func coverageLevel(pct, threshold float64) level {
	switch {
	case pct >= threshold:
		return levelGood
	case pct >= threshold/2:
		return levelWarn
	default:
		return levelBad
	}
}

func newCoverageMsg(data *m.CoverageData, threshold float64) coverageMsg {
	items := make([]list.Item, 0, len(data.Files))

	for _, path := range data.Paths() {
		f := data.Files[path]

		item := fileItem{path: string(path), detail: coverageDetail(f)}
		if f.Excluded {
			item.value, item.level = "excl", levelMuted
		} else {
			item.value, item.level = formatPercent(f.Percentage()), coverageLevel(f.Percentage(), threshold)
		}

		items = append(items, item)
	}

	return coverageMsg{items: items, summary: data.Summary(), threshold: threshold}
}

func newCodeMapsMsg(maps []*m.CodeMap) codeMapsMsg {
	msg := codeMapsMsg{items: make([]list.Item, 0, len(maps)), files: len(maps)}

	for _, cm := range maps {
		if !cm.Valid {
			msg.excluded++
			msg.items = append(msg.items, fileItem{
				path:   string(cm.Path),
				value:  "excl",
				level:  levelBad,
				detail: []string{fmt.Sprintf("excluded (%s): %v", m.ErrorKind(cm.Err), cm.Err)},
			})

			continue
		}

		msg.lines += len(cm.ExecutableLines)
		msg.funcs += len(cm.Functions)
		msg.items = append(msg.items, fileItem{
			path:   string(cm.Path),
			value:  fmt.Sprintf("%d", len(cm.ExecutableLines)),
			level:  levelGood,
			detail: annotate(cm),
		})
	}

	return msg
}
