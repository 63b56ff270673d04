package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"scatterview/internal/dataset"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.ToLower(filepath.Ext(name)) != ".csv" {
			continue
		}
		items = append(items, fileItem{title: name, desc: ".csv", path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no CSV files in current directory"
	}
}

// loadPath loads a sample CSV and replots every widget.
func (m *Model) loadPath(p string) {
	src, err := dataset.LoadCSV(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.setSource(src)
	m.status = "loaded: " + filepath.Base(p) + m.counts()
	if m.showAttrs {
		m.refreshAttrs()
	}
}

// loadPasted plots CSV text from the paste box.
func (m *Model) loadPasted(text string) bool {
	src, err := dataset.ParseCSV(strings.NewReader(text))
	if err != nil {
		m.status = "csv error: " + err.Error()
		return false
	}
	m.selPath = ""
	m.setSource(src)
	m.status = "plotted pasted CSV" + m.counts()
	return true
}

func (m *Model) counts() string {
	return fmt.Sprintf("  samples=%d expressions=%d regions=%d",
		m.src.Len(), len(m.src.Expressions()), len(m.src.Regions()))
}
