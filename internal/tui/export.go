package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scatterview/internal/binary"
	"scatterview/internal/export"
	"scatterview/internal/geom"
	"scatterview/internal/plot"
	"scatterview/internal/ternary"
	"scatterview/internal/variogram"
)

const (
	exportWidth  = 960
	exportHeight = 640
)

// exportDrawer returns a drawer over a private copy of the model, so
// rendering at the image size does not evict the terminal's draw model.
func (w *widget) exportDrawer() (plot.Drawer, bool) {
	switch w.kind {
	case KindTernary:
		raw, ok := w.ternary.Raw()
		m := ternary.NewModel()
		m.SetRaw(raw)
		return &ternary.Drawer{Model: m, Selection: w.sel}, ok
	case KindBinary:
		raw, ok := w.binary.Raw()
		m := binary.NewModel()
		m.SetRaw(raw)
		return &binary.Drawer{Model: m, Selection: w.sel}, ok
	}
	raw, ok := w.variogram.Raw()
	m := variogram.NewModel()
	m.SetRaw(raw)
	return &variogram.Drawer{Model: m}, ok
}

// exportParams carries the terminal's pan and zoom over to the image.
func (w *widget) exportParams() plot.DrawParams {
	vp := plot.CanvasParams{Width: exportWidth, Height: exportHeight, DPI: 1}
	pan := w.pz.Pan()
	if !w.vp.Empty() {
		pan = pan.Mul(geom.Pt(vp.Width/w.vp.Width, vp.Height/w.vp.Height))
	}
	return plot.DrawParams{Transform: geom.ScaleTranslate(w.pz.Scale(), pan), Viewport: vp}
}

func (w *widget) writeCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch w.kind {
	case KindTernary:
		raw, _ := w.ternary.Raw()
		err = export.TernaryCSV(f, raw)
	case KindBinary:
		raw, _ := w.binary.Raw()
		err = export.BinaryCSV(f, raw)
	case KindVariogram:
		raw, _ := w.variogram.Raw()
		err = export.VariogramCSV(f, raw)
	}
	return errors.Join(err, f.Close())
}

func (w *widget) writePNG(path string) error {
	d, _ := w.exportDrawer()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = export.PNG(f, d, w.exportParams())
	return errors.Join(err, f.Close())
}

// export writes the active plot's data and image next to the working
// directory and returns a status line.
func (m *Model) export() string {
	w := m.current()
	if _, ok := w.exportDrawer(); !ok {
		return "export: nothing to export"
	}
	base := filepath.Join(m.cwd, fmt.Sprintf("%s-%s", w.kind, time.Now().Format("20060102-150405")))
	if err := w.writeCSV(base + ".csv"); err != nil {
		return "export error: " + err.Error()
	}
	if err := w.writePNG(base + ".png"); err != nil {
		return "export error: " + err.Error()
	}
	return "exported " + filepath.Base(base) + ".csv and .png"
}
