package export

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// WritePNG renders position over time, with the target as a dashed line.
func WritePNG(path, title string, samples []Sample) error {
	if len(samples) == 0 {
		return errors.New("export: no samples to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "position (steps)"
	p.Add(plotter.NewGrid())

	pos := make(plotter.XYs, len(samples))
	tgt := make(plotter.XYs, len(samples))
	for i, s := range samples {
		pos[i].X, pos[i].Y = s.T, s.Position
		tgt[i].X, tgt[i].Y = s.T, float64(s.Target)
	}

	posLine, err := plotter.NewLine(pos)
	if err != nil {
		return err
	}
	posLine.LineStyle.Width = vg.Points(2)
	tgtLine, err := plotter.NewLine(tgt)
	if err != nil {
		return err
	}
	tgtLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}

	p.Add(posLine, tgtLine)
	p.Legend.Add("position", posLine)
	p.Legend.Add("target", tgtLine)

	return savePNG(p, 8, 4, path)
}

func savePNG(p *plot.Plot, widthIn, heightIn float64, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create directory")
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(150),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		return errors.Wrap(err, "write png")
	}
	return bw.Flush()
}
