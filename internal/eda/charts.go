package eda

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/rs/zerolog"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	ScatterFile = "scatter_petal.png"
	BoxplotFile = "boxplots.png"
	HeatmapFile = "correlation_heatmap.png"
)

var speciesColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
	color.RGBA{R: 214, G: 39, B: 40, A: 255},
}

type Renderer struct {
	labelCol string
	logger   *zerolog.Logger
}

func NewRenderer(labelCol string, logger *zerolog.Logger) *Renderer {
	return &Renderer{labelCol: labelCol, logger: logger}
}

// Render writes the scatter, boxplot and correlation heatmap figures into
// outputDir, creating it if needed.
func (r *Renderer) Render(df dataframe.DataFrame, xCol, yCol, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outputDir, err)
	}

	r.logger.Info().Msg("Creating scatter plot...")
	if err := r.scatter(df, xCol, yCol, filepath.Join(outputDir, ScatterFile)); err != nil {
		return err
	}

	r.logger.Info().Msg("Creating boxplots...")
	if err := r.boxplots(df, filepath.Join(outputDir, BoxplotFile)); err != nil {
		return err
	}

	r.logger.Info().Msg("Creating correlation heatmap...")
	corr, err := CorrelationLong(df, r.labelCol)
	if err != nil {
		return fmt.Errorf("failed to compute correlations: %w", err)
	}
	names := NumericColumns(df, r.labelCol)
	matrix := make([][]float64, len(names))
	values := corr.Col(Correlation).Float()
	for i := range names {
		matrix[i] = values[i*len(names) : (i+1)*len(names)]
	}
	if err := SaveHeatmap("Feature correlations", names, names, matrix, -1, 1, filepath.Join(outputDir, HeatmapFile)); err != nil {
		return err
	}

	r.logger.Info().Str("dir", outputDir).Msg("EDA figures saved")
	return nil
}

func (r *Renderer) groups(df dataframe.DataFrame) ([]string, map[string][]int) {
	idx := map[string][]int{}
	for i, label := range df.Col(r.labelCol).Records() {
		idx[label] = append(idx[label], i)
	}
	labels := make([]string, 0, len(idx))
	for label := range idx {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, idx
}

func (r *Renderer) scatter(df dataframe.DataFrame, xCol, yCol, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", yCol, xCol)
	p.X.Label.Text = xCol
	p.Y.Label.Text = yCol

	xs := df.Col(xCol).Float()
	ys := df.Col(yCol).Float()
	labels, idx := r.groups(df)
	for k, label := range labels {
		pts := make(plotter.XYs, len(idx[label]))
		for j, i := range idx[label] {
			pts[j].X, pts[j].Y = xs[i], ys[i]
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("failed to build scatter for %s: %w", label, err)
		}
		s.GlyphStyle.Color = speciesColors[k%len(speciesColors)]
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(label, s)
	}
	p.Legend.Top = true

	return save(p, 6*vg.Inch, 4*vg.Inch, path)
}

// boxplots draws one box per label for every numeric feature, grouped along
// the x axis by feature.
func (r *Renderer) boxplots(df dataframe.DataFrame, path string) error {
	p := plot.New()
	p.Title.Text = "Feature distribution by class"
	p.Y.Label.Text = "value"

	features := NumericColumns(df, r.labelCol)
	labels, idx := r.groups(df)
	width := vg.Points(12)

	for f, feature := range features {
		values := df.Col(feature).Float()
		for k, label := range labels {
			vals := make(plotter.Values, len(idx[label]))
			for j, i := range idx[label] {
				vals[j] = values[i]
			}
			if len(vals) == 0 {
				continue
			}
			loc := float64(f) + (float64(k)-float64(len(labels)-1)/2)*0.25
			b, err := plotter.NewBoxPlot(width, loc, vals)
			if err != nil {
				return fmt.Errorf("failed to build boxplot for %s/%s: %w", feature, label, err)
			}
			b.FillColor = speciesColors[k%len(speciesColors)]
			p.Add(b)
			if f == 0 {
				p.Legend.Add(label, swatch{c: b.FillColor})
			}
		}
	}
	p.NominalX(features...)
	p.Legend.Top = true

	return save(p, 8*vg.Inch, 4*vg.Inch, path)
}

type swatch struct {
	c color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	c.FillPolygon(s.c, []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	})
}

type grid struct {
	values [][]float64
}

func (g grid) Dims() (c, r int)   { return len(g.values[0]), len(g.values) }
func (g grid) Z(c, r int) float64 { return g.values[r][c] }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// SaveHeatmap renders values as an annotated heatmap coloured over
// [lo, hi]. values[r][c] is drawn at column c of row r; rows are labelled
// bottom to top.
func SaveHeatmap(title string, rowNames, colNames []string, values [][]float64, lo, hi float64, path string) error {
	if len(values) == 0 || len(values[0]) == 0 {
		return fmt.Errorf("heatmap %s: no values", title)
	}
	if hi <= lo {
		hi = lo + 1
	}

	g := grid{values: values}
	h := plotter.NewHeatMap(g, palette.Heat(12, 1))
	h.Min, h.Max = lo, hi

	p := plot.New()
	p.Title.Text = title
	p.Add(h)

	var xys plotter.XYs
	var text []string
	for r, row := range values {
		for c, v := range row {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			text = append(text, fmt.Sprintf("%.2f", v))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: text})
	if err != nil {
		return fmt.Errorf("failed to build heatmap labels: %w", err)
	}
	p.Add(labels)

	p.NominalX(colNames...)
	p.NominalY(rowNames...)

	return save(p, 6*vg.Inch, 5*vg.Inch, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
