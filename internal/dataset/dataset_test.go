package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
)

const sample = `sepal_length,sepal_width,petal_length,petal_width,species
5.1,3.5,1.4,0.2,setosa
4.9,3.0,1.4,0.2,setosa
5.1,3.5,1.4,0.2,setosa
6.3,3.3,6.0,2.5,virginica
`

func TestReadCSV(t *testing.T) {
	df, err := ReadCSVString(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if df.Nrow() != 4 {
		t.Errorf("rows: %d, want 4", df.Nrow())
	}
	if df.Ncol() != 5 {
		t.Errorf("cols: %d, want 5", df.Ncol())
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSVString(""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDropDuplicates(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		rows    int
		dropped int
	}{
		{
			name:    "one exact duplicate",
			csv:     sample,
			rows:    3,
			dropped: 1,
		},
		{
			name:    "numeric formatting differs",
			csv:     "a,b\n5.1,x\n5.10,x\n",
			rows:    1,
			dropped: 1,
		},
		{
			name:    "label whitespace differs",
			csv:     "a,species\n5,\" setosa\"\n5,setosa\n",
			rows:    2,
			dropped: 0,
		},
		{
			name:    "label case differs",
			csv:     "a,species\n5,Setosa\n5,setosa\n",
			rows:    2,
			dropped: 0,
		},
		{
			name:    "no duplicates",
			csv:     "a,b\n1,x\n2,x\n3,y\n",
			rows:    3,
			dropped: 0,
		},
		{
			name:    "keeps first of many",
			csv:     "a\n1\n1\n1\n2\n",
			rows:    2,
			dropped: 2,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			df, err := ReadCSVString(test.csv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			out, dropped := DropDuplicates(df)
			if out.Nrow() != test.rows {
				t.Errorf("rows: %d, want %d", out.Nrow(), test.rows)
			}
			if dropped != test.dropped {
				t.Errorf("dropped: %d, want %d", dropped, test.dropped)
			}
			if df.Nrow()-dropped != out.Nrow() {
				t.Errorf("input rows changed: %d", df.Nrow())
			}
		})
	}
}

func TestStripColumnWhitespace(t *testing.T) {
	df, err := ReadCSVString(" sepal_length ,species\t\n5.1,setosa\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := StripColumnWhitespace(df)

	want := []string{"sepal_length", "species"}
	got := out.Names()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("names: %v, want %v", got, want)
	}
	if df.Names()[0] != " sepal_length " {
		t.Errorf("input was mutated: %q", df.Names()[0])
	}
	if out.Nrow() != 1 {
		t.Errorf("rows: %d, want 1", out.Nrow())
	}
}

func TestStripColumnWhitespace_Table(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want []string
	}{
		{name: "both padded", csv: " a ,b \n1,2\n", want: []string{"a", "b"}},
		{name: "already clean", csv: "a,b\n1,2\n", want: []string{"a", "b"}},
		{name: "tabs and spaces", csv: "\ta\t, b\n1,2\n", want: []string{"a", "b"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			df, err := ReadCSVString(test.csv)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := StripColumnWhitespace(df).Names()
			if strings.Join(got, "|") != strings.Join(test.want, "|") {
				t.Errorf("names: %q, want %q", got, test.want)
			}
		})
	}
}

func TestStripColumnWhitespace_PositionalNames(t *testing.T) {
	df := dataframe.LoadRecords([][]string{{"1", "2"}, {"3", "4"}}, dataframe.HasHeader(false))
	if df.Err != nil {
		t.Fatalf("unexpected error: %v", df.Err)
	}

	out := StripColumnWhitespace(df)
	if strings.Join(out.Names(), ",") != strings.Join(df.Names(), ",") {
		t.Errorf("names: %v, want %v", out.Names(), df.Names())
	}
}

func TestStripColumnWhitespace_NoColumns(t *testing.T) {
	df := dataframe.DataFrame{}
	out := StripColumnWhitespace(df)
	if out.Ncol() != 0 {
		t.Errorf("cols: %d, want 0", out.Ncol())
	}
}

func TestWriteFile(t *testing.T) {
	df, err := ReadCSVString(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	if err := WriteFile(df, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(raw), "sepal_length,sepal_width") {
		t.Errorf("unexpected header: %q", strings.SplitN(string(raw), "\n", 2)[0])
	}

	back, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if back.Nrow() != df.Nrow() {
		t.Errorf("rows: %d, want %d", back.Nrow(), df.Nrow())
	}
}

func TestIsNull(t *testing.T) {
	for _, v := range []string{"", " ", "NA", "NaN", "nan", "null", "None", "<nil>"} {
		if !IsNull(v) {
			t.Errorf("IsNull(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"0", "setosa", "1.5"} {
		if IsNull(v) {
			t.Errorf("IsNull(%q) = true, want false", v)
		}
	}
}
