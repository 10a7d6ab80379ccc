package maze

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/mazebot/internal/core"
)

// Parse reads the plain-text maze format: the first line is the dimension,
// followed by one line per column x holding comma-separated masks for
// y = 0..dim-1. The maze is validated before it is returned.
func Parse(r io.Reader) (*Maze, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("maze: cannot read maze: %w", err)
	}
	if len(lines) == 0 {
		return nil, formatError("empty maze file")
	}

	dim, err := strconv.Atoi(lines[0])
	if err != nil {
		return nil, formatError("first line must be the dimension, got %q", lines[0])
	}
	m, err := New(dim)
	if err != nil {
		return nil, err
	}
	if len(lines)-1 != dim {
		return nil, formatError("expected %d columns, got %d", dim, len(lines)-1)
	}

	for x, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) != dim {
			return nil, formatError("column %d: expected %d cells, got %d", x, dim, len(fields))
		}
		for y, f := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil || v < 0 || v > 15 {
				return nil, formatError("column %d row %d: invalid wall mask %q", x, y, f)
			}
			m.SetWalls(core.C(x, y), uint8(v))
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteText writes m in the plain-text format understood by Parse.
func (m *Maze) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", m.dim)
	for x := 0; x < m.dim; x++ {
		cells := make([]string, m.dim)
		for y := 0; y < m.dim; y++ {
			cells[y] = strconv.Itoa(int(m.Walls(core.C(x, y))))
		}
		fmt.Fprintln(bw, strings.Join(cells, ","))
	}
	return bw.Flush()
}

// File is the YAML representation of a maze.
type File struct {
	Name    string  `yaml:"name,omitempty"`
	Dim     int     `yaml:"dim"`
	Columns [][]int `yaml:"columns,flow"`
}

// ParseYAML reads a maze from its YAML representation and validates it.
func ParseYAML(data []byte) (*Maze, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, formatError("invalid yaml: %v", err)
	}
	m, err := New(f.Dim)
	if err != nil {
		return nil, err
	}
	if len(f.Columns) != f.Dim {
		return nil, formatError("expected %d columns, got %d", f.Dim, len(f.Columns))
	}
	for x, col := range f.Columns {
		if len(col) != f.Dim {
			return nil, formatError("column %d: expected %d cells, got %d", x, f.Dim, len(col))
		}
		for y, v := range col {
			if v < 0 || v > 15 {
				return nil, formatError("column %d row %d: invalid wall mask %d", x, y, v)
			}
			m.SetWalls(core.C(x, y), uint8(v))
		}
	}
	m.Name = f.Name

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// EncodeYAML encodes m as a YAML document.
func (m *Maze) EncodeYAML() ([]byte, error) {
	f := File{Name: m.Name, Dim: m.dim, Columns: make([][]int, m.dim)}
	for x := 0; x < m.dim; x++ {
		f.Columns[x] = make([]int, m.dim)
		for y := 0; y < m.dim; y++ {
			f.Columns[x][y] = int(m.Walls(core.C(x, y)))
		}
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("maze: cannot encode yaml: %w", err)
	}
	return data, nil
}

// Load reads a maze file, picking the format by extension (.yaml/.yml or
// plain text). The file's base name becomes the maze name unless the file
// sets one.
func Load(path string) (*Maze, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("maze: cannot read %s: %w", path, err)
	}

	var m *Maze
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err = ParseYAML(data)
	default:
		m, err = Parse(strings.NewReader(string(data)))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Save writes m to path, in YAML for .yaml/.yml and plain text otherwise.
func Save(m *Maze, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("maze: cannot create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := m.EncodeYAML()
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("maze: cannot write %s: %w", path, err)
		}
	default:
		if err := m.WriteText(f); err != nil {
			return fmt.Errorf("maze: cannot write %s: %w", path, err)
		}
	}
	return nil
}

func formatError(format string, args ...any) error {
	return &ValidationError{Code: CodeFormat, Message: fmt.Sprintf(format, args...)}
}
