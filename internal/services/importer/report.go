package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type report struct {
	lines    []string
	ignored  []int
	imported int
}

func (r *report) reject(fila int, line string) {
	r.lines = append(r.lines, line)
	r.ignored = append(r.ignored, fila)
}

func (r *report) ignoredRows() []int {
	out := make([]int, len(r.ignored))
	copy(out, r.ignored)
	return out
}

// summary returns the row lines followed by the totals.
func (r *report) summary(processed int) []string {
	out := make([]string, 0, len(r.lines)+4)
	out = append(out, r.lines...)
	out = append(out,
		fmt.Sprintf("Total registros procesados: %d", processed),
		fmt.Sprintf("Total importados correctamente: %d", r.imported),
		fmt.Sprintf("Total ignorados: %d", len(r.ignored)),
	)
	if len(r.ignored) > 0 {
		rows := make([]string, len(r.ignored))
		for i, f := range r.ignored {
			rows[i] = strconv.Itoa(f)
		}
		out = append(out, "Filas ignoradas: "+strings.Join(rows, ", "))
	}
	return out
}

// writeLog writes lines, joined with "\n", to import_log-<stamp>.txt in dir.
func writeLog(dir, stamp string, lines []string) (string, error) {
	p := filepath.Join(dir, "import_log-"+stamp+".txt")
	if err := os.WriteFile(p, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return "", err
	}
	return p, nil
}
