package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	calls    []string
	flushes  int
	err      error
}

func (f *fakeExec) record(format string, args ...any) error {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Import(_ context.Context, p string) error   { return f.record("import %s", p) }
func (f *fakeExec) Validate(_ context.Context, p string) error { return f.record("validate %s", p) }
func (f *fakeExec) Preview(_ context.Context, p string, n int) error {
	return f.record("preview %s %d", p, n)
}
func (f *fakeExec) Export(_ context.Context, p string) error   { return f.record("export %s", p) }
func (f *fakeExec) Template(_ context.Context, p string) error { return f.record("template %s", p) }
func (f *fakeExec) Stats(context.Context) error                { return f.record("stats") }
func (f *fakeExec) Bin(context.Context) error                  { return f.record("bin") }
func (f *fakeExec) Delete(_ context.Context, id int64) error   { return f.record("delete %d", id) }
func (f *fakeExec) Restore(_ context.Context, id int64) error  { return f.record("restore %d", id) }
func (f *fakeExec) Purge(_ context.Context, id int64) error    { return f.record("purge %d", id) }
func (f *fakeExec) Deliver(_ context.Context, id int64, d string) error {
	return f.record("deliver %d %s", id, d)
}
func (f *fakeExec) Pending(context.Context) error { return f.record("pending") }
func (f *fakeExec) flush(context.Context)         { f.flushes++ }

func silence(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestDispatch(t *testing.T) {
	silence(t)

	tests := []struct {
		line    string
		want    string
		wantErr error
	}{
		{line: "import carga.xlsx", want: "import carga.xlsx"},
		{line: "validate carga.xlsx", want: "validate carga.xlsx"},
		{line: "preview carga.xlsx", want: "preview carga.xlsx 10"},
		{line: "preview carga.xlsx 3", want: "preview carga.xlsx 3"},
		{line: "export out.xlsx", want: "export out.xlsx"},
		{line: "template t.xlsx", want: "template t.xlsx"},
		{line: "stats", want: "stats"},
		{line: "bin", want: "bin"},
		{line: "pending", want: "pending"},
		{line: "delete 4", want: "delete 4"},
		{line: "restore 4", want: "restore 4"},
		{line: "purge 4", want: "purge 4"},
		{line: "deliver 9", want: "deliver 9 "},
		{line: "deliver 9 01/02/2024", want: "deliver 9 01/02/2024"},
		{line: "import", wantErr: errUsage},
		{line: "export a b", wantErr: errUsage},
		{line: "preview x.xlsx muchos", wantErr: errUsage},
		{line: "deliver", wantErr: errUsage},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			f := &fakeExec{}
			quit, err := dispatch(context.Background(), f, strings.Fields(tt.line))
			assert.False(t, quit)
			assert.Equal(t, 1, f.flushes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, f.calls)
		})
	}
}

func TestDispatch_BadInput(t *testing.T) {
	silence(t)
	f := &fakeExec{}

	_, err := dispatch(context.Background(), f, []string{"purge", "-1"})
	assert.EqualError(t, err, "id inválido: -1")

	_, err = dispatch(context.Background(), f, []string{"frobnicate"})
	assert.EqualError(t, err, "comando desconocido: frobnicate")

	quit, err := dispatch(context.Background(), f, []string{"exit"})
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Equal(t, 2, f.flushes, "exit does not flush")
}

func TestRunREPL(t *testing.T) {
	out := silence(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"",
		"help",
		"import carga.xlsx",
		"bogus",
		"exit",
		"stats",
	}, "\n"))

	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(input))

	assert.Equal(t, []string{"login", "import carga.xlsx"}, f.calls)
	assert.Contains(t, *out, helpLoggedOut)
	assert.Contains(t, *out, helpLoggedIn)
	assert.Contains(t, *out, "Error:comando desconocido: bogus")
	assert.Equal(t, "Hasta luego.", (*out)[len(*out)-1])
}

func TestRunREPL_CommandErrorKeepsLoop(t *testing.T) {
	out := silence(t)

	f := &fakeExec{err: errors.New("sin conexión")}
	runREPL(context.Background(), f, func() string { return "" }, bufio.NewScanner(strings.NewReader("stats\npending\n")))

	assert.Equal(t, []string{"stats", "pending"}, f.calls)
	assert.Contains(t, *out, "Error:sin conexión")
}
