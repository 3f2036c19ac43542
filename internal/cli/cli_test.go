package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestPrompter_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes", input: "YES\n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty", input: "\n", want: false},
		{name: "eof", input: "", want: false},
		{name: "no trailing newline", input: "y", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := NewPrompter(strings.NewReader(tt.input), out)

			got, err := p.Confirm(context.Background(), "Delete category Food?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete category Food? [y/N]")
		})
	}
}

func TestPrompter_Ask(t *testing.T) {
	p := NewPrompter(strings.NewReader("  asha@example.com \n\n"), io.Discard)
	ctx := context.Background()

	got, err := p.Ask(ctx, "Email", "demo@xpense.com")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", got)

	got, err = p.Ask(ctx, "Password", "password")
	require.NoError(t, err)
	assert.Equal(t, "password", got)
}

func TestNonBlockingReader_Cancelled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	reader := NewNonBlockingReader(pr)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := reader.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInputCancelled)
}

func TestNewNonBlockingReader_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewNonBlockingReader(nil) })
}

func TestInterruptHandler(t *testing.T) {
	out := &syncBuffer{}
	h := NewInterruptHandler(out)

	ctx, stop := h.HandleInterrupts(context.Background(), "Nothing was imported.")
	defer stop()
	assert.False(t, h.WasInterrupted())

	h.interrupt()
	h.interrupt()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
	assert.True(t, h.WasInterrupted())
	assert.Equal(t, 1, strings.Count(out.String(), "Interrupted!"))
	assert.Contains(t, out.String(), "Nothing was imported.")
}

func TestNewInterruptHandler_DefaultWriter(t *testing.T) {
	h := NewInterruptHandler(nil)
	assert.NotNil(t, h.writer)
}

func TestTable(t *testing.T) {
	out := &bytes.Buffer{}
	table := NewTable(out, "ID", "Name", "Color")
	table.Row("cat1", "Food", "#6366f1")
	table.Row("cat22", "Transport")
	require.NoError(t, table.Flush())

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "ID")
	assert.True(t, strings.HasPrefix(lines[1], "----"))
	assert.Contains(t, lines[2], "Food")
	assert.Contains(t, lines[3], "Transport")
}

func TestGroupThousands(t *testing.T) {
	tests := map[float64]string{
		0:          "0",
		450:        "450",
		1200:       "1,200",
		1234567.5:  "1,234,567.50",
		-98765.432: "-98,765.43",
		999.999:    "1,000",
	}
	for in, want := range tests {
		assert.Equal(t, want, groupThousands(in), "%v", in)
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("saved"), "saved")
	assert.Contains(t, FormatError("failed"), "failed")
	assert.Contains(t, FormatAmount("INR", 1200), "INR 1,200")
	assert.Contains(t, Swatch("#6366f1"), SwatchIcon)
	assert.Contains(t, Swatch("indigo"), SwatchIcon)
	assert.Contains(t, RenderBox("Total", "INR 10"), "INR 10")
}
