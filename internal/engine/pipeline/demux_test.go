package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		want   []string
		wantOK bool
	}{
		{
			name:   "empty input",
			data:   "",
			want:   nil,
			wantOK: true,
		},
		{
			name:   "single record",
			data:   "%%cell 2\nhi\n",
			want:   []string{"hi"},
			wantOK: true,
		},
		{
			name:   "multiple records",
			data:   "%%cell 1\n2\n%%cell 4\ndone\n",
			want:   []string{"2", "done"},
			wantOK: true,
		},
		{
			name:   "empty payload",
			data:   "%%cell 0\n\n",
			want:   []string{""},
			wantOK: true,
		},
		{
			name: "payload containing newlines",
			// The length frame covers the embedded newline, so the parser
			// must not treat it as a record boundary.
			data:   "%%cell 6\na\nb\nc\n\n%%cell 1\nx\n",
			want:   []string{"a\nb\nc\n", "x"},
			wantOK: true,
		},
		{
			name:   "missing trailing newline on last record",
			data:   "%%cell 2\nhi",
			want:   []string{"hi"},
			wantOK: true,
		},
		{
			name:   "garbage header",
			data:   "not a record\n",
			want:   nil,
			wantOK: false,
		},
		{
			name:   "garbage after valid record",
			data:   "%%cell 2\nhi\ngarbage",
			want:   []string{"hi"},
			wantOK: false,
		},
		{
			name:   "truncated payload",
			data:   "%%cell 10\nshort\n",
			want:   nil,
			wantOK: false,
		},
		{
			name:   "non-numeric length",
			data:   "%%cell abc\nhi\n",
			want:   nil,
			wantOK: false,
		},
		{
			name:   "negative length",
			data:   "%%cell -1\nhi\n",
			want:   nil,
			wantOK: false,
		},
		{
			name:   "header cut off mid-length",
			data:   "%%cell 12",
			want:   nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseRecords([]byte(tt.data))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceholderResult(t *testing.T) {
	nb := &domain.Notebook{
		Cells: []domain.Cell{
			{Kind: domain.CellKindMarkdown, Content: "# intro"},
			{Kind: domain.CellKindCode, Content: "echo hi"},
			{Kind: domain.CellKindCode, Content: "echo bye"},
		},
	}

	result := placeholderResult(nb)

	assert.True(t, result.Success)
	require.Len(t, result.Cells, 3)
	assert.Empty(t, result.Cells[0].Output)
	assert.Equal(t, domain.NoOutputPlaceholder, result.Cells[1].Output)
	assert.Equal(t, domain.NoOutputPlaceholder, result.Cells[2].Output)
	for _, cell := range result.Cells {
		assert.True(t, cell.Success)
		assert.Empty(t, cell.Error)
	}
}
