package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPayload(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{
			name: "payload between preamble and trailer",
			text: "preamble\n[{\"tableName\":\"users\"}]\ntrailer",
			want: `[{"tableName":"users"}]`,
		},
		{
			name: "multiline payload keeps inner breaks",
			text: "head\n[\n  {}\n]\ntail",
			want: "[\n  {}\n]",
		},
		{
			name: "text ending at the last break",
			text: "head\npayload\n",
			want: "payload",
		},
		{
			name: "adjacent breaks give empty payload",
			text: "head\n\ntail",
			want: "",
		},
		{
			name:    "no line breaks",
			text:    "just one line",
			wantErr: true,
		},
		{
			name:    "single line break",
			text:    "head\ntail",
			wantErr: true,
		},
		{
			name:    "empty text",
			text:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPayload(tt.text)
			if tt.wantErr {
				var extErr *ExtractionError
				require.ErrorAs(t, err, &extErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
