package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizeMSISDN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "international with plus", input: "+254712345678", want: "0712345678"},
		{name: "international without plus", input: "254712345678", want: "0712345678"},
		{name: "with spaces", input: "+254 712 345 678", want: "0712345678"},
		{name: "already local", input: "0712345678", want: "0712345678"},
		{name: "unrelated shape", input: "12345", want: "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, localizeMSISDN(tt.input))
		})
	}
}
