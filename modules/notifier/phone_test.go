package notifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventreport/backend/modules/notifier"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		phone  string
		prefix string
		want   string
	}{
		{
			name:   "already E.164",
			phone:  "+17349771053",
			prefix: "+4",
			want:   "+17349771053",
		},
		{
			name:   "national number with leading zero",
			phone:  "0712345678",
			prefix: "+4",
			want:   "+40712345678",
		},
		{
			name:   "bare number without leading zero",
			phone:  "712345678",
			prefix: "+4",
			want:   "+712345678",
		},
		{
			name:   "surrounding whitespace is trimmed",
			phone:  " +40712345678 ",
			prefix: "+4",
			want:   "+40712345678",
		},
		{
			name:   "empty stays empty",
			phone:  "",
			prefix: "+4",
			want:   "",
		},
		{
			name:   "different country prefix",
			phone:  "0612345678",
			prefix: "+3",
			want:   "+30612345678",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, notifier.NormalizePhone(tt.phone, tt.prefix))
		})
	}
}
