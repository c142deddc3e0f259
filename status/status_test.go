package status

import "testing"

func TestText(t *testing.T) {
	testCases := []struct {
		name   string
		status Status
		out    string
	}{
		{"Testing idle status", 0, "Dataset not loaded yet"},
		{"Testing loading status", 1, "Dataset is being loaded"},
		{"Testing ready status", 2, "Dataset loaded, charts available"},
		{"Testing failed status", 3, "Dataset unavailable"},
		{"Testing unknown status", 505, ""},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			res := Text(tt.status)
			if res != tt.out {
				t.Errorf("want %s, got %s", tt.out, res)
			}
		})
	}
}
