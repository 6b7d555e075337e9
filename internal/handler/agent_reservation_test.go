package handler

import "testing"

func TestAcceptTable(t *testing.T) {
	five := 5
	cases := []struct {
		name       string
		param      string
		current    *int
		tableCount int
		want       int
		wantErr    bool
	}{
		{"param assigns table", "3", nil, 10, 3, false},
		{"param overwrites existing table", "7", &five, 10, 7, false},
		{"absent param keeps existing table", "", &five, 10, 5, false},
		{"absent param without table", "", nil, 10, 0, true},
		{"non-numeric param", "abc", &five, 10, 0, true},
		{"param below range", "0", nil, 10, 0, true},
		{"param above range", "11", nil, 10, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := acceptTable(tc.param, tc.current, tc.tableCount)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got table %d", got)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("acceptTable = %d, %v; want %d", got, err, tc.want)
			}
		})
	}
}
