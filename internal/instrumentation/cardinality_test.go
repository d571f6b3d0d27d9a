package instrumentation

import "testing"

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/instant-meeting", "/api/instant-meeting"},
		{"/api/schedule-meeting", "/api/schedule-meeting"},
		{"/api/time-slots", "/api/time-slots"},
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/api/time-slots/extra", RouteOther},
		{"/wp-login.php", RouteOther},
		{"", RouteOther},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := NormalizeRoute(tt.path); got != tt.want {
				t.Errorf("NormalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestOperationConstants(t *testing.T) {
	if OperationCreate != "create" || OperationDelete != "delete" {
		t.Error("unexpected operation constants")
	}
}
