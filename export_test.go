package director

import (
	"context"
	"testing"
)

func TestExportRejectsNonPositiveFPS(t *testing.T) {
	d := newTestDirector()
	err := Export(context.Background(), d, ExportOptions{Width: 10, Height: 10, FPS: 0, OutPath: "out.mp4"})
	if err == nil {
		t.Error("expected an error for fps <= 0")
	}
}
