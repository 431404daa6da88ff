package lottie

import "testing"

const sampleDoc = `{
	"v": "5.5.2",
	"fr": 30,
	"ip": 0,
	"op": 60,
	"w": 200,
	"h": 100,
	"nm": "sample",
	"layers": [
		{
			"ind": 0,
			"ty": 4,
			"nm": "square",
			"ip": 0,
			"op": 60,
			"ks": {
				"a": {"a":0,"k":[0,0]},
				"p": {"a":0,"k":[100,50]},
				"s": {"a":0,"k":[100,100]},
				"r": {"a":0,"k":0},
				"o": {"a":0,"k":100}
			},
			"shapes": []
		}
	]
}`

func TestParseDecodesDocumentMetadata(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Width != 200 || doc.Height != 100 {
		t.Errorf("dims = %dx%d, want 200x100", doc.Width, doc.Height)
	}
	if doc.FrameRate != 30 {
		t.Errorf("FrameRate = %v, want 30", doc.FrameRate)
	}
	if len(doc.Layers) != 1 {
		t.Fatalf("len(Layers) = %d, want 1", len(doc.Layers))
	}
	layer := doc.Layers[0]
	if layer.Type != LayerShape {
		t.Errorf("layer.Type = %v, want LayerShape", layer.Type)
	}
	x, y := layer.Transform.Position.Eval(0)
	if x != 100 || y != 50 {
		t.Errorf("layer position = (%v,%v), want (100,50)", x, y)
	}
}

func TestParseInvalidJSONReturnsError(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("Parse(invalid json) should return an error")
	}
}
