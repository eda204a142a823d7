package media

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/neilberkman/chatrider/internal/core/locator"
	"github.com/neilberkman/chatrider/pkg/waexport"
)

func setupExport(t *testing.T) locator.Export {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"_chat.txt":  "[13/01/25, 11:52:46 AM] Alice: <attached: a.jpg>",
		"a.jpg":      "image-bytes",
		"voice.opus": "audio",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	exp, ok, err := locator.Load(dir)
	if err != nil || !ok {
		t.Fatalf("Load failed: %v %v", ok, err)
	}
	return exp
}

func TestCopy(t *testing.T) {
	exp := setupExport(t)
	dest := t.TempDir()

	res, err := Copy(exp, dest)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if res.Copied != 2 || res.Skipped != 0 {
		t.Errorf("first copy = %+v", res)
	}
	if res.Bytes != int64(len("image-bytes")+len("audio")) {
		t.Errorf("Bytes = %d", res.Bytes)
	}

	data, err := os.ReadFile(filepath.Join(dest, Dir, "a.jpg"))
	if err != nil || string(data) != "image-bytes" {
		t.Errorf("copied content = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(dest, Dir, "_chat.txt")); !os.IsNotExist(err) {
		t.Error("transcript should not be copied as media")
	}

	res, err = Copy(exp, dest)
	if err != nil {
		t.Fatal(err)
	}
	if res.Copied != 0 || res.Skipped != 2 {
		t.Errorf("second copy = %+v, want everything skipped", res)
	}
}

func TestValidate(t *testing.T) {
	msgs := []waexport.Message{
		{Type: waexport.MessageTypeMedia, Media: &waexport.Media{Filename: "a.jpg"}},
		{Type: waexport.MessageTypeMedia, Media: &waexport.Media{Filename: "a.jpg"}},
		{Type: waexport.MessageTypeMedia, Media: &waexport.Media{Filename: "gone.mp4"}},
		{Type: waexport.MessageTypeMediaOmitted, Content: "image omitted"},
		{Type: waexport.MessageTypeText, Content: "hi"},
	}
	files := []locator.MediaFile{{Name: "a.jpg"}, {Name: "extra.pdf"}}

	rep := Validate(msgs, files)
	if rep.Referenced != 2 || rep.Present != 2 {
		t.Errorf("counts = %d referenced, %d present", rep.Referenced, rep.Present)
	}
	if !reflect.DeepEqual(rep.Missing, []string{"gone.mp4"}) {
		t.Errorf("Missing = %v", rep.Missing)
	}
	if !reflect.DeepEqual(rep.Unreferenced, []string{"extra.pdf"}) {
		t.Errorf("Unreferenced = %v", rep.Unreferenced)
	}
	if rep.OK() {
		t.Error("OK() should be false with missing files")
	}
}

func TestValidate_Empty(t *testing.T) {
	rep := Validate(nil, nil)
	if !rep.OK() || rep.Referenced != 0 || len(rep.Unreferenced) != 0 {
		t.Errorf("rep = %+v", rep)
	}
}
